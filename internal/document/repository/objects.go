package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gogotex/collab-editor/internal/document"
	"github.com/minio/minio-go/v7"
)

// ObjectStorage is the subset of the object-storage client the snapshot
// backend needs. *storage.MinIOStorage satisfies it.
type ObjectStorage interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
}

// ObjectStore keeps the snapshot as a single JSON object in a bucket.
type ObjectStore struct {
	objects ObjectStorage
	key     string
}

func NewObjectStore(objects ObjectStorage, key string) *ObjectStore {
	if key == "" {
		key = "documents.json"
	}
	return &ObjectStore{objects: objects, key: key}
}

func (o *ObjectStore) Load(ctx context.Context) ([]*document.Document, error) {
	rc, err := o.objects.DownloadFile(ctx, o.key)
	if err != nil {
		if isNoSuchKey(err) {
			return []*document.Document{}, nil
		}
		return nil, fmt.Errorf("download %s: %w", o.key, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", o.key, err)
	}
	return decodeSnapshot(b)
}

func (o *ObjectStore) Save(ctx context.Context, docs []*document.Document) error {
	b, err := encodeSnapshot(docs)
	if err != nil {
		return err
	}
	if err := o.objects.UploadFile(ctx, o.key, bytes.NewReader(b), int64(len(b)), "application/json"); err != nil {
		return fmt.Errorf("upload %s: %w", o.key, err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
