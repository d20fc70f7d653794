package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gogotex/collab-editor/internal/document"
)

// Store is the durable snapshot of the document registry. Load is called once
// at startup; Save rewrites the whole snapshot.
type Store interface {
	Load(ctx context.Context) ([]*document.Document, error)
	Save(ctx context.Context, docs []*document.Document) error
}

// BackendName labels a store for logs and metrics. Stores of other types
// are reported as "custom".
func BackendName(s Store) string {
	switch s.(type) {
	case *MemoryStore:
		return "memory"
	case *FileStore:
		return "file"
	case *RedisStore:
		return "redis"
	case *MongoStore:
		return "mongo"
	case *ObjectStore:
		return "minio"
	default:
		return "custom"
	}
}

// encodeSnapshot renders docs as the pretty-printed JSON array shared by the
// file, Redis and object-storage backends.
func encodeSnapshot(docs []*document.Document) ([]byte, error) {
	if docs == nil {
		docs = []*document.Document{}
	}
	b, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

func decodeSnapshot(b []byte) ([]*document.Document, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return []*document.Document{}, nil
	}
	var docs []*document.Document
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	out := docs[:0]
	for _, d := range docs {
		if d != nil && d.ID != "" {
			out = append(out, d)
		}
	}
	return out, nil
}
