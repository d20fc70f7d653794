package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gogotex/collab-editor/internal/document"
)

// FileStore persists the snapshot as a JSON file on local disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = "documents.json"
	}
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

// Load returns an empty snapshot when the file does not exist yet.
func (f *FileStore) Load(_ context.Context) ([]*document.Document, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*document.Document{}, nil
		}
		return nil, fmt.Errorf("read snapshot %s: %w", f.path, err)
	}
	return decodeSnapshot(b)
}

// Save writes to a temp file next to the target and renames it into place so
// a crash mid-write never leaves a truncated snapshot.
func (f *FileStore) Save(_ context.Context, docs []*document.Document) error {
	b, err := encodeSnapshot(docs)
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", f.path, err)
	}
	return nil
}
