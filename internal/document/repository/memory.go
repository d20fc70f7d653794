package repository

import (
	"context"
	"sync"

	"github.com/gogotex/collab-editor/internal/document"
)

// MemoryStore keeps the last saved snapshot in memory. Used by tests and by the
// "memory" backend for throwaway runs.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  []*document.Document
	saves int
	err   error
}

func NewMemoryStore(seed ...*document.Document) *MemoryStore {
	return &MemoryStore{docs: cloneAll(seed)}
}

func (m *MemoryStore) Load(_ context.Context) ([]*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAll(m.docs), nil
}

func (m *MemoryStore) Save(_ context.Context, docs []*document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.err != nil {
		return m.err
	}
	m.docs = cloneAll(docs)
	return nil
}

// Saves reports how many times Save has been called.
func (m *MemoryStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// FailWith makes subsequent saves return err (nil restores normal behaviour).
func (m *MemoryStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func cloneAll(docs []*document.Document) []*document.Document {
	out := make([]*document.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Clone())
	}
	return out
}
