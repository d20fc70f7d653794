package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogotex/collab-editor/internal/debounce"
	"github.com/gogotex/collab-editor/internal/document"
	"github.com/gogotex/collab-editor/internal/document/repository"
	"github.com/gogotex/collab-editor/pkg/logger"
	"github.com/gogotex/collab-editor/pkg/metrics"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("document not found")
)

// DefaultSaveDelay is the quiet period after the last edit of a document
// before the registry writes a snapshot.
const DefaultSaveDelay = 5 * time.Second

// Registry is the in-memory source of truth for documents. Every mutation
// that must survive a restart ends in a full snapshot write to the Store.
type Registry struct {
	store   repository.Store
	backend string
	now     func() time.Time
	newID   func() string
	delay   time.Duration

	mu     sync.RWMutex
	docs   map[string]*document.Document
	order  []string
	loaded bool

	saveMu   sync.Mutex
	debounce *debounce.Debouncer
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option { return func(r *Registry) { r.now = now } }

func WithSaveDelay(d time.Duration) Option { return func(r *Registry) { r.delay = d } }

func WithIDGenerator(gen func() string) Option { return func(r *Registry) { r.newID = gen } }

// WithBackendName overrides the backend label used on snapshot logs and
// metrics, which defaults to repository.BackendName(store).
func WithBackendName(name string) Option { return func(r *Registry) { r.backend = name } }

func NewRegistry(store repository.Store, opts ...Option) *Registry {
	r := &Registry{
		store:   store,
		backend: repository.BackendName(store),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.NewString() },
		delay:   DefaultSaveDelay,
		docs:    make(map[string]*document.Document),
	}
	for _, o := range opts {
		o(r)
	}
	r.debounce = debounce.New(r.delay)
	return r
}

// Load reads the snapshot and guarantees the default document exists. A
// failing store is logged and the registry starts with the default document
// only; the error is returned so callers can surface it.
func (r *Registry) Load(ctx context.Context) error {
	docs, err := r.store.Load(ctx)
	if err != nil {
		logger.Warnf("snapshot load failed, starting fresh: %v", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range docs {
		r.insertLocked(d.Clone())
	}
	if _, ok := r.docs[document.DefaultID]; !ok {
		// keep the welcome document first, as if it had been inserted before loading
		r.docs[document.DefaultID] = document.NewDefault(r.now())
		r.order = append([]string{document.DefaultID}, r.order...)
	}
	r.loaded = true
	if err == nil {
		logger.Infof("loaded %d documents from %s snapshot", len(docs), r.backend)
	}
	return err
}

// Loaded reports whether Load has completed.
func (r *Registry) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

func (r *Registry) insertLocked(d *document.Document) {
	if _, exists := r.docs[d.ID]; !exists {
		r.order = append(r.order, d.ID)
	}
	r.docs[d.ID] = d
}

// List returns document summaries in insertion order.
func (r *Registry) List() []document.Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]document.Summary, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.docs[id].Summary())
	}
	return out
}

func (r *Registry) Get(id string) (*document.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d.Clone(), nil
}

// Create inserts a new empty document and saves the snapshot in the background.
func (r *Registry) Create(title string) *document.Document {
	if title == "" {
		title = document.DefaultTitle
	}
	now := r.now()
	d := &document.Document{
		ID:        r.newID(),
		Title:     title,
		Content:   "",
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.mu.Lock()
	r.insertLocked(d)
	out := d.Clone()
	r.mu.Unlock()

	go r.persist(context.Background())
	return out
}

// UpdateContent replaces the content of an existing document (last write
// wins) and schedules a debounced save. Updates to unknown ids are dropped
// and reported by the false return.
func (r *Registry) UpdateContent(id, content string) bool {
	r.mu.Lock()
	d, ok := r.docs[id]
	if !ok {
		r.mu.Unlock()
		return false
	}
	d.Content = content
	if now := r.now(); now.After(d.UpdatedAt) {
		d.UpdatedAt = now
	}
	r.mu.Unlock()

	r.debounce.Schedule(id, func() { r.persist(context.Background()) })
	return true
}

// Flush synchronously writes the full registry to the store.
func (r *Registry) Flush(ctx context.Context) error {
	return r.save(ctx)
}

// Close cancels pending debounced saves and performs a final flush.
func (r *Registry) Close(ctx context.Context) error {
	r.debounce.Stop()
	return r.Flush(ctx)
}

func (r *Registry) persist(ctx context.Context) {
	if err := r.save(ctx); err != nil {
		logger.Errorf("error saving documents: %v", err)
	}
}

func (r *Registry) save(ctx context.Context) error {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	r.mu.RLock()
	snap := make([]*document.Document, 0, len(r.order))
	for _, id := range r.order {
		snap = append(snap, r.docs[id].Clone())
	}
	r.mu.RUnlock()

	if err := r.store.Save(ctx, snap); err != nil {
		metrics.SnapshotSaves.WithLabelValues(r.backend, "error").Inc()
		return fmt.Errorf("save snapshot: %w", err)
	}
	metrics.SnapshotSaves.WithLabelValues(r.backend, "ok").Inc()
	logger.Debugf("saved %d documents to %s snapshot", len(snap), r.backend)
	return nil
}
