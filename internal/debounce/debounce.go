// Package debounce coalesces bursts of work per key into a single delayed run.
package debounce

import (
	"sync"
	"time"
)

// Debouncer holds at most one pending task per key. Scheduling a key again
// before its delay elapses cancels the pending task and restarts the wait.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*task
	stopped bool
}

type task struct {
	timer *time.Timer
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, pending: make(map[string]*task)}
}

// Schedule runs fn once key has been quiet for the configured delay.
// Calls after Stop are ignored.
func (d *Debouncer) Schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
	}
	t := &task{}
	t.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// a superseded timer may still fire if Stop raced with expiry
		if d.pending[key] != t {
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		d.mu.Unlock()
		fn()
	})
	d.pending[key] = t
}

// Pending reports whether a task for key is waiting to run.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Stop cancels every pending task. It does not wait for tasks already running.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for k, t := range d.pending {
		t.timer.Stop()
		delete(d.pending, k)
	}
}
