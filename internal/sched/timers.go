// Package sched provides named, cancellable debounce timers. Scheduling a
// name that already has a pending timer cancels and reschedules it, so at
// most one callback per name is ever in flight. Flush exists so tests can
// fire pending timers deterministically instead of sleeping.
package sched

import (
	"sync"
	"time"
)

// Timers is an arena of named debounce timers.
type Timers struct {
	mu      sync.Mutex
	pending map[string]*entry
	stopped bool
}

type entry struct {
	timer *time.Timer
	fn    func()
}

// New returns an empty timer arena.
func New() *Timers {
	return &Timers{pending: make(map[string]*entry)}
}

// Debounce schedules fn to run after delay, cancelling any pending timer
// with the same name first.
func (t *Timers) Debounce(name string, delay time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if prev, ok := t.pending[name]; ok {
		prev.timer.Stop()
	}
	e := &entry{fn: fn}
	e.timer = time.AfterFunc(delay, func() {
		t.mu.Lock()
		// Only fire if this entry is still the current one for the name.
		if cur, ok := t.pending[name]; !ok || cur != e {
			t.mu.Unlock()
			return
		}
		delete(t.pending, name)
		t.mu.Unlock()
		fn()
	})
	t.pending[name] = e
}

// Flush cancels the pending timer for name, if any, and runs its callback
// immediately.
func (t *Timers) Flush(name string) {
	t.mu.Lock()
	e, ok := t.pending[name]
	if ok {
		e.timer.Stop()
		delete(t.pending, name)
	}
	t.mu.Unlock()
	if ok {
		e.fn()
	}
}

// Cancel drops the pending timer for name without running it.
func (t *Timers) Cancel(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.pending[name]; ok {
		e.timer.Stop()
		delete(t.pending, name)
	}
}

// Pending reports whether a timer is scheduled for name.
func (t *Timers) Pending(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.pending[name]
	return ok
}

// Stop cancels all pending timers and rejects further scheduling.
func (t *Timers) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name, e := range t.pending {
		e.timer.Stop()
		delete(t.pending, name)
	}
	t.stopped = true
}
