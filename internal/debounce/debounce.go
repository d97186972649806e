// Package debounce hands out cancellable handles for delayed work. Only the
// most recently scheduled handle may fire; scheduling again supersedes it.
package debounce

import "sync"

// Handle identifies one scheduled firing. The zero Handle never fires.
type Handle uint64

// Debouncer tracks the single live handle of a search session
type Debouncer struct {
	mu   sync.Mutex
	seq  uint64
	live Handle
}

// New creates a debouncer with nothing pending
func New() *Debouncer {
	return &Debouncer{}
}

// Schedule cancels any pending handle and returns a new live one
func (d *Debouncer) Schedule() Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.live = Handle(d.seq)
	return d.live
}

// Cancel drops h if it is still pending
func (d *Debouncer) Cancel(h Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.live == h {
		d.live = 0
	}
}

// Fire reports whether h is the live handle, consuming it. Stale or
// cancelled handles return false.
func (d *Debouncer) Fire(h Handle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if h == 0 || d.live != h {
		return false
	}
	d.live = 0
	return true
}

// Reset drops whatever handle is pending
func (d *Debouncer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.live = 0
}

// Pending reports whether a handle is waiting to fire
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live != 0
}
