package engine

import (
	"sync"
	"time"
)

// DefaultDebounce is the delay used to coalesce resize-triggered recomputes.
const DefaultDebounce = 150 * time.Millisecond

// Debouncer coalesces rapid-fire triggers into a single callback that fires
// once the triggers go quiet for the configured delay. Each Trigger cancels
// the pending callback and reschedules with the latest function, so the
// last trigger wins — the same policy the geometry recompute wants under a
// continuous window resize.
//
// Safe for concurrent use.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given delay. Delays <= 0 fall
// back to [DefaultDebounce].
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the quiet period, replacing any pending
// callback. fn runs on a timer goroutine.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending callback. The debouncer remains usable.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
