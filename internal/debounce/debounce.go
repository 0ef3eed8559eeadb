// Package debounce emits the last value pushed after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// Timer is the subset of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it via
// SystemAfterFunc; tests substitute a manual clock.
type AfterFunc func(d time.Duration, f func()) Timer

// SystemAfterFunc schedules with the runtime timer.
func SystemAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Option func(*options)

type options struct {
	after AfterFunc
}

// WithAfterFunc replaces the timer source.
func WithAfterFunc(after AfterFunc) Option {
	return func(o *options) { o.after = after }
}

// Debouncer calls fn with the most recent value once delay has elapsed with
// no further Push. Every Push stops the pending timer and starts a new one.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)
	after AfterFunc

	mu      sync.Mutex
	timer   Timer
	pending T
	armed   bool
	gen     uint64
	stopped bool
}

func New[T any](delay time.Duration, fn func(T), opts ...Option) *Debouncer[T] {
	o := options{after: SystemAfterFunc}
	for _, opt := range opts {
		opt(&o)
	}
	return &Debouncer[T]{delay: delay, fn: fn, after: o.after}
}

// Push records v and restarts the quiet period.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopTimerLocked()
	d.pending = v
	d.armed = true
	d.gen++
	gen := d.gen
	d.timer = d.after(d.delay, func() { d.fire(gen) })
}

// Flush emits the pending value now, if any. It reports whether a value was emitted.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.armed || d.stopped {
		d.mu.Unlock()
		return false
	}
	v := d.takeLocked()
	d.mu.Unlock()

	d.fn(v)
	return true
}

// Cancel drops the pending value without emitting it.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.takeLocked()
}

// Stop cancels any pending emission and ignores later pushes.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.takeLocked()
	d.stopped = true
}

// Pending reports whether an emission is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	// A timer that was stopped too late to prevent its callback still runs;
	// the generation check drops it.
	if !d.armed || gen != d.gen || d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.takeLocked()
	d.mu.Unlock()

	d.fn(v)
}

func (d *Debouncer[T]) takeLocked() T {
	d.stopTimerLocked()
	v := d.pending
	var zero T
	d.pending = zero
	d.armed = false
	d.gen++
	return v
}

func (d *Debouncer[T]) stopTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
