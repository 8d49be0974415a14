package debounce

import (
	"sync"
	"time"
)

// Debouncer commits the last pushed value once no new value has arrived for
// the configured quiet period.
type Debouncer[T any] struct {
	mu         sync.Mutex
	scheduler  Scheduler
	delay      time.Duration
	commit     func(T)
	timer      Timer
	pending    T
	hasPending bool
	generation uint64
	closed     bool
}

func NewDebouncer[T any](scheduler Scheduler, delay time.Duration, commit func(T)) *Debouncer[T] {
	if scheduler == nil {
		scheduler = RealScheduler{}
	}
	return &Debouncer[T]{
		scheduler: scheduler,
		delay:     delay,
		commit:    commit,
	}
}

func (d *Debouncer[T]) Push(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.pending = value
	d.hasPending = true
	d.stopLocked()
	gen := d.generation
	d.timer = d.scheduler.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.closed || gen != d.generation || !d.hasPending {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.hasPending = false
	d.timer = nil
	d.generation++
	d.mu.Unlock()
	d.commit(value)
}

// stopLocked invalidates the current timer. A real timer may already be
// running its callback; the generation check turns that into a no-op.
func (d *Debouncer[T]) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}

// HasPending reports whether a commit is scheduled.
func (d *Debouncer[T]) HasPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasPending
}

// Cancel drops the pending value without committing it.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.hasPending = false
}

// Close cancels any pending commit and ignores later pushes.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.hasPending = false
	d.closed = true
}
