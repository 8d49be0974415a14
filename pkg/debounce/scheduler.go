package debounce

import (
	"slices"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// FakeScheduler is a virtual clock. Callbacks only run from Advance, on the
// calling goroutine, in due order.
type FakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*fakeTimer
}

type fakeTimer struct {
	s       *FakeScheduler
	due     time.Duration
	seq     uint64
	fn      func()
	stopped bool
}

func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{}
}

func (s *FakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &fakeTimer{s: s, due: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	t.s.timers = slices.DeleteFunc(t.s.timers, func(o *fakeTimer) bool { return o == t })
	return true
}

// Now returns the virtual time elapsed since creation.
func (s *FakeScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending is the number of timers that have not fired or been stopped.
func (s *FakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Advance moves the clock forward, firing every timer that falls due,
// including timers scheduled by callbacks within the window.
func (s *FakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()
	for {
		s.mu.Lock()
		next := s.nextDue(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.due
		next.stopped = true
		s.timers = slices.DeleteFunc(s.timers, func(o *fakeTimer) bool { return o == next })
		s.mu.Unlock()
		next.fn()
	}
}

func (s *FakeScheduler) nextDue(target time.Duration) *fakeTimer {
	var next *fakeTimer
	for _, t := range s.timers {
		if t.due > target {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.seq < next.seq) {
			next = t
		}
	}
	return next
}
