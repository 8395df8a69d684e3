package gesture

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled
type Timer interface {
	// Stop cancels the timer. It returns false if the timer already fired
	// or was stopped.
	Stop() bool
}

// Scheduler runs a callback once after a delay
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// WallScheduler schedules callbacks on the wall clock with time.AfterFunc.
// Callbacks run on their own goroutine.
type WallScheduler struct{}

// AfterFunc implements Scheduler
func (WallScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// FrameScheduler fires callbacks from Advance, on the caller's goroutine.
// Hosts that run a frame loop call Advance once per frame with the same
// timestamps they feed to the flip engine, which keeps every callback on
// the loop's goroutine. Tests use it as a deterministic clock.
type FrameScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	nextID  uint64
	pending []*frameTimer
}

// NewFrameScheduler creates a scheduler whose clock starts at now
func NewFrameScheduler(now time.Duration) *FrameScheduler {
	return &FrameScheduler{now: now}
}

type frameTimer struct {
	id       uint64
	deadline time.Duration
	f        func()
	owner    *FrameScheduler
}

// Stop implements Timer
func (t *frameTimer) Stop() bool {
	return t.owner.remove(t.id)
}

// AfterFunc implements Scheduler
func (s *FrameScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	t := &frameTimer{id: s.nextID, deadline: s.now + d, f: f, owner: s}
	s.pending = append(s.pending, t)
	return t
}

// Advance moves the clock to now and runs every callback whose deadline
// has passed, earliest first. A clock that moves backwards is ignored.
func (s *FrameScheduler) Advance(now time.Duration) {
	s.mu.Lock()
	if now > s.now {
		s.now = now
	}

	var due []*frameTimer
	kept := s.pending[:0]
	for _, t := range s.pending {
		if t.deadline <= s.now {
			due = append(due, t)
		} else {
			kept = append(kept, t)
		}
	}
	s.pending = kept
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].deadline < due[j].deadline })

	// Run outside the lock so callbacks may schedule again
	for _, t := range due {
		t.f()
	}
}

// Pending returns the number of armed timers
func (s *FrameScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *FrameScheduler) remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.pending {
		if t.id == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}
