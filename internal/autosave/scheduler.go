package autosave

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancellable, reschedulable pending callback.
type Timer interface {
	Stop() bool
	Reset(d time.Duration) bool
}

// Scheduler arms timers. Production code uses SystemScheduler; tests drive a
// ManualScheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemScheduler schedules callbacks on the runtime timer.
type SystemScheduler struct{}

// AfterFunc wraps time.AfterFunc.
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler is a fake clock. Timers fire only from Advance, on the
// calling goroutine.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	scheduler *ManualScheduler
	deadline  time.Time
	fn        func()
	active    bool
	sequence  int
}

// NewManualScheduler returns a fake clock starting at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now reports the fake clock time.
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer := &manualTimer{
		scheduler: s,
		deadline:  s.now.Add(d),
		fn:        f,
		active:    true,
		sequence:  len(s.timers),
	}
	s.timers = append(s.timers, timer)
	return timer
}

// Pending counts armed timers.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, timer := range s.timers {
		if timer.active {
			count++
		}
	}
	return count
}

// Advance moves the clock forward by d, firing due timers in deadline order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		due := s.nextDueLocked(target)
		if due == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = due.deadline
		due.active = false
		fn := due.fn
		s.mu.Unlock()
		fn()
	}
}

func (s *ManualScheduler) nextDueLocked(target time.Time) *manualTimer {
	candidates := make([]*manualTimer, 0, len(s.timers))
	for _, timer := range s.timers {
		if timer.active && !timer.deadline.After(target) {
			candidates = append(candidates, timer)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].deadline.Equal(candidates[j].deadline) {
			return candidates[i].sequence < candidates[j].sequence
		}
		return candidates[i].deadline.Before(candidates[j].deadline)
	})
	return candidates[0]
}

func (t *manualTimer) Stop() bool {
	t.scheduler.mu.Lock()
	defer t.scheduler.mu.Unlock()
	wasActive := t.active
	t.active = false
	return wasActive
}

func (t *manualTimer) Reset(d time.Duration) bool {
	t.scheduler.mu.Lock()
	defer t.scheduler.mu.Unlock()
	wasActive := t.active
	t.active = true
	t.deadline = t.scheduler.now.Add(d)
	return wasActive
}
