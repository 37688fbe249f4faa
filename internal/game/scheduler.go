package game

import (
	"sync"
	"time"
)

// Scheduler owns the named timers driving the simulation loops. Each loop
// reschedules itself after its body returns, so a loop never overlaps
// itself no matter how long a tick takes. Replacing or cancelling a name
// invalidates any timer already in flight under that name.
type Scheduler struct {
	mu    sync.Mutex
	clock Clock
	seq   map[string]uint64
	timer map[string]Timer
}

func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{
		clock: clock,
		seq:   map[string]uint64{},
		timer: map[string]Timer{},
	}
}

// Schedule arms a named one-shot, replacing any pending timer under the
// same name.
func (s *Scheduler) Schedule(name string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduleLocked(name, d, fn)
}

func (s *Scheduler) scheduleLocked(name string, d time.Duration, fn func()) {
	if t, ok := s.timer[name]; ok {
		t.Stop()
	}
	s.seq[name]++
	seq := s.seq[name]
	s.timer[name] = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		current := s.seq[name] == seq
		if current {
			delete(s.timer, name)
		}
		s.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Repeat runs fn every interval(), re-reading the interval after each run
// so config changes take effect on the next arm.
func (s *Scheduler) Repeat(name string, interval func() time.Duration, fn func()) {
	var arm func()
	arm = func() {
		fn()
		s.mu.Lock()
		s.scheduleLocked(name, interval(), arm)
		s.mu.Unlock()
	}
	s.Schedule(name, interval(), arm)
}

// Cancel stops the named timer if one is pending.
func (s *Scheduler) Cancel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timer[name]; ok {
		t.Stop()
		delete(s.timer, name)
	}
	s.seq[name]++
}

// After arms an anonymous one-shot.
func (s *Scheduler) After(d time.Duration, fn func()) Timer {
	return s.clock.AfterFunc(d, fn)
}
