package gesture

import "time"

// Timer is a handle to a pending deferred callback.
type Timer interface {
	// Stop prevents the callback from running. It reports false when the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler runs a callback once after a delay. Implementations must invoke
// f on the same goroutine that delivers gesture events.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// ManualScheduler holds callbacks until its owner advances the clock.
// Callbacks only ever run inside Advance, on the caller's goroutine, so a
// host drives it from the same loop that delivers pointer events.
type ManualScheduler struct {
	now     time.Duration
	pending []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// NewManualScheduler returns a scheduler whose clock starts at zero
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements Scheduler
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{at: s.now + max(d, 0), f: f}
	s.pending = append(s.pending, t)
	return t
}

// Advance moves the clock forward by d and runs every callback that came
// due, earliest first. The clock reads each callback's deadline while it
// runs, so callbacks scheduled from inside one fire in the same call when
// they fall within d.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + max(d, 0)
	for {
		t := s.popDue(target)
		if t == nil {
			break
		}
		s.now = max(s.now, t.at)
		t.fired = true
		t.f()
	}
	s.now = target
}

// Pending is the number of callbacks still waiting
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Now is the scheduler's elapsed clock
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

func (s *ManualScheduler) popDue(until time.Duration) *manualTimer {
	live := s.pending[:0]
	for _, t := range s.pending {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.pending = live

	idx := -1
	for i, t := range s.pending {
		if t.at <= until && (idx < 0 || t.at < s.pending[idx].at) {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	t := s.pending[idx]
	s.pending = append(s.pending[:idx], s.pending[idx+1:]...)
	return t
}
