package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/swipe_sheet/pkg/gesture"
)

// timerFiredMsg is delivered when a scheduled gesture timer elapses
type timerFiredMsg struct {
	id uint64
}

// frameMsg drives the tween one animation frame forward
type frameMsg time.Time

type teaTimer struct {
	sched *teaScheduler
	id    uint64
}

// Stop implements gesture.Timer
func (t *teaTimer) Stop() bool {
	_, ok := t.sched.timers[t.id]
	delete(t.sched.timers, t.id)
	return ok
}

type pendingTimer struct {
	id uint64
	d  time.Duration
}

// teaScheduler implements gesture.Scheduler on top of tea.Tick so that
// timer callbacks run inside Update, on the program's goroutine.
type teaScheduler struct {
	nextID  uint64
	timers  map[uint64]func()
	pending []pendingTimer
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{timers: make(map[uint64]func())}
}

// AfterFunc implements gesture.Scheduler. The tick is only started once
// the host drains the scheduler into commands.
func (s *teaScheduler) AfterFunc(d time.Duration, f func()) gesture.Timer {
	s.nextID++
	id := s.nextID
	s.timers[id] = f
	s.pending = append(s.pending, pendingTimer{id: id, d: d})
	return &teaTimer{sched: s, id: id}
}

// drain turns timers scheduled since the last call into tick commands.
func (s *teaScheduler) drain() []tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(s.pending))
	for _, p := range s.pending {
		if _, live := s.timers[p.id]; !live {
			continue
		}
		id := p.id
		cmds = append(cmds, tea.Tick(p.d, func(time.Time) tea.Msg {
			return timerFiredMsg{id: id}
		}))
	}
	s.pending = s.pending[:0]
	return cmds
}

// fire runs the callback for id unless it was stopped.
func (s *teaScheduler) fire(id uint64) bool {
	f, ok := s.timers[id]
	if !ok {
		return false
	}
	delete(s.timers, id)
	f()
	return true
}

// Len is the number of timers that have neither fired nor been stopped
func (s *teaScheduler) Len() int {
	return len(s.timers)
}
