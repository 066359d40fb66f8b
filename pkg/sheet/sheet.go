// Package sheet implements a sticky sheet: a panel that is dragged or
// flicked along one axis and rests at one of a few sticky points.
//
// A Sheet is the shell the host talks to. It owns the frame and a Manager,
// which owns the step state and the gesture interpreter. The host forwards
// pointer events to Gestures(), calls Layout on every resize and renders
// Frame().
package sheet

import (
	"time"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/swipe_sheet/pkg/anim"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/geometry"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/gesture"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/model"
)

// Options configures a Sheet
type Options struct {
	StickyPoints []float64
	MinPoint     float64
	Direction    model.Direction
	InitialStep  int

	ForceBackToZero bool
	AnimateEntrance bool
	Frozen          bool

	SpeedThreshold     float64
	FlickDebounce      time.Duration
	EntranceDuration   time.Duration
	TransitionDuration time.Duration

	// Animator defaults to anim.Immediate. Scheduler defaults to a
	// gesture.ManualScheduler reachable through Sheet.Scheduler; the host
	// advances it from its event loop.
	Animator  Animator
	Scheduler gesture.Scheduler
	Logger    *zap.Logger
}

// DefaultOptions returns the options of a bottom sheet with three stops.
func DefaultOptions() Options {
	return Options{
		StickyPoints:       []float64{0.2, 0.5, 0.8},
		MinPoint:           model.DefaultMinPoint,
		Direction:          model.BottomToTop,
		ForceBackToZero:    true,
		AnimateEntrance:    true,
		SpeedThreshold:     gesture.DefaultSpeedThreshold,
		FlickDebounce:      gesture.DefaultFlickDebounce,
		EntranceDuration:   DefaultEntranceDuration,
		TransitionDuration: DefaultTransitionDuration,
	}
}

// Sheet is the draggable surface. It is not safe for concurrent use.
type Sheet struct {
	frame    model.Rect
	parent   model.Rect
	attached bool

	direction       model.Direction
	minPoint        float64
	points          model.StickyPoints
	animateEntrance bool

	manager *Manager
	log     *zap.Logger
}

// New builds a detached sheet. Call Attach to place it in a parent.
func New(opts Options) *Sheet {
	if opts.MinPoint <= 0 {
		opts.MinPoint = model.DefaultMinPoint
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Animator == nil {
		opts.Animator = anim.Immediate{}
	}
	if opts.Scheduler == nil {
		opts.Scheduler = gesture.NewManualScheduler()
	}

	s := &Sheet{
		direction:       opts.Direction.Normalize(),
		minPoint:        opts.MinPoint,
		points:          model.NewStickyPoints(opts.StickyPoints, opts.MinPoint),
		animateEntrance: opts.AnimateEntrance,
		log:             opts.Logger,
	}
	s.manager = NewManager(s, geometry.New(s.direction, s.points), opts.Animator, ManagerOptions{
		InitialStep:        opts.InitialStep,
		ForceBackToZero:    opts.ForceBackToZero,
		EntranceDuration:   opts.EntranceDuration,
		TransitionDuration: opts.TransitionDuration,
		Gesture: gesture.Options{
			SpeedThreshold: opts.SpeedThreshold,
			FlickDebounce:  opts.FlickDebounce,
			Scheduler:      opts.Scheduler,
			Logger:         opts.Logger,
		},
		Logger: opts.Logger,
	})
	if opts.Frozen {
		s.manager.SetFrozen(true)
	}
	return s
}

// Frame implements Surface
func (s *Sheet) Frame() model.Rect {
	return s.frame
}

// SetFrame implements Surface
func (s *Sheet) SetFrame(r model.Rect) {
	s.frame = r
}

// Bounds implements Surface
func (s *Sheet) Bounds() (model.Rect, bool) {
	return s.parent, s.attached
}

// Attach places the sheet in a parent of the given size and either runs
// the entrance animation or snaps straight to the current step.
func (s *Sheet) Attach(parent model.Rect) {
	s.parent = parent
	s.attached = true
	s.frame = model.Rect{Width: parent.Width, Height: parent.Height}
	s.log.Debug("attached", zap.Stringer("parent", parent), zap.Stringer("direction", s.direction))

	if !s.animateEntrance {
		s.manager.Refresh()
		return
	}
	s.manager.DoEntranceAnimation()
}

// Detach removes the sheet from its parent. Pointer events are ignored
// until the next Attach.
func (s *Sheet) Detach() {
	s.attached = false
	s.manager.Gestures().Cancel()
}

// Attached reports whether the sheet has a parent
func (s *Sheet) Attached() bool {
	return s.attached
}

// Layout resizes the sheet to its parent and lets the manager reapply the
// frame. Hosts call it on every layout pass.
func (s *Sheet) Layout(parent model.Rect) {
	if !s.attached {
		return
	}
	if parent.Width != s.parent.Width || parent.Height != s.parent.Height {
		// A resize invalidates cached cell offsets.
		s.manager.SetLayoutFromStep(true)
	}
	s.parent = parent
	s.frame.Width = parent.Width
	s.frame.Height = parent.Height
	s.manager.DidLayoutSubviews()
}

// Manager returns the position manager
func (s *Sheet) Manager() *Manager {
	return s.manager
}

// Gestures returns the interpreter pointer events go to
func (s *Sheet) Gestures() *gesture.Interpreter {
	return s.manager.Gestures()
}

// Scheduler returns the scheduler timing the flick debounce. Unless one was
// injected it is a *gesture.ManualScheduler.
func (s *Sheet) Scheduler() gesture.Scheduler {
	return s.manager.Gestures().Scheduler()
}

// Direction returns the normalized direction
func (s *Sheet) Direction() model.Direction {
	return s.direction
}

// StickyPoints returns the clamped sticky points
func (s *Sheet) StickyPoints() model.StickyPoints {
	return s.points
}

// SetStickyPoints replaces the sticky points, clamping them the same way
// construction does.
func (s *Sheet) SetStickyPoints(values []float64) {
	s.points = model.NewStickyPoints(values, s.minPoint)
	s.manager.SetOrientation(geometry.New(s.direction, s.points))
}

// StickyCount returns the number of resting positions
func (s *Sheet) StickyCount() int {
	return s.points.Count()
}

// ShowsHandle reports whether a grab handle should be drawn
func (s *Sheet) ShowsHandle() bool {
	return s.points.Count() > 1
}

// Frozen reports whether input is suppressed
func (s *Sheet) Frozen() bool {
	return s.manager.Frozen()
}

// SetFrozen suppresses or restores input
func (s *Sheet) SetFrozen(frozen bool) {
	s.manager.SetFrozen(frozen)
}

// Step returns the current step
func (s *Sheet) Step() int {
	return s.manager.Step()
}

// Visible returns the part of the frame inside the parent, in parent
// coordinates. ok is false when nothing is on screen.
func (s *Sheet) Visible() (model.Rect, bool) {
	if !s.attached {
		return model.Rect{}, false
	}
	x0 := max(s.frame.X, 0)
	y0 := max(s.frame.Y, 0)
	x1 := min(s.frame.X+s.frame.Width, s.parent.Width)
	y1 := min(s.frame.Y+s.frame.Height, s.parent.Height)
	if x1 <= x0 || y1 <= y0 {
		return model.Rect{}, false
	}
	return model.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// Contains reports whether a parent-space point lies on the visible sheet
func (s *Sheet) Contains(p model.Point) bool {
	v, ok := s.Visible()
	if !ok {
		return false
	}
	return p.X >= v.X && p.X < v.X+v.Width && p.Y >= v.Y && p.Y < v.Y+v.Height
}

// Close releases timers held by the sheet
func (s *Sheet) Close() {
	s.manager.Close()
}
