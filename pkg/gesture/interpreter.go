// Package gesture turns raw drag and flick events into step intents.
//
// One Interpreter serves all four sheet directions. The direction only
// decides which axis of a translation is read and which sign counts as
// "forward" (revealing more of the sheet).
package gesture

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/swipe_sheet/pkg/geometry"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/model"
)

const (
	// DefaultSpeedThreshold is the largest per-sample delta, in cells, that
	// still counts as a drag. Anything faster is a flick.
	DefaultSpeedThreshold = 20.0

	// DefaultFlickDebounce is how long input stays disabled after a flick.
	DefaultFlickDebounce = 500 * time.Millisecond
)

// Target receives the intents produced by an Interpreter.
type Target interface {
	IncrementStep()
	DecrementStep()
	ScrollBy(delta float64)
	ReleaseScroll(delta float64)
}

// State is the interpreter's position in the drag lifecycle
type State int

const (
	Idle State = iota
	Dragging
	FlickDebounce
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case FlickDebounce:
		return "flick_debounce"
	}
	return "unknown"
}

// Options tunes an Interpreter. Zero values select the defaults; a nil
// Scheduler selects a ManualScheduler the host advances itself.
type Options struct {
	SpeedThreshold float64
	FlickDebounce  time.Duration
	Scheduler      Scheduler
	Logger         *zap.Logger
}

// Interpreter tracks a single pointer's drag and emits intents to its
// Target. It is not safe for concurrent use; every method, and every
// callback fired by the Scheduler, must run on the same goroutine.
type Interpreter struct {
	target    Target
	vertical  bool
	forward   float64
	threshold float64
	debounce  time.Duration
	scheduler Scheduler
	log       *zap.Logger

	state   State
	enabled bool
	frozen  bool

	origin          model.Point
	lastTranslation float64
	hasLast         bool

	timer Timer
}

// NewInterpreter creates an interpreter for the given sheet direction.
func NewInterpreter(target Target, direction model.Direction, opts Options) *Interpreter {
	o := geometry.New(direction, nil)

	if opts.SpeedThreshold <= 0 {
		opts.SpeedThreshold = DefaultSpeedThreshold
	}
	if opts.FlickDebounce <= 0 {
		opts.FlickDebounce = DefaultFlickDebounce
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewManualScheduler()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Interpreter{
		target:    target,
		vertical:  o.Vertical(),
		forward:   o.ForwardSign(),
		threshold: opts.SpeedThreshold,
		debounce:  opts.FlickDebounce,
		scheduler: opts.Scheduler,
		log:       opts.Logger.Named("gesture"),
		enabled:   true,
	}
}

// State returns the current lifecycle state
func (g *Interpreter) State() State {
	return g.state
}

// Enabled is false while a flick debounce window is open
func (g *Interpreter) Enabled() bool {
	return g.enabled
}

// Frozen reports whether intents are suppressed
func (g *Interpreter) Frozen() bool {
	return g.frozen
}

// SetFrozen suppresses or restores all intents
func (g *Interpreter) SetFrozen(frozen bool) {
	g.frozen = frozen
}

// Scheduler returns the scheduler that times the flick debounce
func (g *Interpreter) Scheduler() Scheduler {
	return g.scheduler
}

// Origin returns where the current drag began
func (g *Interpreter) Origin() model.Point {
	return g.origin
}

// Begin starts tracking a drag at the given pointer position.
func (g *Interpreter) Begin(at model.Point) {
	if g.frozen || !g.enabled {
		return
	}
	g.origin = at
	g.hasLast = false
	g.state = Dragging
}

// Move reports the pointer's translation relative to where the drag began.
func (g *Interpreter) Move(translation model.Point) {
	if g.frozen || !g.enabled || g.state != Dragging {
		return
	}

	t := g.axis(translation)
	if !g.hasLast {
		g.lastTranslation = t
		g.hasLast = true
		g.target.ScrollBy(t)
		return
	}

	delta := t - g.lastTranslation
	if math.Abs(delta) > g.threshold {
		g.flick(delta)
		return
	}

	g.lastTranslation = t
	g.target.ScrollBy(delta)
}

// End finishes the drag. The remaining delta since the last sample is
// handed to ReleaseScroll when a sample was tracked.
func (g *Interpreter) End(translation model.Point) {
	if !g.enabled {
		return
	}
	if g.frozen {
		g.reset()
		return
	}
	if g.state == Dragging && g.hasLast {
		g.target.ReleaseScroll(g.axis(translation) - g.lastTranslation)
	}
	g.reset()
}

// Cancel drops the drag without releasing it.
func (g *Interpreter) Cancel() {
	if !g.enabled {
		return
	}
	g.reset()
}

// Flick handles a discrete swipe. Flicks across the sheet's axis are ignored.
func (g *Interpreter) Flick(dir model.SwipeDirection) {
	if g.frozen || !g.enabled {
		return
	}
	if dir.IsVertical() != g.vertical {
		return
	}

	sign := 1.0
	if dir == model.SwipeUp || dir == model.SwipeLeft {
		sign = -1
	}
	g.log.Debug("flick", zap.Stringer("swipe", dir))
	if sign == g.forward {
		g.target.IncrementStep()
		return
	}
	g.target.DecrementStep()
}

// Close stops a pending debounce timer. The interpreter stays usable but
// input remains disabled if a debounce window was open.
func (g *Interpreter) Close() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

func (g *Interpreter) flick(delta float64) {
	g.enabled = false
	g.state = FlickDebounce
	g.log.Debug("drag too fast, treating as flick", zap.Float64("delta", delta))

	if delta*g.forward > 0 {
		g.target.IncrementStep()
	} else {
		g.target.DecrementStep()
	}

	g.timer = g.scheduler.AfterFunc(g.debounce, func() {
		g.timer = nil
		g.enabled = true
		g.reset()
		g.log.Debug("flick debounce elapsed")
	})
}

func (g *Interpreter) reset() {
	g.hasLast = false
	g.lastTranslation = 0
	g.state = Idle
}

func (g *Interpreter) axis(p model.Point) float64 {
	if g.vertical {
		return p.Y
	}
	return p.X
}
