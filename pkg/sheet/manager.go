package sheet

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/swipe_sheet/pkg/geometry"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/gesture"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/model"
)

const (
	// DefaultEntranceDuration is the length of the slide-in on attach
	DefaultEntranceDuration = 500 * time.Millisecond
	// DefaultTransitionDuration is the length of step changes and dismissal
	DefaultTransitionDuration = 300 * time.Millisecond
)

// Surface is the frame a Manager reads and writes. Frame coordinates are
// relative to the parent's origin.
type Surface interface {
	Frame() model.Rect
	SetFrame(model.Rect)
	// Bounds returns the parent's rect; ok is false while detached.
	Bounds() (parent model.Rect, ok bool)
}

// Animator transitions the surface over time. mutate applies the final
// state; done, when non-nil, runs once the transition settles.
type Animator interface {
	Animate(d time.Duration, mutate func(), done func())
}

// Manager owns the step, the frozen flag and the last applied frame of a
// sheet, and turns gesture intents into frame changes.
type Manager struct {
	surface  Surface
	animator Animator
	geo      geometry.Orientation
	gestures *gesture.Interpreter
	log      *zap.Logger

	step            int
	frozen          bool
	forceBackToZero bool
	tapEnabled      bool

	// layoutFromStep is cleared by any user-driven change so that a layout
	// pass restores lastFrame instead of snapping back to the step.
	layoutFromStep bool
	lastFrame      model.Rect
	hasLastFrame   bool

	entrance   time.Duration
	transition time.Duration
}

// ManagerOptions configures a Manager
type ManagerOptions struct {
	InitialStep        int
	ForceBackToZero    bool
	EntranceDuration   time.Duration
	TransitionDuration time.Duration
	Gesture            gesture.Options
	Logger             *zap.Logger
}

// NewManager builds a manager for surface and wires a gesture interpreter
// that reports back to it.
func NewManager(surface Surface, geo geometry.Orientation, animator Animator, opts ManagerOptions) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.EntranceDuration <= 0 {
		opts.EntranceDuration = DefaultEntranceDuration
	}
	if opts.TransitionDuration <= 0 {
		opts.TransitionDuration = DefaultTransitionDuration
	}
	if opts.Gesture.Logger == nil {
		opts.Gesture.Logger = opts.Logger
	}

	m := &Manager{
		surface:         surface,
		animator:        animator,
		geo:             geo,
		log:             opts.Logger.Named("sheet"),
		forceBackToZero: opts.ForceBackToZero,
		layoutFromStep:  true,
		entrance:        opts.EntranceDuration,
		transition:      opts.TransitionDuration,
	}
	m.step = model.ClampStep(opts.InitialStep, geo.Points().Count())
	m.gestures = gesture.NewInterpreter(m, geo.Direction(), opts.Gesture)
	m.updateTapAffordance()
	return m
}

// Gestures returns the interpreter fed by the host's pointer events
func (m *Manager) Gestures() *gesture.Interpreter {
	return m.gestures
}

// Orientation returns the geometry in use
func (m *Manager) Orientation() geometry.Orientation {
	return m.geo
}

// Step returns the current step index
func (m *Manager) Step() int {
	return m.step
}

// SetStep stores value clamped into [0, count-1] and returns what was
// stored. It does not touch the frame; the next layout pass or transition
// picks the new step up.
func (m *Manager) SetStep(value int) int {
	m.step = model.ClampStep(value, m.geo.Points().Count())
	return m.step
}

// Frozen reports whether user input is suppressed
func (m *Manager) Frozen() bool {
	return m.frozen
}

// SetFrozen suppresses or restores taps, drags and flicks. The step is left
// alone.
func (m *Manager) SetFrozen(frozen bool) {
	m.frozen = frozen
	m.gestures.SetFrozen(frozen)
	m.log.Debug("frozen changed", zap.Bool("frozen", frozen))
}

// ForceBackToZero reports whether DecrementStep jumps straight to step 0
func (m *Manager) ForceBackToZero() bool {
	return m.forceBackToZero
}

// SetForceBackToZero switches the decrement policy
func (m *Manager) SetForceBackToZero(v bool) {
	m.forceBackToZero = v
}

// LayoutFromStep reports whether the next layout pass recomputes the frame
// from the step rather than restoring the last frame.
func (m *Manager) LayoutFromStep() bool {
	return m.layoutFromStep
}

// SetLayoutFromStep sets the layout flag explicitly.
func (m *Manager) SetLayoutFromStep(v bool) {
	m.layoutFromStep = v
}

// HasTapAffordance is true only at step 0, where a tap advances the sheet.
func (m *Manager) HasTapAffordance() bool {
	return m.tapEnabled
}

// Tap advances one step when the tap affordance is present.
func (m *Manager) Tap() {
	if m.frozen || !m.tapEnabled {
		return
	}
	m.log.Debug("tap")
	m.layoutFromStep = false
	m.IncrementStep()
}

// Refresh places the frame at the current step's resting position.
func (m *Manager) Refresh() {
	x, y := m.geo.AxisFactors(m.geo.StickyFactorForIndex(m.step))
	m.setPosition(x, y)
}

// DoEntranceAnimation moves the frame off-screen and slides it to the
// current step.
func (m *Manager) DoEntranceAnimation() {
	x, y := m.geo.EntranceFactors()
	m.setPosition(x, y)
	m.animator.Animate(m.entrance, m.Refresh, nil)
}

// IncrementStep advances one step, saturating at the last one, and
// animates to it. The transition runs even when the step did not change.
func (m *Manager) IncrementStep() {
	m.layoutFromStep = false
	m.SetStep(m.step + 1)
	m.log.Debug("increment step", zap.Int("step", m.step))
	m.updateView()
	m.updateTapAffordance()
}

// DecrementStep goes back one step, or straight to step 0 when
// ForceBackToZero is set, and animates to it.
func (m *Manager) DecrementStep() {
	m.layoutFromStep = false
	if m.forceBackToZero {
		m.SetStep(0)
	} else {
		m.SetStep(m.step - 1)
	}
	m.log.Debug("decrement step", zap.Int("step", m.step))
	m.updateView()
	m.updateTapAffordance()
}

// ScrollBy moves the frame delta cells along the sheet's axis without
// animation, kept between the first and last sticky offsets.
func (m *Manager) ScrollBy(delta float64) {
	if _, ok := m.surface.Bounds(); !ok {
		return
	}
	m.layoutFromStep = false
	m.moveAxis(delta)
}

// ReleaseScroll applies the final delta of a drag and commits the step the
// frame was released at. The frame is already where the pointer left it,
// so nothing is animated.
func (m *Manager) ReleaseScroll(delta float64) {
	if _, ok := m.surface.Bounds(); !ok {
		return
	}
	m.layoutFromStep = false
	next := m.moveAxis(delta)
	m.snapStep(next)
	m.log.Debug("release", zap.Float64("position", next), zap.Int("step", m.step))
	m.updateTapAffordance()
}

// AnimateTo animates to an arbitrary reveal factor in [-1, 1] and updates
// the step to match. Factors outside that range are ignored.
func (m *Manager) AnimateTo(factor float64) {
	if factor < -1 || factor > 1 || math.IsNaN(factor) {
		return
	}
	parent, ok := m.surface.Bounds()
	if !ok {
		return
	}
	m.layoutFromStep = false

	center := m.geo.CenterFor(factor)
	x, y := m.geo.AxisFactors(center)
	m.animator.Animate(m.transition, func() {
		m.setPosition(x, y)
	}, nil)

	m.snapStep(center * axisLength(parent, m.geo.Vertical()))
	m.updateTapAffordance()
}

// DoOutAnimation slides the frame to the entrance position and calls done
// once the transition settles.
func (m *Manager) DoOutAnimation(done func()) {
	m.layoutFromStep = false
	x, y := m.geo.EntranceFactors()
	m.animator.Animate(m.transition, func() {
		m.setPosition(x, y)
	}, done)
}

// DidLayoutSubviews reapplies the frame after the host re-ran layout.
func (m *Manager) DidLayoutSubviews() {
	if !m.layoutFromStep {
		if m.hasLastFrame {
			m.surface.SetFrame(m.lastFrame)
		}
		return
	}
	m.Refresh()
}

// SetOrientation swaps the geometry, e.g. after new sticky points were set.
// The step is re-clamped against the new point count.
func (m *Manager) SetOrientation(geo geometry.Orientation) {
	m.geo = geo
	m.SetStep(m.step)
	m.updateTapAffordance()
}

// Close stops any pending gesture timers
func (m *Manager) Close() {
	m.gestures.Close()
}

func (m *Manager) updateView() {
	m.animator.Animate(m.transition, m.Refresh, nil)
}

func (m *Manager) updateTapAffordance() {
	m.tapEnabled = m.step == 0
}

// snapStep commits the step for a released offset, clamped to the sticky
// bounds first. Nothing changes when no offset qualifies.
func (m *Manager) snapStep(value float64) {
	size := axisLength(m.surface.Frame(), m.geo.Vertical())
	next := math.Abs(m.geo.ClampToBounds(value, size))

	if i, ok := geometry.SnapIndex(m.geo.StickyOffsets(size), next); ok {
		m.SetStep(i)
	}
}

// moveAxis shifts the frame along the axis, clamped to the sticky bounds,
// and returns the new axis offset.
func (m *Manager) moveAxis(delta float64) float64 {
	f := m.surface.Frame()
	vertical := m.geo.Vertical()

	var next float64
	if vertical {
		next = m.geo.ClampToBounds(f.Y+delta, f.Height)
		f.Y = next
	} else {
		next = m.geo.ClampToBounds(f.X+delta, f.Width)
		f.X = next
	}
	m.surface.SetFrame(f)
	m.lastFrame = f
	m.hasLastFrame = true
	return next
}

func (m *Manager) setPosition(xFactor, yFactor float64) {
	parent, ok := m.surface.Bounds()
	if !ok {
		return
	}
	f := m.surface.Frame().WithOrigin(parent.Width*xFactor, parent.Height*yFactor)
	m.surface.SetFrame(f)
	m.lastFrame = f
	m.hasLastFrame = true
}

func axisLength(r model.Rect, vertical bool) float64 {
	if vertical {
		return r.Height
	}
	return r.Width
}
