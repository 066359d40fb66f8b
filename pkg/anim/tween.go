package anim

import (
	"time"

	"github.com/Dicklesworthstone/swipe_sheet/pkg/model"
)

// Tween interpolates a surface's frame over time. It does not own a clock:
// the host calls Step on every frame tick, which keeps all frame writes on
// the host's UI goroutine.
type Tween struct {
	surface FrameSurface
	easing  Easing
	now     func() time.Time
	active  *transition
}

type transition struct {
	from     model.Rect
	to       model.Rect
	start    time.Time
	duration time.Duration
	done     func()
}

// TweenOption configures a Tween
type TweenOption func(*Tween)

// WithEasing sets the easing curve (default EaseOutCubic)
func WithEasing(e Easing) TweenOption {
	return func(t *Tween) {
		t.easing = e
	}
}

// WithClock overrides time.Now, mainly for tests
func WithClock(now func() time.Time) TweenOption {
	return func(t *Tween) {
		t.now = now
	}
}

// NewTween creates a tween bound to surface
func NewTween(surface FrameSurface, opts ...TweenOption) *Tween {
	t := &Tween{
		surface: surface,
		easing:  EaseOutCubic,
		now:     time.Now,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Animate records the frame before and after mutate and plays the change
// back over d. A transition already running is interrupted where it stands
// and its done callback fires.
func (t *Tween) Animate(d time.Duration, mutate func(), done func()) {
	t.interrupt()

	from := t.surface.Frame()
	mutate()
	to := t.surface.Frame()

	if d <= 0 || from == to {
		if done != nil {
			done()
		}
		return
	}

	t.surface.SetFrame(from)
	t.active = &transition{
		from:     from,
		to:       to,
		start:    t.now(),
		duration: d,
		done:     done,
	}
}

// Active reports whether a transition is running
func (t *Tween) Active() bool {
	return t.active != nil
}

// Target returns the frame the running transition ends at
func (t *Tween) Target() (model.Rect, bool) {
	if t.active == nil {
		return model.Rect{}, false
	}
	return t.active.to, true
}

// Step advances the running transition to now. It returns true while the
// transition is still running.
func (t *Tween) Step(now time.Time) bool {
	tr := t.active
	if tr == nil {
		return false
	}

	elapsed := now.Sub(tr.start)
	if elapsed >= tr.duration {
		t.Finish()
		return false
	}

	p := float64(elapsed) / float64(tr.duration)
	if p < 0 {
		p = 0
	}
	t.surface.SetFrame(Lerp(tr.from, tr.to, t.easing(p)))
	return true
}

// Finish jumps to the end of the running transition and fires done.
func (t *Tween) Finish() {
	tr := t.active
	if tr == nil {
		return
	}
	t.active = nil
	t.surface.SetFrame(tr.to)
	if tr.done != nil {
		tr.done()
	}
}

// Stop leaves the frame where it is and fires done.
func (t *Tween) Stop() {
	t.interrupt()
}

func (t *Tween) interrupt() {
	tr := t.active
	if tr == nil {
		return
	}
	t.active = nil
	if tr.done != nil {
		tr.done()
	}
}
