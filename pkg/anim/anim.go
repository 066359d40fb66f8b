// Package anim provides animation runners for a sheet frame.
package anim

import (
	"time"

	"github.com/Dicklesworthstone/swipe_sheet/pkg/model"
)

// FrameSurface is anything with a frame that can be tweened
type FrameSurface interface {
	Frame() model.Rect
	SetFrame(model.Rect)
}

// Immediate applies every transition at once. It is the default for
// headless use and tests.
type Immediate struct{}

// Animate runs mutate then done
func (Immediate) Animate(_ time.Duration, mutate func(), done func()) {
	mutate()
	if done != nil {
		done()
	}
}

// Easing maps linear progress in [0,1] to eased progress
type Easing func(t float64) float64

// Linear is the identity easing
func Linear(t float64) float64 {
	return t
}

// EaseOutCubic decelerates towards the end
func EaseOutCubic(t float64) float64 {
	p := 1 - t
	return 1 - p*p*p
}

// EaseInOutQuad accelerates then decelerates
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - (-2*t+2)*(-2*t+2)/2
}

// Lerp interpolates every field of two rects
func Lerp(from, to model.Rect, p float64) model.Rect {
	return model.Rect{
		X:      from.X + (to.X-from.X)*p,
		Y:      from.Y + (to.Y-from.Y)*p,
		Width:  from.Width + (to.Width-from.Width)*p,
		Height: from.Height + (to.Height-from.Height)*p,
	}
}
