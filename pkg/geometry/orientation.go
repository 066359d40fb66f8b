// Package geometry converts sticky fractions into frame offsets for one
// sheet direction. Everything here is pure; no state is kept between calls.
package geometry

import (
	"math"

	"github.com/Dicklesworthstone/swipe_sheet/pkg/model"
)

// Orientation is the geometry of a sheet with a fixed direction and
// sticky points. Factors are fractions of the axis length; an offset is
// factor * axis length.
type Orientation struct {
	direction model.Direction
	points    model.StickyPoints
}

// New creates an orientation. The direction is normalized and the points
// are used as given (clamp them with model.NewStickyPoints first).
func New(direction model.Direction, points model.StickyPoints) Orientation {
	return Orientation{
		direction: direction.Normalize(),
		points:    points,
	}
}

// Direction returns the normalized direction
func (o Orientation) Direction() model.Direction {
	return o.direction
}

// Points returns the sticky points
func (o Orientation) Points() model.StickyPoints {
	return o.points
}

// Vertical reports whether offsets apply to the y axis
func (o Orientation) Vertical() bool {
	return o.direction.IsVertical()
}

// DirectionMultiplier is +1 when the sheet rests on the far side of the
// parent (bottom or right) and -1 when it rests on the near side (top or
// left). It flips offsets so that a larger sticky value always means a
// more revealed sheet.
func (o Orientation) DirectionMultiplier() float64 {
	switch o.direction {
	case model.TopToBottom, model.LeftToRight:
		return -1
	default:
		return 1
	}
}

// ForwardSign is the sign of a translation that reveals more of the sheet:
// negative for upward/leftward reveals, positive otherwise.
func (o Orientation) ForwardSign() float64 {
	return -o.DirectionMultiplier()
}

// EntrancePosition is the off-screen factor the sheet enters from and
// leaves to.
func (o Orientation) EntrancePosition() float64 {
	return o.DirectionMultiplier()
}

// EntranceFactors returns the entrance position split into x and y factors.
func (o Orientation) EntranceFactors() (x, y float64) {
	return o.AxisFactors(o.EntrancePosition())
}

// AxisFactors places factor on the active axis and zero on the other.
func (o Orientation) AxisFactors(factor float64) (x, y float64) {
	if o.Vertical() {
		return 0, factor
	}
	return factor, 0
}

// CenterFor converts a sticky fraction into a signed offset factor.
func (o Orientation) CenterFor(fraction float64) float64 {
	return o.DirectionMultiplier() * (1 - fraction)
}

// StickyFactorForIndex maps a step index to its resting offset factor.
// The index saturates into the valid range.
func (o Orientation) StickyFactorForIndex(i int) float64 {
	return o.CenterFor(o.points.At(i))
}

// HighestFactor is the factor of the last sticky point
func (o Orientation) HighestFactor() float64 {
	return o.StickyFactorForIndex(o.points.Count() - 1)
}

// LowestFactor is the factor of the first sticky point
func (o Orientation) LowestFactor() float64 {
	return o.StickyFactorForIndex(0)
}

// StickyOffsets returns the absolute pixel position of every sticky point
// for the given axis size, in index order.
func (o Orientation) StickyOffsets(axisSize float64) []float64 {
	out := make([]float64, o.points.Count())
	for i := range out {
		out[i] = math.Abs(axisSize * o.StickyFactorForIndex(i))
	}
	return out
}

// ClampToBounds keeps a proposed offset between the offsets of the first and
// last sticky points. Anything at or inside the last point's magnitude
// returns that bound; anything at or beyond the first point's magnitude
// returns the other one. In between, next is returned unchanged.
func (o Orientation) ClampToBounds(next, axisSize float64) float64 {
	max := o.HighestFactor() * axisSize
	min := o.LowestFactor() * axisSize

	absNext := math.Abs(next)
	if absNext <= math.Abs(max) {
		return max
	}
	if absNext >= math.Abs(min) {
		return min
	}
	return next
}

// snapEpsilon absorbs float error when a release lands exactly on a
// sticky offset.
const snapEpsilon = 1e-9

// SnapIndex picks the resting index for a released absolute offset.
// Offsets are scanned in index order: the first run of offsets at or beyond
// next is the candidate set, and the scan stops at the first offset below
// next after that run has started. Within the run the smallest offset wins,
// the first index on ties. ok is false when no offset qualifies.
func SnapIndex(offsets []float64, next float64) (index int, ok bool) {
	best := -1
	for i, stick := range offsets {
		if stick+snapEpsilon < next {
			if best >= 0 {
				break
			}
			continue
		}
		if best < 0 || stick < offsets[best]-snapEpsilon {
			best = i
		}
	}
	return best, best >= 0
}
