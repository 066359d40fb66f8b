package model

// DefaultMinPoint is the smallest fraction a sticky point may hold. A sheet
// resting at 0 would be fully off-screen and impossible to grab.
const DefaultMinPoint = 0.05

// DefaultStickyPoints is used when a sheet is built without any.
var DefaultStickyPoints = []float64{0.0, 1.0}

// StickyPoints is the ordered list of resting fractions of a sheet.
// Index 0 and the last index are treated as the extremes whatever the
// values are; sorting is the caller's business.
type StickyPoints []float64

// NewStickyPoints copies values, clamping each into [minPoint, 1].
// An empty input yields DefaultStickyPoints, clamped the same way.
func NewStickyPoints(values []float64, minPoint float64) StickyPoints {
	if len(values) == 0 {
		values = DefaultStickyPoints
	}
	out := make(StickyPoints, len(values))
	for i, v := range values {
		out[i] = ClampPoint(v, minPoint)
	}
	return out
}

// ClampPoint clamps a single sticky value into [minPoint, 1]
func ClampPoint(v, minPoint float64) float64 {
	if v > 1 {
		return 1
	}
	if v < minPoint {
		return minPoint
	}
	return v
}

// Count returns the number of resting positions
func (p StickyPoints) Count() int {
	return len(p)
}

// At returns the value at index i with i saturated into range
func (p StickyPoints) At(i int) float64 {
	if len(p) == 0 {
		return 0
	}
	if i < 0 {
		i = 0
	}
	if i > len(p)-1 {
		i = len(p) - 1
	}
	return p[i]
}

// ClampStep saturates a step index into [0, count-1]. Values at or above the
// last index become the last index; values at or below zero become zero.
func ClampStep(step, count int) int {
	if step >= count-1 {
		if count <= 0 {
			return 0
		}
		return count - 1
	}
	if step <= 0 {
		return 0
	}
	return step
}
