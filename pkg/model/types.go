package model

import (
	"fmt"
	"strings"
)

// Direction is the axis and polarity a sheet is revealed along
type Direction int

const (
	BottomToTop Direction = iota
	TopToBottom
	LeftToRight
	RightToLeft
)

// String returns the config spelling of the direction
func (d Direction) String() string {
	switch d {
	case BottomToTop:
		return "bottom_to_top"
	case TopToBottom:
		return "top_to_bottom"
	case LeftToRight:
		return "left_to_right"
	case RightToLeft:
		return "right_to_left"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// IsValid checks if the direction is one of the four known values
func (d Direction) IsValid() bool {
	switch d {
	case BottomToTop, TopToBottom, LeftToRight, RightToLeft:
		return true
	}
	return false
}

// IsVertical reports whether the sheet moves along the y axis
func (d Direction) IsVertical() bool {
	return d == BottomToTop || d == TopToBottom
}

// Normalize maps unknown values onto BottomToTop.
func (d Direction) Normalize() Direction {
	if !d.IsValid() {
		return BottomToTop
	}
	return d
}

// ParseDirection accepts the config spelling as well as the camelCase and
// dashed forms ("bottomToTop", "bottom-to-top").
func ParseDirection(s string) (Direction, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "bottomtotop", "up":
		return BottomToTop, nil
	case "toptobottom", "down":
		return TopToBottom, nil
	case "lefttoright", "right":
		return LeftToRight, nil
	case "righttoleft", "left":
		return RightToLeft, nil
	}
	return BottomToTop, fmt.Errorf("unknown direction %q", s)
}

// SwipeDirection is the physical direction of a discrete flick
type SwipeDirection int

const (
	SwipeUp SwipeDirection = iota
	SwipeDown
	SwipeLeft
	SwipeRight
)

func (s SwipeDirection) String() string {
	switch s {
	case SwipeUp:
		return "up"
	case SwipeDown:
		return "down"
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	}
	return "unknown"
}

// IsVertical reports whether the flick runs along the y axis
func (s SwipeDirection) IsVertical() bool {
	return s == SwipeUp || s == SwipeDown
}

// Point is a position or translation in cells
type Point struct {
	X float64
	Y float64
}

// Rect is a frame in cells. Origin is the top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Origin returns the top-left corner
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// WithOrigin returns a copy moved to (x, y) keeping its size
func (r Rect) WithOrigin(x, y float64) Rect {
	r.X = x
	r.Y = y
	return r
}

// IsEmpty reports whether the rect has no area
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.1f,%.1f %.1fx%.1f)", r.X, r.Y, r.Width, r.Height)
}
