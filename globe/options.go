package globe

import (
	"errors"
	"math"
)

// ErrInvalidBounds is returned for scale bounds that cannot hold a radius
var ErrInvalidBounds = errors.New("invalid scale bounds")

// Options tunes the projection and gesture response
type Options struct {
	MinScale float64
	MaxScale float64
	// Scale is the initial radius in dots, 0 fits the globe to the viewport
	Scale float64

	AutoRotateSpeed  float64 // degrees of yaw per second
	DragSensitivity  float64 // degrees per dot of drag
	PinchSensitivity float64 // radius change per dot of pinch spread
	WheelSensitivity float64 // radius change per wheel delta unit

	HitSlack float64 // added to the marker radius for hover
	HitCap   float64 // absolute hover distance limit
}

// DefaultOptions returns the stock globe tuning
func DefaultOptions() Options {
	return Options{
		MinScale:         150,
		MaxScale:         400,
		Scale:            220,
		AutoRotateSpeed:  3,
		DragSensitivity:  0.5,
		PinchSensitivity: 0.5,
		WheelSensitivity: 0.1,
		HitSlack:         2,
		HitCap:           10,
	}
}

// Validate checks the scale bounds
func (o Options) Validate() error {
	if !(o.MinScale > 0) || math.IsInf(o.MaxScale, 0) || o.MaxScale < o.MinScale {
		return ErrInvalidBounds
	}
	return nil
}

// Bounds returns the scale limits
func (o Options) Bounds() Bounds {
	return Bounds{MinScale: o.MinScale, MaxScale: o.MaxScale}
}

// Bounds limits the projection radius
type Bounds struct {
	MinScale float64
	MaxScale float64
}

// Clamp limits s to the bounds, NaN maps to the minimum
func (b Bounds) Clamp(s float64) float64 {
	if math.IsNaN(s) || s < b.MinScale {
		return b.MinScale
	}
	if s > b.MaxScale {
		return b.MaxScale
	}
	return s
}

// Contains reports whether s lies within the bounds
func (b Bounds) Contains(s float64) bool {
	return s >= b.MinScale && s <= b.MaxScale
}
