package globe

import (
	"time"

	"github.com/lixenwraith/fleetview/cargo"
	"github.com/lixenwraith/fleetview/geo"
)

// Viewport is the drawing surface size in dots
type Viewport struct {
	Width, Height int
}

// Empty reports a zero-area viewport
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Center returns the middle of the viewport
func (v Viewport) Center() geo.Point {
	return geo.Point{X: float64(v.Width) / 2, Y: float64(v.Height) / 2}
}

// ViewState is the animation state owned by the Loop
type ViewState struct {
	Rotation   geo.Rotation
	Scale      float64
	AutoRotate bool
	Viewport   Viewport
}

// Projector builds the projection for this view
func (v ViewState) Projector() geo.Projector {
	return geo.NewProjector(v.Rotation, v.Scale, v.Viewport.Center())
}

// FrameContext is the immutable input of a single frame
type FrameContext struct {
	Rotation geo.Rotation
	Scale    float64
	Viewport Viewport
	Entities []cargo.Shipment
	Now      time.Time
	Delta    time.Duration
}

// Projector builds the projection for this frame
func (fc FrameContext) Projector() geo.Projector {
	return geo.NewProjector(fc.Rotation, fc.Scale, fc.Viewport.Center())
}

// backgroundKey identifies the inputs of the cached vector canvas
type backgroundKey struct {
	rotation geo.Rotation
	scale    float64
	viewport Viewport
}
