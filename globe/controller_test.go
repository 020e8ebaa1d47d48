package globe

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/fleetview/cargo"
	"github.com/lixenwraith/fleetview/geo"
)

func newController(t *testing.T) (*Controller, loopFixture) {
	t.Helper()
	f := newFixture(t, DefaultOptions())
	return NewController(f.loop), f
}

func TestDragRotatesBySensitivity(t *testing.T) {
	c, f := newController(t)

	c.PointerDown(geo.Point{X: 100, Y: 100})
	c.PointerMove(geo.Point{X: 150, Y: 100})
	assert.InDelta(t, 25, f.loop.View().Rotation.Yaw, 1e-9)
	assert.Zero(t, f.loop.View().Rotation.Pitch)

	// Dragging down tilts the globe the other way
	c.PointerMove(geo.Point{X: 150, Y: 120})
	assert.InDelta(t, 25, f.loop.View().Rotation.Yaw, 1e-9)
	assert.InDelta(t, -10, f.loop.View().Rotation.Pitch, 1e-9)

	assert.Equal(t, 2, f.metrics.backgrounds, "each move redraws synchronously")
	assert.Equal(t, 1, f.metrics.gestures["drag"])
}

func TestDragSuspendsAutoRotation(t *testing.T) {
	c, f := newController(t)
	f.loop.Start()
	f.pump(0)
	require.True(t, f.loop.Running())

	c.PointerDown(geo.Point{X: 10, Y: 10})
	assert.False(t, f.loop.Running(), "pending frame cancelled on press")
	assert.False(t, f.loop.View().AutoRotate)
	assert.Equal(t, GestureDrag, c.Session().Kind)

	// No frames run while the pointer is held
	frames := f.metrics.frames
	f.pump(5 * time.Second)
	assert.Equal(t, frames, f.metrics.frames)
	assert.Zero(t, f.loop.View().Rotation.Yaw)

	c.PointerUp(geo.Point{X: 10, Y: 10})
	assert.True(t, f.loop.View().AutoRotate)
	assert.True(t, f.loop.Running())
	assert.Equal(t, GestureNone, c.Session().Kind)

	// The first frame after release does not jump by the time spent dragging
	f.pump(time.Second)
	assert.Zero(t, f.loop.View().Rotation.Yaw)
	f.pump(time.Second)
	assert.InDelta(t, 3, f.loop.View().Rotation.Yaw, 1e-9)
}

func TestPointerDownIgnoredMidGesture(t *testing.T) {
	c, f := newController(t)
	c.TouchStart([]geo.Point{{X: 0, Y: 0}, {X: 100, Y: 0}})
	c.PointerDown(geo.Point{X: 5, Y: 5})

	assert.Equal(t, GesturePinch, c.Session().Kind)
	assert.Equal(t, 1, f.metrics.gestures["pinch"])
	assert.Zero(t, f.metrics.gestures["drag"])
}

func TestPointerMoveWithoutDragDoesNotRotate(t *testing.T) {
	c, f := newController(t)
	c.PointerMove(geo.Point{X: 10, Y: 10})
	c.PointerMove(geo.Point{X: 90, Y: 40})
	assert.Equal(t, geo.Rotation{}, f.loop.View().Rotation)

	c.PointerUp(geo.Point{})
	assert.False(t, f.loop.Running(), "release without press is a no-op")
}

func TestPointerLeaveEndsDrag(t *testing.T) {
	c, f := newController(t)
	c.PointerDown(geo.Point{X: 10, Y: 10})
	c.PointerLeave()

	assert.Equal(t, GestureNone, c.Session().Kind)
	assert.True(t, f.loop.View().AutoRotate)
	assert.True(t, f.loop.Running())
}

func TestWheelZoom(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float64
		want   float64
	}{
		{"Scroll down shrinks", []float64{100}, 210},
		{"Scroll up grows", []float64{-100}, 230},
		{"Clamped at max", []float64{-10000}, 400},
		{"Clamped at min", []float64{10000}, 150},
		{"Zero delta ignored", []float64{0}, 220},
		{"Accumulates", []float64{100, 100, -50}, 205},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, f := newController(t)
			for _, d := range tt.deltas {
				c.Wheel(d)
			}
			assert.InDelta(t, tt.want, f.loop.View().Scale, 1e-9)
			assert.True(t, f.loop.View().AutoRotate, "wheel does not start a gesture")
		})
	}
}

func TestWheelDuringDragRedraws(t *testing.T) {
	c, f := newController(t)
	c.PointerDown(geo.Point{})
	backgrounds := f.metrics.backgrounds

	c.Wheel(100)
	assert.Equal(t, backgrounds+1, f.metrics.backgrounds)
	assert.Equal(t, GestureDrag, c.Session().Kind)
}

func TestPinchZoom(t *testing.T) {
	c, f := newController(t)
	c.TouchStart([]geo.Point{{X: 0, Y: 0}, {X: 100, Y: 0}})
	require.Equal(t, GesturePinch, c.Session().Kind)
	assert.False(t, f.loop.View().AutoRotate)

	c.TouchMove([]geo.Point{{X: 0, Y: 0}, {X: 140, Y: 0}})
	assert.InDelta(t, 240, f.loop.View().Scale, 1e-9)

	c.TouchMove([]geo.Point{{X: 0, Y: 0}, {X: 120, Y: 0}})
	assert.InDelta(t, 230, f.loop.View().Scale, 1e-9)

	c.TouchEnd()
	assert.Equal(t, GestureNone, c.Session().Kind)
	assert.True(t, f.loop.View().AutoRotate)
	assert.True(t, f.loop.Running())
}

func TestSingleTouchDrags(t *testing.T) {
	c, f := newController(t)
	c.TouchStart([]geo.Point{{X: 50, Y: 50}})
	require.Equal(t, GestureDrag, c.Session().Kind)

	c.TouchMove([]geo.Point{{X: 30, Y: 50}})
	assert.InDelta(t, -10, f.loop.View().Rotation.Yaw, 1e-9)

	// A stray two-contact move during a drag changes nothing
	c.TouchMove([]geo.Point{{X: 0, Y: 0}, {X: 300, Y: 0}})
	assert.InDelta(t, 220, f.loop.View().Scale, 1e-9)
}

func TestScaleStaysInBoundsUnderRandomInput(t *testing.T) {
	c, f := newController(t)
	rng := rand.New(rand.NewSource(42))
	bounds := f.loop.Bounds()

	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			c.Wheel(rng.Float64()*2000 - 1000)
		case 1:
			c.TouchStart([]geo.Point{{X: 0, Y: 0}, {X: rng.Float64() * 500, Y: 0}})
		case 2:
			c.TouchMove([]geo.Point{{X: 0, Y: 0}, {X: rng.Float64() * 2000, Y: rng.Float64() * 2000}})
		case 3:
			c.TouchEnd()
		}
		s := f.loop.View().Scale
		require.True(t, bounds.Contains(s), "scale %v escaped bounds at step %d", s, i)
	}
}

// hoverEntity sits the given number of dots right of the screen center at radius 220
func hoverEntity(id string, dots float64) cargo.Shipment {
	lon := math.Asin(dots/220) * 180 / math.Pi
	return cargo.Shipment{ID: id, Position: geo.LonLat{Lon: lon}, Size: 4}
}

func TestHoverFollowsPointer(t *testing.T) {
	c, f := newController(t)
	f.loop.SetEntities([]cargo.Shipment{hoverEntity("CARGO-1000", 3)})

	c.PointerMove(geo.Point{X: 400, Y: 300})
	hit, ok := c.Hover()
	require.True(t, ok)
	assert.Equal(t, "CARGO-1000", hit.ID)

	c.PointerMove(geo.Point{X: 600, Y: 300})
	_, ok = c.Hover()
	assert.False(t, ok)

	c.PointerMove(geo.Point{X: 401, Y: 301})
	_, ok = c.Hover()
	require.True(t, ok)

	c.PointerLeave()
	_, ok = c.Hover()
	assert.False(t, ok)
}

func TestHoverClearedByGesture(t *testing.T) {
	c, f := newController(t)
	f.loop.SetEntities([]cargo.Shipment{hoverEntity("a", 0)})

	c.PointerMove(geo.Point{X: 400, Y: 300})
	_, ok := c.Hover()
	require.True(t, ok)

	c.PointerDown(geo.Point{X: 400, Y: 300})
	_, ok = c.Hover()
	assert.False(t, ok)

	// Moves while dragging rotate instead of hovering
	c.PointerMove(geo.Point{X: 400, Y: 300})
	_, ok = c.Hover()
	assert.False(t, ok)
}

func TestRefreshHover(t *testing.T) {
	c, f := newController(t)
	e := hoverEntity("a", 0)
	f.loop.SetEntities([]cargo.Shipment{e})
	c.PointerMove(geo.Point{X: 400, Y: 300})

	e.Status = cargo.StatusDelayed
	f.loop.SetEntities([]cargo.Shipment{e})
	c.RefreshHover()
	hit, ok := c.Hover()
	require.True(t, ok)
	assert.Equal(t, cargo.StatusDelayed, hit.Status)

	f.loop.SetEntities(nil)
	c.RefreshHover()
	_, ok = c.Hover()
	assert.False(t, ok)
}

func TestGestureKindString(t *testing.T) {
	assert.Equal(t, "none", GestureNone.String())
	assert.Equal(t, "drag", GestureDrag.String())
	assert.Equal(t, "pinch", GesturePinch.String())
}
