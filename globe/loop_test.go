package globe

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/fleetview/cargo"
	"github.com/lixenwraith/fleetview/engine"
	"github.com/lixenwraith/fleetview/geo"
	"github.com/lixenwraith/fleetview/render"
)

var loopEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type countingMetrics struct {
	frames      int
	backgrounds int
	visible     int
	gestures    map[string]int
}

func (m *countingMetrics) ObserveFrame(_ time.Duration, visible int) {
	m.frames++
	m.visible = visible
}
func (m *countingMetrics) BackgroundRedraw() { m.backgrounds++ }
func (m *countingMetrics) Gesture(kind string) {
	if m.gestures == nil {
		m.gestures = make(map[string]int)
	}
	m.gestures[kind]++
}

type loopFixture struct {
	loop    *Loop
	sched   *engine.Scheduler
	clock   *engine.MockTimeProvider
	metrics *countingMetrics
}

// newFixture builds a loop on an 800x600 dot surface with radius 220
func newFixture(t *testing.T, opts Options) loopFixture {
	t.Helper()
	sched := engine.NewScheduler()
	clock := engine.NewMockTimeProvider(loopEpoch)
	metrics := &countingMetrics{}
	loop, err := NewLoop(opts, sched, clock, metrics, zerolog.Nop())
	require.NoError(t, err)
	loop.Resize(400, 150)
	return loopFixture{loop: loop, sched: sched, clock: clock, metrics: metrics}
}

func (f loopFixture) pump(d time.Duration) {
	f.sched.Pump(f.clock.Advance(d))
}

func TestLoopScenarioProjection(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	view := f.loop.View()
	require.Equal(t, Viewport{Width: 800, Height: 600}, view.Viewport)
	require.Equal(t, 220.0, view.Scale)

	center := f.loop.Projector().Project(geo.LonLat{Lon: 0, Lat: 0})
	assert.True(t, center.Visible)
	assert.InDelta(t, 400, center.X, 1e-9)
	assert.InDelta(t, 300, center.Y, 1e-9)

	assert.False(t, f.loop.Projector().Project(geo.LonLat{Lon: 180, Lat: 0}).Visible)
}

func TestLoopAutoRotationUsesElapsedTime(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.loop.Start()
	require.True(t, f.loop.Running())

	// First frame after start has no elapsed time
	f.pump(0)
	assert.Equal(t, 0.0, f.loop.View().Rotation.Yaw)

	f.pump(time.Second)
	assert.InDelta(t, 3, f.loop.View().Rotation.Yaw, 1e-9)

	f.pump(500 * time.Millisecond)
	assert.InDelta(t, 4.5, f.loop.View().Rotation.Yaw, 1e-9)

	// A slower display covers the same angle per second
	f.pump(2 * time.Second)
	assert.InDelta(t, 10.5, f.loop.View().Rotation.Yaw, 1e-9)
	assert.True(t, f.loop.Running())
}

func TestLoopStartCancelIdempotent(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.loop.Start()
	f.loop.Start()
	assert.Equal(t, 1, f.sched.Pending())

	f.loop.Cancel()
	f.loop.Cancel()
	assert.Zero(t, f.sched.Pending())
	assert.False(t, f.loop.Running())

	f.pump(time.Second)
	assert.Zero(t, f.metrics.frames)
}

func TestLoopStopIsFinal(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.loop.Start()
	f.loop.Stop()
	assert.Zero(t, f.sched.Pending())

	f.loop.Start()
	assert.Zero(t, f.sched.Pending())
	assert.False(t, f.loop.Running())
}

func TestLoopStopInsideFrameDoesNotReschedule(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.loop.Observe(func(int, int) {})
	f.loop.Start()
	f.sched.Request(func(time.Time) { f.loop.Stop() })

	f.pump(0)
	assert.Zero(t, f.sched.Pending())
}

func TestLoopDrawsVisibleMarkersOnly(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.loop.SetEntities([]cargo.Shipment{
		{ID: "near", Position: geo.LonLat{Lon: 0, Lat: 0}, Status: cargo.StatusOnTime},
		{ID: "far", Position: geo.LonLat{Lon: 180, Lat: 0}, Status: cargo.StatusDelayed},
		{ID: "broken", Position: geo.LonLat{Lon: math.NaN(), Lat: 0}},
		{ID: "inf", Position: geo.LonLat{Lon: 0, Lat: math.Inf(1)}},
		{ID: "east", Position: geo.LonLat{Lon: 30, Lat: 10}, Status: cargo.StatusInTransit, Size: 2},
	})

	f.loop.Draw(loopEpoch)
	assert.Equal(t, 2, f.loop.Markers())
	assert.Equal(t, 2, f.metrics.visible)

	// Marker at the screen center lights its cell in the on-time color
	assert.True(t, f.loop.Raster().Dot(400, 300))
	_, color := f.loop.Raster().CellAt(200, 75)
	assert.Equal(t, render.Hex("#22c55e"), color)
}

func TestLoopEmptyEntitiesDrawsBackgroundOnly(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.loop.Draw(loopEpoch)

	assert.Zero(t, f.loop.Markers())
	assert.Equal(t, 1, f.metrics.backgrounds)

	lit := false
	for y := 0; y < 600 && !lit; y++ {
		for x := 0; x < 800; x++ {
			if f.loop.Vector().Dot(x, y) {
				lit = true
				break
			}
		}
	}
	assert.True(t, lit, "background should contain geometry")
}

func TestLoopBackgroundCache(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.loop.setAutoRotate(false)

	f.loop.Draw(loopEpoch)
	f.loop.Draw(loopEpoch.Add(time.Second))
	assert.Equal(t, 1, f.metrics.backgrounds, "unchanged view reuses background")
	assert.Equal(t, 2, f.metrics.frames, "markers redraw every frame")

	f.loop.rotate(5, 0)
	f.loop.Redraw()
	assert.Equal(t, 2, f.metrics.backgrounds)

	f.loop.zoom(10)
	f.loop.Redraw()
	assert.Equal(t, 3, f.metrics.backgrounds)

	f.loop.Resize(300, 100)
	f.loop.Redraw()
	assert.Equal(t, 4, f.metrics.backgrounds)
}

func TestLoopZeroViewportSkipsDrawing(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.loop.SetEntities([]cargo.Shipment{{ID: "a", Position: geo.LonLat{}}})
	f.loop.Resize(0, 0)

	f.loop.Start()
	f.pump(time.Second)
	assert.Zero(t, f.loop.Markers())
	assert.Zero(t, f.metrics.backgrounds)
	assert.True(t, f.loop.Running(), "loop keeps scheduling until a size arrives")

	f.loop.Resize(400, 150)
	f.pump(time.Second)
	assert.Equal(t, 1, f.loop.Markers())
}

func TestLoopObserveResize(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	var got []Viewport
	f.loop.Observe(func(w, h int) { got = append(got, Viewport{Width: w, Height: h}) })

	f.loop.Resize(100, 30)
	f.loop.Resize(0, 0)
	assert.Equal(t, []Viewport{{200, 120}, {0, 0}}, got)

	f.loop.Stop()
	f.loop.Resize(50, 50)
	assert.Len(t, got, 2)
}

func TestLoopFitScale(t *testing.T) {
	opts := DefaultOptions()
	opts.Scale = 0
	opts.MinScale = 20
	f := newFixture(t, opts)

	// 800x600 dots fits a radius of floor(600 * 0.46)
	assert.Equal(t, 276.0, f.loop.View().Scale)

	f.loop.Resize(100, 40)
	assert.Equal(t, 73.0, f.loop.View().Scale)

	// A user zoom sticks across resizes until reset
	f.loop.zoom(7)
	f.loop.Resize(100, 30)
	assert.Equal(t, 80.0, f.loop.View().Scale)

	f.loop.Reset()
	assert.Equal(t, 55.0, f.loop.View().Scale)
}

func TestLoopReset(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.loop.rotate(40, -10)
	f.loop.zoom(50)
	f.loop.setAutoRotate(false)

	f.loop.Reset()
	view := f.loop.View()
	assert.Equal(t, geo.Rotation{}, view.Rotation)
	assert.Equal(t, 220.0, view.Scale)
	assert.True(t, view.AutoRotate)
	assert.Equal(t, Viewport{Width: 800, Height: 600}, view.Viewport)
}

func TestLoopRenderCompositesAtPane(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.loop.SetPane(render.Rect{X: 3, Y: 2, W: 400, H: 150})
	f.loop.SetEntities([]cargo.Shipment{{ID: "a", Position: geo.LonLat{}, Status: cargo.StatusDelivered}})
	f.loop.Draw(loopEpoch)

	buf := render.NewRenderBuffer(410, 160)
	f.loop.Render(render.Context{}, buf)

	cell := buf.Get(3+200, 2+75)
	assert.GreaterOrEqual(t, cell.Rune, render.BrailleBase)
	fg, _, _ := cell.Style.Decompose()
	assert.Equal(t, render.Hex("#a78bfa"), fg)
}

func TestNewLoopRejectsBadBounds(t *testing.T) {
	opts := DefaultOptions()
	opts.MinScale = 500
	_, err := NewLoop(opts, engine.NewScheduler(), nil, nil, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidBounds)
}

func TestLoopToggleAutoRotate(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	c := NewController(f.loop)

	assert.True(t, f.loop.ToggleAutoRotate())
	assert.False(t, f.loop.View().AutoRotate)

	// Ending a gesture does not override a user pause
	c.PointerDown(geo.Point{})
	c.PointerUp(geo.Point{})
	assert.False(t, f.loop.View().AutoRotate)
	assert.True(t, f.loop.AutoRotatePaused())

	assert.False(t, f.loop.ToggleAutoRotate())
	assert.True(t, f.loop.View().AutoRotate)

	// Resuming mid-gesture waits for the release
	c.PointerDown(geo.Point{})
	f.loop.ToggleAutoRotate()
	f.loop.ToggleAutoRotate()
	assert.False(t, f.loop.View().AutoRotate)
	c.PointerUp(geo.Point{})
	assert.True(t, f.loop.View().AutoRotate)

	f.loop.ToggleAutoRotate()
	f.loop.Reset()
	assert.False(t, f.loop.AutoRotatePaused())
	assert.True(t, f.loop.View().AutoRotate)
}

func TestLoopRedrawsDuringGesture(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	c := NewController(f.loop)
	f.loop.SetEntities([]cargo.Shipment{{ID: "a", Position: geo.LonLat{}, Status: cargo.StatusOnTime}})
	f.loop.Start()
	f.pump(0)
	require.Equal(t, 1, f.loop.Markers())
	backgrounds := f.metrics.backgrounds

	// Pointer held still, frames suspended
	c.PointerDown(geo.Point{X: 10, Y: 10})
	require.False(t, f.loop.Running())

	f.loop.SetEntities(nil)
	assert.Zero(t, f.loop.Markers(), "new entity list drawn mid-drag")
	assert.False(t, f.loop.Raster().Dot(400, 300))

	f.loop.SetEntities([]cargo.Shipment{
		{ID: "a", Position: geo.LonLat{}},
		{ID: "b", Position: geo.LonLat{Lon: 20}},
	})
	assert.Equal(t, 2, f.loop.Markers())
	assert.Equal(t, backgrounds, f.metrics.backgrounds, "entity change keeps the cached background")

	f.loop.Resize(200, 100)
	assert.Equal(t, backgrounds+1, f.metrics.backgrounds, "resize redraws the background mid-drag")
	assert.Equal(t, Viewport{Width: 400, Height: 400}, f.loop.View().Viewport)
	assert.True(t, f.loop.Raster().Dot(200, 200))

	// Redraws do not advance rotation or restart frames
	f.pump(time.Second)
	assert.Zero(t, f.loop.View().Rotation.Yaw)
	assert.False(t, f.loop.Running())

	c.PointerUp(geo.Point{X: 10, Y: 10})
	assert.True(t, f.loop.Running())
}

func TestLoopIdleUpdatesWaitForFrame(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.loop.SetEntities([]cargo.Shipment{{ID: "a", Position: geo.LonLat{}}})
	assert.Zero(t, f.metrics.frames, "no gesture, no synchronous draw")

	f.loop.Start()
	f.pump(0)
	assert.Equal(t, 1, f.loop.Markers())
}

func TestLoopHighlightDrawsRoute(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.loop.SetEntities([]cargo.Shipment{{
		ID:       "a",
		From:     geo.LonLat{Lon: -20},
		Dest:     geo.LonLat{Lon: 20},
		Position: geo.LonLat{Lon: 20},
	}})

	// lon -10 on the equator projects to x = 400 - 220*sin(10deg)
	x := int(math.Round(400 - 220*math.Sin(10*math.Pi/180)))

	f.loop.Draw(loopEpoch)
	assert.False(t, f.loop.Raster().Dot(x, 300))

	f.loop.SetHighlight("a")
	f.loop.Draw(loopEpoch)
	assert.True(t, f.loop.Raster().Dot(x, 300))
	_, color := f.loop.Raster().CellAt(x/render.DotsPerCellX, 300/render.DotsPerCellY)
	assert.Equal(t, render.RgbHighlight, color)
}
