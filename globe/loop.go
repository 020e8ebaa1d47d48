package globe

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/fleetview/cargo"
	"github.com/lixenwraith/fleetview/engine"
	"github.com/lixenwraith/fleetview/geo"
	"github.com/lixenwraith/fleetview/render"
)

// fitRatio is the share of the shorter viewport side used as the fitted radius
const fitRatio = 0.46

// routeSamples is the number of segments in a hovered route arc
const routeSamples = 48

// Loop owns the view state, the frame handle and both drawing surfaces
// All methods must be called from the UI goroutine
type Loop struct {
	opts    Options
	bounds  Bounds
	view    ViewState
	initial ViewState

	sched   engine.FrameScheduler
	clock   engine.Clock
	handle  engine.FrameID
	stopped bool

	lastFrame time.Time
	hasLast   bool

	vector  *render.Canvas // graticule and coastlines, redrawn on invalidation
	raster  *render.Canvas // markers, redrawn every frame
	bgKey   backgroundKey
	bgValid bool

	graticule [][]geo.LonLat
	land      [][]geo.LonLat

	entities  []cargo.Shipment
	highlight string
	observers []func(width, height int)

	pane       render.Rect
	visible    bool
	userZoomed bool
	markers    int

	// Auto-rotation runs only when neither a gesture nor the user holds it
	gestureHold bool
	paused      bool

	palette map[cargo.Status]tcell.Color
	metrics Metrics
	log     zerolog.Logger
}

// NewLoop creates a stopped loop; call Resize and Start to animate
func NewLoop(opts Options, sched engine.FrameScheduler, clock engine.Clock, metrics Metrics, log zerolog.Logger) (*Loop, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = engine.NewTimeProvider()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	land, err := geo.Land()
	if err != nil {
		return nil, fmt.Errorf("failed to load coastlines: %w", err)
	}

	l := &Loop{
		opts:    opts,
		bounds:  opts.Bounds(),
		sched:   sched,
		clock:   clock,
		vector:  render.NewCanvas(0, 0),
		raster:  render.NewCanvas(0, 0),
		visible: true,
		palette: make(map[cargo.Status]tcell.Color),
		metrics: metrics,
		log:     log.With().Str("component", "globe").Logger(),
	}
	for _, ls := range geo.Graticule() {
		l.graticule = append(l.graticule, geo.Vertices(ls))
	}
	for _, ls := range land {
		l.land = append(l.land, geo.Vertices(ls))
	}
	for _, s := range []cargo.Status{cargo.StatusUnknown, cargo.StatusOnTime, cargo.StatusDelayed, cargo.StatusInTransit, cargo.StatusDelivered} {
		l.palette[s] = render.Hex(s.Color())
	}

	scale := opts.Scale
	if scale == 0 {
		scale = opts.MinScale
	}
	l.view = ViewState{Scale: l.bounds.Clamp(scale), AutoRotate: true}
	l.initial = l.view
	return l, nil
}

// View returns a copy of the current view state
func (l *Loop) View() ViewState {
	return l.view
}

// Bounds returns the scale limits
func (l *Loop) Bounds() Bounds {
	return l.bounds
}

// Options returns the loop tuning
func (l *Loop) Options() Options {
	return l.opts
}

// Running reports whether a frame is pending
func (l *Loop) Running() bool {
	return l.handle != 0
}

// Start requests the next frame; no-op while a frame is pending or after Stop
// The first frame after a start advances rotation by zero
func (l *Loop) Start() {
	if l.stopped || l.handle != 0 || l.sched == nil {
		return
	}
	l.hasLast = false
	l.handle = l.sched.Request(l.frame)
}

// Cancel drops the pending frame, no-op when none is pending
func (l *Loop) Cancel() {
	if l.handle == 0 {
		return
	}
	l.sched.Cancel(l.handle)
	l.handle = 0
}

// Stop cancels frames permanently and drops resize observers
func (l *Loop) Stop() {
	l.Cancel()
	l.stopped = true
	l.observers = nil
}

// frame is the self-rescheduling scheduler callback
func (l *Loop) frame(now time.Time) {
	l.handle = 0
	l.Draw(now)
	if !l.stopped {
		l.handle = l.sched.Request(l.frame)
	}
}

// Draw advances auto-rotation by the elapsed time since the previous frame and redraws
func (l *Loop) Draw(now time.Time) {
	var dt time.Duration
	if l.hasLast {
		dt = now.Sub(l.lastFrame)
		if dt < 0 {
			dt = 0
		}
	}
	l.lastFrame = now
	l.hasLast = true

	if l.view.AutoRotate {
		l.view.Rotation.Yaw += l.opts.AutoRotateSpeed * dt.Seconds()
	}
	l.draw(l.frameContext(now, dt))
}

// Redraw repaints the current state without advancing time
func (l *Loop) Redraw() {
	now := l.lastFrame
	if !l.hasLast {
		now = l.clock.Now()
	}
	l.draw(l.frameContext(now, 0))
}

func (l *Loop) frameContext(now time.Time, dt time.Duration) FrameContext {
	return FrameContext{
		Rotation: l.view.Rotation,
		Scale:    l.view.Scale,
		Viewport: l.view.Viewport,
		Entities: l.entities,
		Now:      now,
		Delta:    dt,
	}
}

// draw renders one frame from fc onto the canvases
func (l *Loop) draw(fc FrameContext) {
	if fc.Viewport.Empty() {
		l.markers = 0
		return
	}
	start := time.Now()
	proj := fc.Projector()

	key := backgroundKey{rotation: fc.Rotation, scale: fc.Scale, viewport: fc.Viewport}
	if !l.bgValid || key != l.bgKey {
		l.drawBackground(proj)
		l.bgKey = key
		l.bgValid = true
		l.metrics.BackgroundRedraw()
	}

	l.raster.Clear()
	l.markers = 0
	if l.highlight != "" {
		for _, e := range fc.Entities {
			if e.ID == l.highlight {
				l.drawRoute(proj, e)
				break
			}
		}
	}
	for _, e := range fc.Entities {
		if !e.Position.Valid() {
			continue
		}
		p := proj.Project(e.Position)
		if !p.Visible {
			continue
		}
		r := e.Radius()
		l.raster.FillCircle(p.X, p.Y, r, l.statusColor(e.Status))
		l.raster.StrokeCircle(p.X, p.Y, r+1, render.RgbOutline)
		if l.highlight != "" && e.ID == l.highlight {
			l.raster.StrokeCircle(p.X, p.Y, r+3, render.RgbHighlight)
		}
		l.markers++
	}

	l.metrics.ObserveFrame(time.Since(start), l.markers)
}

// drawRoute traces the great circle from the shipment origin to its destination
func (l *Loop) drawRoute(proj geo.Projector, e cargo.Shipment) {
	if !e.From.Valid() || !e.Dest.Valid() {
		return
	}
	var prev geo.Projected
	for i := 0; i <= routeSamples; i++ {
		p := proj.Project(geo.Interpolate(e.From, e.Dest, float64(i)/routeSamples))
		if i > 0 && prev.Visible && p.Visible {
			l.raster.Line(int(math.Round(prev.X)), int(math.Round(prev.Y)), int(math.Round(p.X)), int(math.Round(p.Y)), render.RgbHighlight)
		}
		prev = p
	}
}

// drawBackground redraws the limb, graticule and coastlines
func (l *Loop) drawBackground(proj geo.Projector) {
	l.vector.Clear()

	c := proj.Center
	steps := int(math.Max(32, proj.Scale*2))
	prevX, prevY := int(math.Round(c.X+proj.Scale)), int(math.Round(c.Y))
	for i := 1; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x, y := int(math.Round(c.X+proj.Scale*math.Cos(a))), int(math.Round(c.Y+proj.Scale*math.Sin(a)))
		l.vector.Line(prevX, prevY, x, y, render.RgbBorder)
		prevX, prevY = x, y
	}

	for _, line := range l.graticule {
		l.drawPolyline(proj, line, render.RgbGraticule)
	}
	for _, line := range l.land {
		l.drawPolyline(proj, line, render.RgbLand)
	}
}

// drawPolyline strokes segments whose endpoints are both on the near side
func (l *Loop) drawPolyline(proj geo.Projector, pts []geo.LonLat, color tcell.Color) {
	var prev geo.Projected
	for i, pt := range pts {
		p := proj.Project(pt)
		if i > 0 && prev.Visible && p.Visible {
			l.vector.Line(int(math.Round(prev.X)), int(math.Round(prev.Y)), int(math.Round(p.X)), int(math.Round(p.Y)), color)
		}
		prev = p
	}
}

func (l *Loop) statusColor(s cargo.Status) tcell.Color {
	if c, ok := l.palette[s]; ok {
		return c
	}
	return l.palette[cargo.StatusUnknown]
}

// Markers returns how many markers the last frame drew
func (l *Loop) Markers() int {
	return l.markers
}

// SetEntities replaces the entity snapshot read by subsequent frames
func (l *Loop) SetEntities(items []cargo.Shipment) {
	l.entities = items
	l.redrawHeld()
}

// redrawHeld draws synchronously while a gesture holds frames off
func (l *Loop) redrawHeld() {
	if l.gestureHold && !l.stopped && !l.Running() {
		l.Redraw()
	}
}

// Entities returns the current snapshot
func (l *Loop) Entities() []cargo.Shipment {
	return l.entities
}

// SetHighlight rings the marker with the given ID, empty clears it
func (l *Loop) SetHighlight(id string) {
	l.highlight = id
}

// Observe registers a callback for viewport changes, sizes in dots
func (l *Loop) Observe(onResize func(width, height int)) {
	if l.stopped || onResize == nil {
		return
	}
	l.observers = append(l.observers, onResize)
}

// Resize sets the surface size in terminal cells and invalidates the background cache
func (l *Loop) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	vp := Viewport{Width: cols * render.DotsPerCellX, Height: rows * render.DotsPerCellY}
	if vp == l.view.Viewport && l.bgValid {
		return
	}

	l.view.Viewport = vp
	l.vector.Resize(cols, rows)
	l.raster.Resize(cols, rows)
	l.bgValid = false

	if l.opts.Scale == 0 && !l.userZoomed {
		l.view.Scale = l.fitScale()
		l.initial.Scale = l.view.Scale
	}

	l.log.Debug().Int("width", vp.Width).Int("height", vp.Height).Float64("scale", l.view.Scale).Msg("viewport resized")
	for _, fn := range l.observers {
		fn(vp.Width, vp.Height)
	}
	l.redrawHeld()
}

func (l *Loop) fitScale() float64 {
	vp := l.view.Viewport
	side := math.Min(float64(vp.Width), float64(vp.Height))
	return l.bounds.Clamp(math.Floor(side * fitRatio))
}

// SetPane places the globe at a cell rect of the screen, resizing when the size changes
func (l *Loop) SetPane(rect render.Rect) {
	l.pane = rect
	l.Resize(rect.W, rect.H)
}

// Pane returns the screen rect the globe occupies
func (l *Loop) Pane() render.Rect {
	return l.pane
}

// SetVisible toggles compositing into the screen buffer
func (l *Loop) SetVisible(v bool) {
	l.visible = v
}

// IsVisible implements render.VisibilityToggle
func (l *Loop) IsVisible() bool {
	return l.visible
}

// Render composites background then markers at the pane origin
func (l *Loop) Render(_ render.Context, buf *render.RenderBuffer) {
	if l.view.Viewport.Empty() {
		return
	}
	l.vector.Blit(buf, l.pane.X, l.pane.Y)
	l.raster.Blit(buf, l.pane.X, l.pane.Y)
}

// Reset restores the initial rotation and scale and resumes auto-rotation
func (l *Loop) Reset() {
	vp := l.view.Viewport
	l.view = l.initial
	l.view.Viewport = vp
	l.paused, l.gestureHold = false, false
	l.applyAutoRotate()
	l.userZoomed = false
	if l.opts.Scale == 0 && !vp.Empty() {
		l.view.Scale = l.fitScale()
	}
}

// rotate applies a gesture rotation delta in degrees
func (l *Loop) rotate(dYaw, dPitch float64) {
	l.view.Rotation.Yaw += dYaw
	l.view.Rotation.Pitch += dPitch
}

// zoom applies a scale delta clamped to the bounds
func (l *Loop) zoom(delta float64) {
	if delta == 0 || math.IsNaN(delta) {
		return
	}
	l.view.Scale = l.bounds.Clamp(l.view.Scale + delta)
	l.userZoomed = true
}

func (l *Loop) setAutoRotate(on bool) {
	l.gestureHold = !on
	l.applyAutoRotate()
}

func (l *Loop) applyAutoRotate() {
	l.view.AutoRotate = !l.gestureHold && !l.paused
}

// ToggleAutoRotate pauses or resumes idle rotation and returns whether it is paused
func (l *Loop) ToggleAutoRotate() bool {
	l.paused = !l.paused
	l.applyAutoRotate()
	return l.paused
}

// AutoRotatePaused reports whether the user paused idle rotation
func (l *Loop) AutoRotatePaused() bool {
	return l.paused
}

// Projector returns the current projection
func (l *Loop) Projector() geo.Projector {
	return l.view.Projector()
}

// Raster exposes the marker canvas for inspection
func (l *Loop) Raster() *render.Canvas {
	return l.raster
}

// Vector exposes the background canvas for inspection
func (l *Loop) Vector() *render.Canvas {
	return l.vector
}
