package globe

import (
	"math"

	"github.com/lixenwraith/fleetview/cargo"
	"github.com/lixenwraith/fleetview/geo"
)

// GestureKind is the active pointer gesture
type GestureKind uint8

const (
	GestureNone GestureKind = iota
	GestureDrag
	GesturePinch
)

func (k GestureKind) String() string {
	switch k {
	case GestureDrag:
		return "drag"
	case GesturePinch:
		return "pinch"
	default:
		return "none"
	}
}

// PointerSession is the transient state of one gesture
type PointerSession struct {
	Kind         GestureKind
	Last         geo.Point
	LastDistance float64
}

// Controller turns pointer, touch and wheel input into view changes and hover state
// Coordinates are in dots relative to the globe surface
type Controller struct {
	loop    *Loop
	session PointerSession

	hoverID  string
	hovering bool
	lastHit  cargo.Shipment

	metrics Metrics
}

// NewController binds a controller to the loop it steers
func NewController(loop *Loop) *Controller {
	return &Controller{loop: loop, metrics: loop.metrics}
}

// Session returns the current gesture state
func (c *Controller) Session() PointerSession {
	return c.session
}

// Hover returns the hovered entity as of the latest pointer move
func (c *Controller) Hover() (cargo.Shipment, bool) {
	return c.lastHit, c.hovering
}

// PointerDown starts a drag from the idle state
func (c *Controller) PointerDown(pt geo.Point) {
	if c.session.Kind != GestureNone {
		return
	}
	c.beginGesture(GestureDrag)
	c.session.Last = pt
}

// PointerMove rotates while dragging and updates hover otherwise
func (c *Controller) PointerMove(pt geo.Point) {
	if c.session.Kind == GestureDrag {
		s := c.loop.opts.DragSensitivity
		dx, dy := pt.X-c.session.Last.X, pt.Y-c.session.Last.Y
		c.session.Last = pt
		if dx == 0 && dy == 0 {
			return
		}
		c.loop.rotate(dx*s, -dy*s)
		c.loop.Redraw()
		return
	}
	if c.session.Kind == GestureNone {
		c.updateHover(pt)
	}
}

// PointerUp ends a drag
func (c *Controller) PointerUp(geo.Point) {
	if c.session.Kind == GestureDrag {
		c.endGesture()
	}
}

// PointerLeave ends any gesture and clears hover
func (c *Controller) PointerLeave() {
	if c.session.Kind != GestureNone {
		c.endGesture()
	}
	c.clearHover()
}

// TouchStart enters drag for one contact and pinch for two
func (c *Controller) TouchStart(contacts []geo.Point) {
	switch len(contacts) {
	case 1:
		c.PointerDown(contacts[0])
	case 2:
		if c.session.Kind != GesturePinch {
			c.beginGesture(GesturePinch)
		}
		c.session.LastDistance = spread(contacts)
	}
}

// TouchMove zooms while pinching and rotates while dragging
func (c *Controller) TouchMove(contacts []geo.Point) {
	switch {
	case c.session.Kind == GesturePinch && len(contacts) == 2:
		d := spread(contacts)
		c.loop.zoom((d - c.session.LastDistance) * c.loop.opts.PinchSensitivity)
		c.session.LastDistance = d
		c.loop.Redraw()
	case c.session.Kind == GestureDrag && len(contacts) == 1:
		c.PointerMove(contacts[0])
	}
}

// TouchEnd ends any gesture
func (c *Controller) TouchEnd() {
	if c.session.Kind != GestureNone {
		c.endGesture()
	}
}

// Wheel zooms by deltaY independent of gesture state
func (c *Controller) Wheel(deltaY float64) {
	if deltaY == 0 {
		return
	}
	c.loop.zoom(-deltaY * c.loop.opts.WheelSensitivity)
	c.metrics.Gesture("wheel")
	// Frames are suspended mid-gesture, so the zoom would not show until release
	if c.session.Kind != GestureNone {
		c.loop.Redraw()
	}
}

// beginGesture suspends auto-rotation and cancels the pending frame before any rotation change lands
func (c *Controller) beginGesture(kind GestureKind) {
	c.loop.setAutoRotate(false)
	c.loop.Cancel()
	c.session = PointerSession{Kind: kind}
	c.clearHover()
	c.metrics.Gesture(kind.String())
}

func (c *Controller) endGesture() {
	c.session = PointerSession{}
	c.loop.setAutoRotate(true)
	c.loop.Start()
}

func (c *Controller) updateHover(pt geo.Point) {
	items := c.loop.Entities()
	idx, ok := HitTest(items, c.loop.Projector(), pt, c.loop.opts.HitSlack, c.loop.opts.HitCap)
	if !ok {
		c.clearHover()
		return
	}
	c.lastHit = items[idx]
	c.hoverID = items[idx].ID
	c.hovering = true
	c.loop.SetHighlight(c.hoverID)
}

// RefreshHover rebinds the hovered entity to the latest snapshot, dropping it if gone
func (c *Controller) RefreshHover() {
	if !c.hovering {
		return
	}
	for _, e := range c.loop.Entities() {
		if e.ID == c.hoverID {
			c.lastHit = e
			return
		}
	}
	c.clearHover()
}

func (c *Controller) clearHover() {
	c.hovering = false
	c.hoverID = ""
	c.lastHit = cargo.Shipment{}
	c.loop.SetHighlight("")
}

func spread(contacts []geo.Point) float64 {
	return math.Hypot(contacts[1].X-contacts[0].X, contacts[1].Y-contacts[0].Y)
}
