package brain

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/fleetview/render"
)

// Animation and interaction constants
const (
	RotationSpeed = 0.00009 // radians per millisecond
	HoverRadiusSq = 2500.0  // virtual pixels squared

	edgeAlpha   = 0.07
	edgeBoost   = 8 // terminal cells need more contrast than canvas alpha gives
	fillRatio   = 0.4
	textColumn  = 34
	kpiRows     = 3
	hoverRingPx = 6
)

// Default reasoning panel text
const (
	DefaultTitle  = "Cargo AI Brain"
	DefaultReason = "Optimizing vessel equilibrium to reduce the risk of container displacement"
)

var (
	rgbNode      = render.Hex("#40fff0")
	rgbHighlight = render.Hex("#ffc35a")
)

// Brain is the rotating node-graph view with its reasoning and KPI panels
type Brain struct {
	graph *Graph
	kpis  *KPIBoard
	rng   *rand.Rand

	start   time.Time
	now     time.Time
	last    time.Time
	hasLast bool
	rotY    float64

	rect      render.Rect
	graphRect render.Rect
	textRect  render.Rect
	canvas    *render.Canvas

	hovered int
	title   string
	reason  string
	visible bool
}

// New builds the graph and KPI board; start anchors the pulse and KPI timers
func New(rng *rand.Rand, start time.Time) *Brain {
	return &Brain{
		graph:   NewGraph(rng),
		kpis:    NewKPIBoard(DefaultKPIs(), rng, start),
		rng:     rng,
		start:   start,
		now:     start,
		canvas:  render.NewCanvas(0, 0),
		hovered: -1,
		title:   DefaultTitle,
		reason:  DefaultReason,
		visible: true,
	}
}

// Graph returns the node layout
func (b *Brain) Graph() *Graph {
	return b.graph
}

// KPIs returns the current figures
func (b *Brain) KPIs() []KPI {
	return b.kpis.Items()
}

// RotY returns the current rotation in radians
func (b *Brain) RotY() float64 {
	return b.rotY
}

// Reason returns the reasoning panel title and text
func (b *Brain) Reason() (string, string) {
	return b.title, b.reason
}

// Hovered returns the hovered node ID or -1
func (b *Brain) Hovered() int {
	return b.hovered
}

// Advance rotates by elapsed time and steps the KPI board
// The first call after construction or Pause does not rotate
func (b *Brain) Advance(now time.Time) {
	if b.hasLast {
		if dt := now.Sub(b.last); dt > 0 {
			b.rotY += RotationSpeed * float64(dt.Milliseconds())
		}
	}
	b.last, b.hasLast = now, true
	b.now = now
	b.kpis.Update(now)
}

// Pause forgets the previous frame time so hidden periods do not spin the graph
func (b *Brain) Pause() {
	b.hasLast = false
}

// SetRect lays out the KPI strip, text column and graph area
func (b *Brain) SetRect(rect render.Rect) {
	b.rect = rect
	body := render.Rect{X: rect.X, Y: rect.Y + kpiRows, W: rect.W, H: rect.H - kpiRows}
	if body.H < 0 {
		body.H = 0
	}
	col := min(textColumn, body.W/3)
	b.textRect = render.Rect{X: body.X, Y: body.Y, W: col, H: body.H}
	b.graphRect = render.Rect{X: body.X + col, Y: body.Y, W: body.W - col, H: body.H}
	b.canvas.Resize(b.graphRect.W, b.graphRect.H)
}

// SetVisible toggles the view
func (b *Brain) SetVisible(v bool) {
	b.visible = v
}

// IsVisible implements render.VisibilityToggle
func (b *Brain) IsVisible() bool {
	return b.visible
}

// pixelScale maps virtual pixels to canvas dots
func (b *Brain) pixelScale() float64 {
	dw, dh := b.canvas.Dots()
	return fillRatio * float64(min(dw, dh)) / SphereRadius
}

func (b *Brain) toDots(p Projected) (float64, float64) {
	dw, dh := b.canvas.Dots()
	k := b.pixelScale()
	return float64(dw)/2 + p.X*k, float64(dh)/2 + p.Y*k
}

// nearest returns the node closest to the dot position and its squared virtual distance
func (b *Brain) nearest(x, y float64) (int, float64) {
	k := b.pixelScale()
	if k == 0 {
		return -1, math.Inf(1)
	}
	best, bestSq := -1, math.Inf(1)
	for _, n := range b.graph.Nodes {
		px, py := b.toDots(Project(n, b.rotY))
		dx, dy := (px-x)/k, (py-y)/k
		if d := dx*dx + dy*dy; d < bestSq {
			best, bestSq = n.ID, d
		}
	}
	return best, bestSq
}

// Hover updates the reasoning panel for a pointer at screen cell (col, row)
func (b *Brain) Hover(col, row int) {
	if !b.graphRect.Contains(col, row) {
		b.Leave()
		return
	}
	x, y := render.CellToDot(col-b.graphRect.X, row-b.graphRect.Y)
	b.hoverDots(float64(x), float64(y))
}

func (b *Brain) hoverDots(x, y float64) {
	id, d := b.nearest(x, y)
	if id < 0 || d >= HoverRadiusSq {
		b.Leave()
		return
	}
	n := b.graph.Nodes[id]
	b.hovered = id
	b.title = n.Label
	b.reason = fmt.Sprintf("%s • Importance %s", n.Note, n.Importance)
}

// Leave restores the default reasoning text
func (b *Brain) Leave() {
	b.hovered = -1
	b.title = DefaultTitle
	b.reason = DefaultReason
}

// Click opens simulated deep reasoning for the node under the pointer
// Returns false when no node is within reach
func (b *Brain) Click(col, row int) bool {
	if !b.graphRect.Contains(col, row) {
		return false
	}
	x, y := render.CellToDot(col-b.graphRect.X, row-b.graphRect.Y)
	return b.clickDots(float64(x), float64(y))
}

func (b *Brain) clickDots(x, y float64) bool {
	id, d := b.nearest(x, y)
	if id < 0 || d >= HoverRadiusSq {
		return false
	}
	confidence := int(60 + b.rng.Float64()*36)
	b.title = "Deep Reasoning: " + b.graph.Nodes[id].Label
	b.reason = "Simulated chain-of-thought:\n" +
		"• Rebalancing suggestion: move 2 containers from port aft to starboard mid.\n" +
		fmt.Sprintf("• Confidence: %d%%", confidence)
	return true
}

// Render implements render.SystemRenderer
func (b *Brain) Render(_ render.Context, buf *render.RenderBuffer) {
	if b.rect.Empty() {
		return
	}
	b.drawKPIs(buf)
	b.drawText(buf)
	b.drawGraph()
	b.canvas.Blit(buf, b.graphRect.X, b.graphRect.Y)
}

func (b *Brain) drawKPIs(buf *render.RenderBuffer) {
	r := render.Rect{X: b.rect.X, Y: b.rect.Y, W: b.rect.W, H: min(kpiRows, b.rect.H)}
	buf.Box(r, "AI Metrics", render.StyleBorder)
	if r.H < 3 {
		return
	}
	x := r.X + 2
	end := r.X + r.W - 1
	put := func(s string, style tcell.Style) {
		if x < end {
			x += buf.SetString(x, r.Y+1, s, style, end-x)
		}
	}
	for i, k := range b.kpis.Items() {
		if i > 0 {
			put(" │ ", render.StyleBorder)
		}
		put(k.Label+" ", render.StyleMuted)
		put(k.Format(), render.StyleBase.Foreground(render.Hex(k.Color)).Bold(true))
	}
}

func (b *Brain) drawText(buf *render.RenderBuffer) {
	r := b.textRect.Inset(1)
	if r.Empty() {
		return
	}
	y := r.Y
	line := func(s string, style tcell.Style) {
		if y < r.Y+r.H {
			buf.SetString(r.X, y, s, style, r.W)
		}
		y++
	}

	line("Cargo AI Brain", render.StyleAccent.Bold(true))
	for _, s := range render.Wrap(DefaultReason, r.W) {
		line(s, render.StyleMuted)
	}
	y++
	line(b.title, render.StyleBase.Foreground(render.RgbHighlight).Bold(true))
	for _, para := range strings.Split(b.reason, "\n") {
		for _, s := range render.Wrap(para, r.W) {
			line(s, render.StyleBase)
		}
	}
}

func (b *Brain) drawGraph() {
	b.canvas.Clear()
	if dw, dh := b.canvas.Dots(); dw == 0 || dh == 0 {
		return
	}
	k := b.pixelScale()

	proj := make([]Projected, len(b.graph.Nodes))
	for i, n := range b.graph.Nodes {
		proj[i] = Project(n, b.rotY)
	}

	for _, e := range b.graph.Edges {
		pa, pb := proj[e.A], proj[e.B]
		depth := (pa.Z + pb.Z) / 2
		alpha := math.Max(0.02, edgeAlpha*(1-depth*0.5))
		ax, ay := b.toDots(pa)
		bx, by := b.toDots(pb)
		b.canvas.Line(int(ax), int(ay), int(bx), int(by), render.Dim(rgbNode, math.Min(1, alpha*edgeBoost)))
	}

	// Far nodes first so nearer ones paint over them
	order := make([]int, len(proj))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return proj[order[i]].Z > proj[order[j]].Z })

	ms := float64(b.now.Sub(b.start).Milliseconds())
	for _, i := range order {
		n, p := b.graph.Nodes[i], proj[i]
		s := n.Size * p.Scale
		base, alpha := rgbNode, 0.6
		if n.Highlight {
			s *= 1.6
			base, alpha = rgbHighlight, 0.98
		}
		pulse := 0.6 + 0.4*math.Sin(ms/350+float64(n.ID))
		x, y := b.toDots(p)
		r := math.Max(0.6, s*k)
		b.canvas.FillCircle(x, y, r, render.Dim(base, alpha*pulse))
		if i == b.hovered {
			b.canvas.StrokeCircle(x, y, r+hoverRingPx*k, render.RgbOutline)
		}
	}
}
