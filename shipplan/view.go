package shipplan

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/fleetview/engine"
	"github.com/lixenwraith/fleetview/render"
)

// Stack fill darkens with each tier
var tierColors = [MaxTiers]tcell.Color{
	render.Hex("#4A7DFF"),
	render.Hex("#2B5EE8"),
	render.Hex("#0A3DD1"),
}

var (
	rgbSlotEdge = render.Hex("#D9D9D9")
	rgbFullEdge = render.Hex("#FF5C5C")
)

const (
	bowWidth   = 4
	slotHeight = 3
	deckCols   = Cols - 3 // columns 2 through 18
)

// TierColor returns the fill for a stack of n containers, n in 1..MaxTiers
func TierColor(n int) tcell.Color {
	if n < 1 {
		return render.RgbMuted
	}
	return tierColors[min(n, MaxTiers)-1]
}

// View draws the deck, the selected slot panel and a hover tooltip
type View struct {
	plan   *Plan
	source *Source
	clock  engine.Clock
	log    zerolog.Logger

	rect     render.Rect
	slots    [Rows * Cols]render.Rect
	slotW    int
	hullY    int
	hover    int
	pointerX int
	pointerY int
	visible  bool
}

// NewView wraps plan; source feeds the add action
func NewView(plan *Plan, source *Source, clock engine.Clock, log zerolog.Logger) *View {
	if clock == nil {
		clock = engine.NewTimeProvider()
	}
	return &View{
		plan:    plan,
		source:  source,
		clock:   clock,
		log:     log.With().Str("component", "shipplan").Logger(),
		hover:   -1,
		visible: true,
	}
}

// Plan returns the underlying model
func (v *View) Plan() *Plan {
	return v.plan
}

// SetRect lays out the hull and slot rects inside rect
func (v *View) SetRect(rect render.Rect) {
	v.rect = rect
	v.slotW = 4
	if rect.W < bowWidth+deckCols*4+3 {
		v.slotW = 3
	}
	v.hullY = rect.Y + 2
	deckX := rect.X + 1 + bowWidth + 1
	for i := range v.slots {
		row, col := i/Cols, i%Cols
		if !isRealSlot(col) {
			v.slots[i] = render.Rect{}
			continue
		}
		v.slots[i] = render.Rect{
			X: deckX + (col-2)*v.slotW,
			Y: v.hullY + 1 + row*(slotHeight+1),
			W: v.slotW,
			H: slotHeight,
		}
	}
}

// SetVisible toggles the view
func (v *View) SetVisible(on bool) {
	v.visible = on
}

// IsVisible implements render.VisibilityToggle
func (v *View) IsVisible() bool {
	return v.visible
}

// SlotRect returns the screen rect of a slot, empty for gaps
func (v *View) SlotRect(id int) render.Rect {
	if id < 0 || id >= len(v.slots) {
		return render.Rect{}
	}
	return v.slots[id]
}

// slotAt returns the slot under screen cell (x, y) or -1
func (v *View) slotAt(x, y int) int {
	for i, r := range v.slots {
		if !r.Empty() && r.Contains(x, y) {
			return i
		}
	}
	return -1
}

// Hover tracks the pointer for the tooltip
func (v *View) Hover(x, y int) {
	v.pointerX, v.pointerY = x, y
	v.hover = v.slotAt(x, y)
}

// Hovered returns the slot under the pointer or -1
func (v *View) Hovered() int {
	return v.hover
}

// Leave hides the tooltip
func (v *View) Leave() {
	v.hover = -1
}

// Click toggles selection of the slot under (x, y); false when no slot is there
func (v *View) Click(x, y int) bool {
	id := v.slotAt(x, y)
	if id < 0 {
		return false
	}
	_ = v.plan.Select(id)
	return true
}

// AddContainer stacks a generated container on the selected slot
func (v *View) AddContainer() (Container, error) {
	c := v.source.Next(v.clock.Now())
	if err := v.plan.AddContainer(c); err != nil {
		return Container{}, err
	}
	sel, _ := v.plan.Selected()
	v.log.Debug().Int("slot", sel.ID).Str("container", c.ID).Int("tiers", len(sel.Containers)).Msg("container added")
	return c, nil
}

// RemoveContainer unloads the top of the selected slot
func (v *View) RemoveContainer() (Container, error) {
	c, err := v.plan.RemoveTop()
	if err != nil {
		return Container{}, err
	}
	v.log.Debug().Str("container", c.ID).Msg("container removed")
	return c, nil
}

// TooltipLines describes a slot for the hover tooltip
func TooltipLines(s Slot) []string {
	lines := []string{
		fmt.Sprintf("Slot #%d", s.ID),
		fmt.Sprintf("Row %d, Column %d", s.Row+1, s.Col+1),
		fmt.Sprintf("%d/%d containers", len(s.Containers), MaxTiers),
	}
	if len(s.Containers) == 0 {
		return append(lines, "Empty slot - Click to add containers")
	}
	for i, c := range s.Containers {
		lines = append(lines, fmt.Sprintf("Tier %d: %s - %s", i+1, c.ID, c.Content))
	}
	return lines
}

// Render implements render.SystemRenderer
func (v *View) Render(_ render.Context, buf *render.RenderBuffer) {
	if v.rect.Empty() {
		return
	}
	buf.SetString(v.rect.X+1, v.rect.Y, fmt.Sprintf("Ship #%d", IMO), render.StyleAccent.Bold(true), v.rect.W-1)
	loaded, capacity := v.plan.Occupancy()
	load := fmt.Sprintf("%d/%d TEU", loaded, capacity)
	if x := v.rect.X + v.rect.W - runewidth.StringWidth(load) - 1; x > v.rect.X+16 {
		buf.SetString(x, v.rect.Y, load, render.StyleMuted, 0)
	}
	if v.rect.H > 1 {
		for x := v.rect.X; x < v.rect.X+v.rect.W; x++ {
			buf.Set(x, v.rect.Y+1, tcell.RuneHLine, render.StyleBorder)
		}
	}

	v.drawHull(buf)
	for _, s := range v.plan.RealSlots() {
		v.drawSlot(buf, s)
	}
	v.drawPanel(buf)
	v.drawTooltip(buf)
}

func (v *View) drawHull(buf *render.RenderBuffer) {
	h := 2*slotHeight + 3
	x0 := v.rect.X + 1
	left := x0 + bowWidth
	right := left + 1 + deckCols*v.slotW
	style := render.StyleBase.Foreground(rgbSlotEdge)

	for x := left; x < right; x++ {
		buf.Set(x, v.hullY, tcell.RuneHLine, style)
		buf.Set(x, v.hullY+h-1, tcell.RuneHLine, style)
	}
	for y := v.hullY + 1; y < v.hullY+h-1; y++ {
		buf.Set(right, y, tcell.RuneVLine, style)
	}
	buf.Set(right, v.hullY, tcell.RuneURCorner, style)
	buf.Set(right, v.hullY+h-1, tcell.RuneLRCorner, style)

	// Bow tapers to a point at mid-height
	half := h / 2
	for i := 0; i < h; i++ {
		d := i - half
		if d < 0 {
			d = -d
		}
		x := x0 + bowWidth*d/half
		switch {
		case i < half:
			buf.Set(x, v.hullY+i, '╱', style)
		case i > half:
			buf.Set(x, v.hullY+i, '╲', style)
		default:
			buf.Set(x, v.hullY+i, '<', style)
		}
	}
}

func (v *View) drawSlot(buf *render.RenderBuffer, s Slot) {
	r := v.slots[s.ID]
	if r.Empty() {
		return
	}
	n := len(s.Containers)
	edge := render.StyleBase.Foreground(rgbSlotEdge)
	switch {
	case s.ID == v.plan.selected:
		edge = render.StyleBase.Foreground(render.RgbHighlight).Bold(true)
	case s.Full():
		edge = render.StyleBase.Foreground(rgbFullEdge)
	case s.ID == v.hover:
		edge = render.StyleAccent
	}
	buf.Box(r, "", edge)

	inner := r.Inset(1)
	if n == 0 {
		buf.Fill(inner, '╱', render.StyleMuted)
		return
	}
	buf.Fill(inner, '█', render.StyleBase.Foreground(TierColor(n)))
}

func (v *View) drawPanel(buf *render.RenderBuffer) {
	y := v.hullY + 2*slotHeight + 4
	bottom := v.rect.Y + v.rect.H
	x := v.rect.X + 1
	w := v.rect.W - 2
	line := func(s string, style tcell.Style) {
		if y < bottom {
			buf.SetString(x, y, s, style, w)
		}
		y++
	}

	sel, ok := v.plan.Selected()
	if !ok {
		line("<- Select Your Slot", render.StyleMuted)
		return
	}

	line(fmt.Sprintf("#%d  Row %d, Col %d", sel.ID, sel.Row+1, sel.Col+1), render.StyleAccent.Bold(true))

	stack := fmt.Sprintf("Container Stack %d/%d  ", len(sel.Containers), MaxTiers)
	for _, c := range sel.Containers {
		id := c.ID
		if len(id) > 4 {
			id = id[len(id)-4:]
		}
		stack += "[" + id + "]"
	}
	for i := len(sel.Containers); i < MaxTiers; i++ {
		stack += "[ + ]"
	}
	line(stack, render.StyleBase)

	for i, c := range sel.Containers {
		line(fmt.Sprintf("%d. Container %s  %s  → %s  %d tons", i+1, c.ID, c.Content, c.Destination, c.Weight), render.StyleBase)
	}

	if sel.Full() {
		line("Slot full  x remove top", render.StyleBase.Foreground(rgbFullEdge))
	} else {
		line("a add container  x remove top", render.StyleMuted)
	}
}

func (v *View) drawTooltip(buf *render.RenderBuffer) {
	s, ok := v.plan.Slot(v.hover)
	if !ok || !s.Real {
		return
	}
	render.Tooltip(buf, v.rect, v.pointerX, v.pointerY, TooltipLines(s))
}
