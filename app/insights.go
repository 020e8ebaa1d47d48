package app

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/fleetview/cargo"
	"github.com/lixenwraith/fleetview/render"
)

// FlashDuration is how long figures stay highlighted after a feed update
const FlashDuration = 1500 * time.Millisecond

var legend = []cargo.Status{cargo.StatusOnTime, cargo.StatusInTransit, cargo.StatusDelayed, cargo.StatusDelivered}

// InsightsPanel summarises the fleet beside the globe
type InsightsPanel struct {
	items   []cargo.Shipment
	updated time.Time
	rect    render.Rect
	visible bool

	hover    cargo.Shipment
	hovering bool
}

// NewInsightsPanel creates an empty panel
func NewInsightsPanel() *InsightsPanel {
	return &InsightsPanel{visible: true}
}

// Update replaces the snapshot and starts the highlight
func (p *InsightsPanel) Update(items []cargo.Shipment, now time.Time) {
	p.items = items
	p.updated = now
}

// SetHover shows the hovered shipment's details
func (p *InsightsPanel) SetHover(s cargo.Shipment, ok bool) {
	p.hover, p.hovering = s, ok
}

// Flashing reports whether the post-update highlight is active at now
func (p *InsightsPanel) Flashing(now time.Time) bool {
	if p.updated.IsZero() {
		return false
	}
	d := now.Sub(p.updated)
	return d >= 0 && d < FlashDuration
}

// SetRect places the panel
func (p *InsightsPanel) SetRect(r render.Rect) {
	p.rect = r
}

// SetVisible toggles the panel
func (p *InsightsPanel) SetVisible(v bool) {
	p.visible = v
}

// IsVisible implements render.VisibilityToggle
func (p *InsightsPanel) IsVisible() bool {
	return p.visible
}

// Lines returns the summary text at now
func (p *InsightsPanel) Lines(now time.Time) []string {
	return []string{
		fmt.Sprintf("%d%% of %d active shipments are on time or delivered.", cargo.OnTimePercentage(p.items), len(p.items)),
		"Current average transit time: " + cargo.AverageTransitDays(p.items, now),
		cargo.Insight(p.items),
	}
}

// Render implements render.SystemRenderer
func (p *InsightsPanel) Render(ctx render.Context, buf *render.RenderBuffer) {
	if p.rect.Empty() {
		return
	}
	buf.Fill(p.rect, ' ', render.StyleBase)
	buf.Box(p.rect, "Global Cargo Tracker", render.StyleBorder)
	r := p.rect.Inset(1)
	r.X++
	r.W -= 2
	if r.Empty() {
		return
	}

	y := r.Y
	bottom := r.Y + r.H
	put := func(s string, style tcell.Style) {
		if y < bottom {
			buf.SetString(r.X, y, s, style, r.W)
		}
		y++
	}

	body := render.StyleBase
	if p.Flashing(ctx.Now) {
		body = body.Foreground(render.RgbHighlight)
	}

	put("Shipment Insights", render.StyleAccent.Bold(true))
	for i, line := range p.Lines(ctx.Now) {
		style := body
		if i == 2 {
			style = style.Italic(true)
		}
		for _, w := range render.Wrap(line, r.W) {
			put(w, style)
		}
	}

	y++
	x := r.X
	for _, s := range legend {
		label := "● " + s.String() + " "
		if x+runewidth.StringWidth(label) > r.X+r.W {
			y++
			x = r.X
		}
		if y < bottom {
			x += buf.SetString(x, y, label, render.StyleBase.Foreground(render.Hex(s.Color())), r.X+r.W-x)
		}
	}
	y += 2

	if !p.hovering {
		put("Hover a marker for details", render.StyleMuted)
		return
	}
	for i, line := range ShipmentLines(p.hover) {
		style := body
		if i == 0 {
			style = render.StyleBase.Foreground(render.Hex(p.hover.Status.Color())).Bold(true)
		}
		put(line, style)
	}
}

// ShipmentLines describes a shipment for the tooltip and the insights panel
func ShipmentLines(s cargo.Shipment) []string {
	return []string{
		s.ID,
		"Type: " + s.Type.String(),
		"Status: " + s.Status.String(),
		"ETA: " + cargo.FormatDateTime(s.ETA),
		fmt.Sprintf("%s → %s  %d%%", s.Origin, s.Destination, int(s.Progress*100)),
	}
}
