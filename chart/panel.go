package chart

import (
	"github.com/lixenwraith/fleetview/render"
)

// minCardWidth is the narrowest card drawn side by side
const minCardWidth = 30

// Panel lays out cards side by side, or stacked when the area is narrow
type Panel struct {
	cards   []Card
	rect    render.Rect
	visible bool
}

// NewPanel creates a visible panel for cards
func NewPanel(cards []Card) *Panel {
	return &Panel{cards: cards, visible: true}
}

// Cards returns the panel's cards
func (p *Panel) Cards() []Card {
	return p.cards
}

// SetRect places the panel on screen
func (p *Panel) SetRect(rect render.Rect) {
	p.rect = rect
}

// SetVisible toggles the panel
func (p *Panel) SetVisible(v bool) {
	p.visible = v
}

// IsVisible implements render.VisibilityToggle
func (p *Panel) IsVisible() bool {
	return p.visible
}

// Layout returns the rect of each card within the panel
func (p *Panel) Layout() []render.Rect {
	n := len(p.cards)
	if n == 0 || p.rect.Empty() {
		return nil
	}
	out := make([]render.Rect, n)
	if p.rect.W/n >= minCardWidth {
		w := p.rect.W / n
		for i := range out {
			out[i] = render.Rect{X: p.rect.X + i*w, Y: p.rect.Y, W: w, H: p.rect.H}
		}
		out[n-1].W = p.rect.X + p.rect.W - out[n-1].X
		return out
	}
	h := p.rect.H / n
	for i := range out {
		out[i] = render.Rect{X: p.rect.X, Y: p.rect.Y + i*h, W: p.rect.W, H: h}
	}
	out[n-1].H = p.rect.Y + p.rect.H - out[n-1].Y
	return out
}

// Render implements render.SystemRenderer
func (p *Panel) Render(_ render.Context, buf *render.RenderBuffer) {
	for i, r := range p.Layout() {
		p.cards[i].Draw(buf, r)
	}
}
