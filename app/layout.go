package app

import "github.com/lixenwraith/fleetview/render"

// Minimum usable terminal size
const (
	MinWidth  = 20
	MinHeight = 6
)

const (
	sidePanelWidth = 36
	sideByWidth    = 72 // narrower screens stack the insights under the globe
	stackedSide    = 8
	heroRows       = 4
)

// Layout is the screen partition for one terminal size
type Layout struct {
	Screen  render.Rect
	Header  render.Rect
	Content render.Rect
	Status  render.Rect

	Globe  render.Rect // globe pane inside Content
	Side   render.Rect // insights panel beside or under the globe
	Hero   render.Rect // charts view heading
	Charts render.Rect // card area under the heading

	TooSmall bool
}

// ComputeLayout partitions a w x h terminal
func ComputeLayout(w, h int) Layout {
	l := Layout{Screen: render.Rect{W: w, H: h}}
	if w < MinWidth || h < MinHeight {
		l.TooSmall = true
		return l
	}

	l.Header = render.Rect{X: 0, Y: 0, W: w, H: 1}
	l.Status = render.Rect{X: 0, Y: h - 1, W: w, H: 1}
	l.Content = render.Rect{X: 0, Y: 1, W: w, H: h - 2}
	c := l.Content

	switch {
	case w >= sideByWidth:
		l.Globe = render.Rect{X: c.X, Y: c.Y, W: c.W - sidePanelWidth, H: c.H}
		l.Side = render.Rect{X: c.X + c.W - sidePanelWidth, Y: c.Y, W: sidePanelWidth, H: c.H}
	case c.H >= 2*stackedSide:
		l.Globe = render.Rect{X: c.X, Y: c.Y, W: c.W, H: c.H - stackedSide}
		l.Side = render.Rect{X: c.X, Y: c.Y + c.H - stackedSide, W: c.W, H: stackedSide}
	default:
		l.Globe = c
	}

	if c.H > 2*heroRows {
		l.Hero = render.Rect{X: c.X, Y: c.Y, W: c.W, H: heroRows}
		l.Charts = render.Rect{X: c.X, Y: c.Y + heroRows, W: c.W, H: c.H - heroRows}
	} else {
		l.Charts = c
	}
	return l
}
