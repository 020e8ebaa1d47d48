package chart

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/fleetview/render"
)

// Card accent colors by name, unknown names use yellow
var cardColors = map[string]string{
	"yellow": "#facc15",
	"cyan":   "#22d3ee",
	"pink":   "#f472b6",
	"green":  "#4ade80",
}

// Card is a labelled chart with a headline figure and caption
type Card struct {
	Label      string
	Kind       Kind
	Data       []float64
	Percentage string
	Color      string
	Caption    string
}

// DefaultCards returns the dashboard's stock prediction and pulse cards
func DefaultCards() []Card {
	return []Card{
		{
			Label:      "Maritime Predictions",
			Kind:       KindDonut,
			Data:       []float64{31, 54, 12, 68, 19, 63, 97, 85},
			Percentage: "+18.65%",
			Color:      "yellow",
			Caption:    "The system forecasts route delays, weather shifts, and risk zones using its evolving neural model.",
		},
		{
			Label:      "Cargo State Pulse",
			Kind:       KindBar,
			Data:       []float64{31, 54, 12, 21, 76, 63, 42, 52},
			Percentage: "+27.42%",
			Color:      "cyan",
			Caption:    "Continuous monitoring of temperature, weight variance, and movement vibration trends.",
		},
	}
}

// Accent returns the card color
func (c Card) Accent() tcell.Color {
	hex, ok := cardColors[c.Color]
	if !ok {
		hex = cardColors["yellow"]
	}
	return render.Hex(hex)
}

// Draw renders the card into rect: border, chart, headline and caption
func (c Card) Draw(buf *render.RenderBuffer, rect render.Rect) {
	if rect.W < 8 || rect.H < 5 {
		return
	}
	accent := c.Accent()
	buf.Fill(rect, ' ', render.StyleBase)
	buf.Box(rect, c.Label, render.StyleBase.Foreground(accent))

	inner := rect.Inset(1)
	caption := render.Wrap(c.Caption, inner.W)
	if len(caption) > 2 {
		caption = caption[:2]
	}
	if inner.H < len(caption)+4 {
		caption = nil
	}

	plot := render.Rect{X: inner.X, Y: inner.Y, W: inner.W, H: inner.H - 1 - len(caption)}
	switch c.Kind {
	case KindBar:
		DrawBar(buf, plot, c.Data, accent)
	default:
		DrawDonut(buf, plot, c.Data)
	}

	row := plot.Y + plot.H
	buf.SetString(render.CenterX(inner, c.Percentage), row, c.Percentage, render.StyleBase.Foreground(accent).Bold(true), inner.W)
	for i, line := range caption {
		buf.SetString(inner.X, row+1+i, line, render.StyleMuted, inner.W)
	}
}
