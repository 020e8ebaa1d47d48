package chart

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/fleetview/render"
)

// Spectral ramp from red through yellow to blue
var spectral = []string{
	"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b", "#ffffbf",
	"#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2",
}

const (
	innerRatio = 0.6
	labelRatio = 0.8
	minLabel   = 5 // percent below which arcs are unlabelled
)

// Arc is one slice of the donut, angles in radians clockwise from 12 o'clock
type Arc struct {
	Index   int
	Value   float64
	Start   float64
	End     float64
	Percent int
}

// Mid returns the bisecting angle of the arc
func (a Arc) Mid() float64 {
	return (a.Start + a.End) / 2
}

// Pie splits the full circle proportionally to data in input order
// Returns nil when the total is not positive
func Pie(data []float64) []Arc {
	total := Total(data)
	if !(total > 0) {
		return nil
	}
	arcs := make([]Arc, len(data))
	angle := 0.0
	for i, v := range data {
		if v < 0 {
			v = 0
		}
		span := v / total * 2 * math.Pi
		arcs[i] = Arc{
			Index:   i,
			Value:   v,
			Start:   angle,
			End:     angle + span,
			Percent: int(math.Round(v / total * 100)),
		}
		angle += span
	}
	return arcs
}

// Total sums the non-negative values
func Total(data []float64) float64 {
	sum := 0.0
	for _, v := range data {
		if v > 0 {
			sum += v
		}
	}
	return sum
}

// Spectral returns the ramp color at t in [0, 1]
func Spectral(t float64) tcell.Color {
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(spectral)-1)
	i := int(pos)
	if i >= len(spectral)-1 {
		return render.Hex(spectral[len(spectral)-1])
	}
	a, _ := colorful.Hex(spectral[i])
	b, _ := colorful.Hex(spectral[i+1])
	return render.FromColorful(a.BlendLab(b, pos-float64(i)))
}

// Palette returns n colors evenly spaced over the inner 80% of the ramp
func Palette(n int) []tcell.Color {
	out := make([]tcell.Color, n)
	for i := range out {
		t := 0.5
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = Spectral(t*0.8 + 0.1)
	}
	return out
}

// DrawDonut renders a braille ring split into arcs with the total in the center
func DrawDonut(buf *render.RenderBuffer, rect render.Rect, data []float64) {
	arcs := Pie(data)
	if len(arcs) == 0 || rect.W < 4 || rect.H < 3 {
		return
	}
	colors := Palette(len(arcs))

	canvas := render.NewCanvas(rect.W, rect.H)
	dw, dh := canvas.Dots()
	cx, cy := float64(dw)/2, float64(dh)/2
	outer := math.Min(cx, cy) - 1
	inner := outer * innerRatio

	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			r := math.Hypot(dx, dy)
			if r < inner || r > outer {
				continue
			}
			if a, ok := arcAt(arcs, math.Atan2(dx, -dy)); ok {
				canvas.SetDot(x, y, colors[a.Index])
			}
		}
	}
	canvas.Blit(buf, rect.X, rect.Y)

	for _, a := range arcs {
		if a.Percent <= minLabel {
			continue
		}
		lr := outer * labelRatio
		lx := cx + lr*math.Sin(a.Mid())
		ly := cy - lr*math.Cos(a.Mid())
		col, row := render.DotToCell(int(lx), int(ly))
		label := fmt.Sprintf("%d%%", a.Percent)
		buf.SetString(rect.X+col-len(label)/2, rect.Y+row, label, render.StyleBase, 0)
	}

	mid := rect.Y + rect.H/2
	total := fmt.Sprintf("%g", Total(data))
	buf.SetString(render.CenterX(rect, total), mid-1, total, render.StyleBase.Bold(true), rect.W)
	buf.SetString(render.CenterX(rect, "Total"), mid, "Total", render.StyleMuted, rect.W)
}

// arcAt finds the arc covering angle, normalized to [0, 2pi)
func arcAt(arcs []Arc, angle float64) (Arc, bool) {
	if angle < 0 {
		angle += 2 * math.Pi
	}
	for _, a := range arcs {
		if angle >= a.Start && angle < a.End {
			return a, true
		}
	}
	return Arc{}, false
}
