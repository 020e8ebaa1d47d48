package chart

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/fleetview/render"
)

// Eighth-block glyphs for partial bar tops, index n is n/8 of a cell
var blocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

const gridTicks = 4

// Domain returns the upper bound of the value axis: the data maximum, or 100 when there is none
func Domain(data []float64) float64 {
	hi := 0.0
	for _, v := range data {
		if v > hi {
			hi = v
		}
	}
	if hi <= 0 {
		return 100
	}
	return hi
}

// Ticks returns about count round values spanning [0, hi]
func Ticks(hi float64, count int) []float64 {
	if !(hi > 0) || count <= 0 {
		return nil
	}
	step := tickStep(hi, count)
	n := int(math.Floor(hi/step + 1e-9))
	out := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, float64(i)*step)
	}
	return out
}

// tickStep picks 1, 2, 5 or 10 times a power of ten closest to span/count
func tickStep(span float64, count int) float64 {
	raw := span / float64(count)
	power := math.Floor(math.Log10(raw))
	base := math.Pow(10, power)
	switch e := raw / base; {
	case e >= math.Sqrt(50):
		return 10 * base
	case e >= math.Sqrt(10):
		return 5 * base
	case e >= math.Sqrt(2):
		return 2 * base
	default:
		return base
	}
}

// BarHeights scales data to heights in eighths of a cell for a plot of rows cells
func BarHeights(data []float64, rows int) []int {
	units := rows * 8
	domain := Domain(data)
	out := make([]int, len(data))
	for i, v := range data {
		h := int(math.Round(v / domain * float64(units)))
		if h < 0 {
			h = 0
		}
		if h > units {
			h = units
		}
		out[i] = h
	}
	return out
}

// DrawBar renders columns with a dashed grid and percentage labels
// The top row of rect is reserved for labels
func DrawBar(buf *render.RenderBuffer, rect render.Rect, data []float64, color tcell.Color) {
	if rect.W < 2 || rect.H < 3 {
		return
	}
	rows := rect.H - 1
	bottom := rect.Y + rect.H - 1
	domain := Domain(data)
	grid := render.StyleBase.Foreground(render.RgbBorder)

	for _, t := range Ticks(domain, gridTicks) {
		y := bottom - int(math.Round(t/domain*float64(rows-1)))
		for x := rect.X; x < rect.X+rect.W; x += 2 {
			buf.Set(x, y, '╌', grid)
		}
	}

	if len(data) == 0 {
		return
	}
	band := rect.W / len(data)
	if band < 1 {
		band = 1
	}
	width := band
	if band > 2 {
		width = band - 1
	}

	style := render.StyleBase.Foreground(color)
	for i, h := range BarHeights(data, rows) {
		x0 := rect.X + i*band
		if x0+width > rect.X+rect.W {
			break
		}
		full, part := h/8, h%8
		for dx := 0; dx < width; dx++ {
			for r := 0; r < full; r++ {
				buf.Set(x0+dx, bottom-r, blocks[8], style)
			}
			if part > 0 {
				buf.Set(x0+dx, bottom-full, blocks[part], style)
			}
		}

		label := fmt.Sprintf("%d%%", int(math.Round(data[i])))
		top := bottom - (h+7)/8
		if top < rect.Y {
			top = rect.Y
		}
		lx := x0 + (width-len(label))/2
		if lx < x0 {
			lx = x0
		}
		buf.SetString(lx, top, label, render.StyleBase, band)
	}
}
