package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// BrailleBase is the first rune of the Unicode braille block
const BrailleBase rune = 0x2800

// Braille dot resolution per terminal cell
const (
	DotsPerCellX = 2
	DotsPerCellY = 4
)

// brailleBits maps a dot's (x, y) offset inside its cell to the braille bit
var brailleBits = [DotsPerCellY][DotsPerCellX]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type canvasCell struct {
	bits  uint8
	color tcell.Color
}

// Canvas is a braille drawing surface addressed in dots, 2x4 dots per terminal cell
type Canvas struct {
	cells  []canvasCell
	width  int // cells
	height int // cells
}

// NewCanvas creates a canvas covering width x height terminal cells
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize changes the canvas size in cells and clears it
func (c *Canvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(c.cells) < size {
		c.cells = make([]canvasCell, size)
	} else {
		c.cells = c.cells[:size]
	}
	c.width, c.height = width, height
	c.Clear()
}

// Clear removes every dot
func (c *Canvas) Clear() {
	clear(c.cells)
}

// Cells returns the canvas size in terminal cells
func (c *Canvas) Cells() (int, int) {
	return c.width, c.height
}

// Dots returns the canvas size in dots
func (c *Canvas) Dots() (int, int) {
	return c.width * DotsPerCellX, c.height * DotsPerCellY
}

// SetDot lights the dot at (x, y) and gives its cell the color
func (c *Canvas) SetDot(x, y int, color tcell.Color) {
	c.plot(x, y, color, true)
}

// SetDotUnder lights the dot but keeps any color already assigned to its cell
func (c *Canvas) SetDotUnder(x, y int, color tcell.Color) {
	c.plot(x, y, color, false)
}

func (c *Canvas) plot(x, y int, color tcell.Color, override bool) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/DotsPerCellX, y/DotsPerCellY
	if cx >= c.width || cy >= c.height {
		return
	}
	cell := &c.cells[cy*c.width+cx]
	cell.bits |= brailleBits[y%DotsPerCellY][x%DotsPerCellX]
	if override || cell.color == tcell.ColorDefault {
		cell.color = color
	}
}

// Dot reports whether the dot at (x, y) is lit
func (c *Canvas) Dot(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	cx, cy := x/DotsPerCellX, y/DotsPerCellY
	if cx >= c.width || cy >= c.height {
		return false
	}
	return c.cells[cy*c.width+cx].bits&brailleBits[y%DotsPerCellY][x%DotsPerCellX] != 0
}

// CellAt returns the braille bits and color of a terminal cell
func (c *Canvas) CellAt(cx, cy int) (uint8, tcell.Color) {
	if cx < 0 || cy < 0 || cx >= c.width || cy >= c.height {
		return 0, tcell.ColorDefault
	}
	cell := c.cells[cy*c.width+cx]
	return cell.bits, cell.color
}

// Line draws a Bresenham line between two dots
func (c *Canvas) Line(x0, y0, x1, y1 int, color tcell.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.SetDot(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// FillCircle lights every dot within radius r of (cx, cy)
func (c *Canvas) FillCircle(cx, cy, r float64, color tcell.Color) {
	if r <= 0 {
		c.SetDot(int(math.Round(cx)), int(math.Round(cy)), color)
		return
	}
	r2 := r * r
	for y := int(math.Floor(cy - r)); y <= int(math.Ceil(cy+r)); y++ {
		for x := int(math.Floor(cx - r)); x <= int(math.Ceil(cx+r)); x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= r2 {
				c.SetDot(x, y, color)
			}
		}
	}
}

// StrokeCircle draws a one-dot ring of radius r, only coloring cells that carry no color yet
func (c *Canvas) StrokeCircle(cx, cy, r float64, color tcell.Color) {
	if r <= 0 {
		return
	}
	steps := int(math.Ceil(2 * math.Pi * r * 2))
	if steps < 8 {
		steps = 8
	}
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.SetDotUnder(int(math.Round(cx+r*math.Cos(a))), int(math.Round(cy+r*math.Sin(a))), color)
	}
}

// Blit composites the canvas onto buf with its top-left cell at (originX, originY)
func (c *Canvas) Blit(buf *RenderBuffer, originX, originY int) {
	for cy := 0; cy < c.height; cy++ {
		for cx := 0; cx < c.width; cx++ {
			cell := c.cells[cy*c.width+cx]
			if cell.bits == 0 {
				continue
			}
			buf.SetBraille(originX+cx, originY+cy, cell.bits, cell.color)
		}
	}
}

// CellToDot maps a terminal cell to the dot at its visual center
func CellToDot(cx, cy int) (int, int) {
	return cx*DotsPerCellX + 1, cy*DotsPerCellY + 2
}

// DotToCell maps a dot to the terminal cell containing it
func DotToCell(x, y int) (int, int) {
	return floorDiv(x, DotsPerCellX), floorDiv(y, DotsPerCellY)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
