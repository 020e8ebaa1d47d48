package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// RenderBuffer is a cell compositor with touched tracking, flushed to a tcell screen once per frame
type RenderBuffer struct {
	cells   []Cell
	touched []bool
	width   int
	height  int
	base    tcell.Style
}

// NewRenderBuffer creates a buffer with the specified dimensions
func NewRenderBuffer(width, height int) *RenderBuffer {
	b := &RenderBuffer{base: StyleBase}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *RenderBuffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
		b.touched = make([]bool, size)
	} else {
		b.cells = b.cells[:size]
		b.touched = b.touched[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Clear resets all cells to blank using exponential copy
func (b *RenderBuffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{Rune: ' ', Style: b.base}
	b.touched[0] = false
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
	for filled := 1; filled < len(b.touched); filled *= 2 {
		copy(b.touched[filled:], b.touched[:filled])
	}
}

// Bounds returns the buffer dimensions in cells
func (b *RenderBuffer) Bounds() (int, int) {
	return b.width, b.height
}

func (b *RenderBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set writes a rune with style, ignored outside the buffer
func (b *RenderBuffer) Set(x, y int, r rune, style tcell.Style) {
	if !b.inBounds(x, y) {
		return
	}
	idx := y*b.width + x
	b.cells[idx] = Cell{Rune: r, Style: style}
	b.touched[idx] = true
}

// Get returns the cell at (x, y), a blank cell outside the buffer
func (b *RenderBuffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return Cell{Rune: ' ', Style: b.base}
	}
	return b.cells[y*b.width+x]
}

// SetString writes text starting at (x, y) clipped to maxWidth columns (<= 0 means to the buffer edge)
// Returns the number of columns consumed
func (b *RenderBuffer) SetString(x, y int, s string, style tcell.Style, maxWidth int) int {
	if maxWidth <= 0 || x+maxWidth > b.width {
		maxWidth = b.width - x
	}
	if maxWidth <= 0 || y < 0 || y >= b.height {
		return 0
	}
	if runewidth.StringWidth(s) > maxWidth {
		s = runewidth.Truncate(s, maxWidth, "…")
	}

	col := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > maxWidth {
			break
		}
		b.Set(x+col, y, r, style)
		// Wide runes occupy a continuation cell that tcell skips
		for i := 1; i < w; i++ {
			b.Set(x+col+i, y, 0, style)
		}
		col += w
	}
	return col
}

// Fill paints every cell of the rect with r and style
func (b *RenderBuffer) Fill(rect Rect, r rune, style tcell.Style) {
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			b.Set(x, y, r, style)
		}
	}
}

// Box draws a single-line border around rect with an optional title
func (b *RenderBuffer) Box(rect Rect, title string, style tcell.Style) {
	if rect.W < 2 || rect.H < 2 {
		return
	}
	x0, y0 := rect.X, rect.Y
	x1, y1 := rect.X+rect.W-1, rect.Y+rect.H-1
	for x := x0 + 1; x < x1; x++ {
		b.Set(x, y0, tcell.RuneHLine, style)
		b.Set(x, y1, tcell.RuneHLine, style)
	}
	for y := y0 + 1; y < y1; y++ {
		b.Set(x0, y, tcell.RuneVLine, style)
		b.Set(x1, y, tcell.RuneVLine, style)
	}
	b.Set(x0, y0, tcell.RuneULCorner, style)
	b.Set(x1, y0, tcell.RuneURCorner, style)
	b.Set(x0, y1, tcell.RuneLLCorner, style)
	b.Set(x1, y1, tcell.RuneLRCorner, style)

	if title != "" && rect.W > 4 {
		b.SetString(x0+2, y0, " "+title+" ", style.Bold(true), rect.W-4)
	}
}

// SetBraille merges braille dot bits into the cell, replacing any non-braille content
// The foreground of a merged cell takes fg
func (b *RenderBuffer) SetBraille(x, y int, bits uint8, fg tcell.Color) {
	if !b.inBounds(x, y) || bits == 0 {
		return
	}
	idx := y*b.width + x
	dst := &b.cells[idx]
	if dst.Rune >= BrailleBase && dst.Rune <= BrailleBase+0xFF {
		bits |= uint8(dst.Rune - BrailleBase)
	}
	dst.Rune = BrailleBase + rune(bits)
	dst.Style = dst.Style.Foreground(fg)
	b.touched[idx] = true
}

// FlushToScreen writes the buffer to a tcell screen, untouched cells get the base style
func (b *RenderBuffer) FlushToScreen(screen tcell.Screen) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			idx := y*b.width + x
			c := b.cells[idx]
			if c.Rune == 0 {
				continue
			}
			style := c.Style
			if !b.touched[idx] {
				style = b.base
			}
			screen.SetContent(x, y, c.Rune, nil, style)
		}
	}
}

// Text renders the buffer as plain lines with trailing blanks trimmed
func (b *RenderBuffer) Text() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		var line strings.Builder
		for x := 0; x < b.width; x++ {
			r := b.cells[y*b.width+x].Rune
			if r == 0 {
				continue
			}
			line.WriteRune(r)
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
