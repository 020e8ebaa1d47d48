package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Wrap breaks s into lines of at most width columns on word boundaries
// Words wider than width are hard-truncated
func Wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var line strings.Builder
	col := 0
	for _, word := range strings.Fields(s) {
		w := runewidth.StringWidth(word)
		if w > width {
			word = runewidth.Truncate(word, width, "…")
			w = runewidth.StringWidth(word)
		}
		switch {
		case col == 0:
		case col+1+w <= width:
			line.WriteByte(' ')
			col++
		default:
			lines = append(lines, line.String())
			line.Reset()
			col = 0
		}
		line.WriteString(word)
		col += w
	}
	if col > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// CenterX returns the column at which s is centered within rect, clamped to the rect
func CenterX(rect Rect, s string) int {
	x := rect.X + (rect.W-runewidth.StringWidth(s))/2
	if x < rect.X {
		return rect.X
	}
	return x
}

// Tooltip draws lines in a filled box beside the cell (x, y), flipped and shifted to stay inside bounds
// The first line is bold
func Tooltip(buf *RenderBuffer, bounds Rect, x, y int, lines []string) {
	if len(lines) == 0 || bounds.Empty() {
		return
	}
	w := 0
	for _, l := range lines {
		w = max(w, runewidth.StringWidth(l))
	}
	box := Rect{X: x + 2, Y: y - 1, W: min(w+4, bounds.W), H: min(len(lines)+2, bounds.H)}
	if right := bounds.X + bounds.W; box.X+box.W > right {
		box.X = max(bounds.X, x-box.W-1)
	}
	if bottom := bounds.Y + bounds.H; box.Y+box.H > bottom {
		box.Y = bottom - box.H
	}
	box.Y = max(box.Y, bounds.Y)

	bg := StyleBase.Background(RgbPanel)
	buf.Fill(box, ' ', bg)
	buf.Box(box, "", bg.Foreground(RgbBorder))
	for i, l := range lines {
		if i >= box.H-2 {
			break
		}
		style := bg
		if i == 0 {
			style = style.Bold(true)
		}
		buf.SetString(box.X+2, box.Y+1+i, l, style, box.W-4)
	}
}
