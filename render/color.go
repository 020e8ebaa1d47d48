package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Dashboard palette
var (
	RgbBackground = tcell.NewRGBColor(11, 17, 32)    // deep navy
	RgbPanel      = tcell.NewRGBColor(17, 24, 39)    // panel fill
	RgbBorder     = tcell.NewRGBColor(55, 65, 81)    // pane borders
	RgbText       = tcell.NewRGBColor(229, 231, 235) // primary text
	RgbMuted      = tcell.NewRGBColor(156, 163, 175) // secondary text
	RgbAccent     = tcell.NewRGBColor(56, 189, 248)  // sky accent
	RgbHighlight  = tcell.NewRGBColor(250, 204, 21)  // insight flash
	RgbGraticule  = tcell.NewRGBColor(30, 58, 95)    // grid lines
	RgbLand       = tcell.NewRGBColor(52, 211, 153)  // coastlines
	RgbOutline    = tcell.NewRGBColor(255, 255, 255) // marker outline
	RgbDanger     = tcell.NewRGBColor(239, 68, 68)   // errors, full slots
)

// Base styles
var (
	StyleBase   = tcell.StyleDefault.Background(RgbBackground).Foreground(RgbText)
	StyleMuted  = StyleBase.Foreground(RgbMuted)
	StyleBorder = StyleBase.Foreground(RgbBorder)
	StyleAccent = StyleBase.Foreground(RgbAccent)
)

// Hex parses a #rrggbb color, falling back to the muted gray on malformed input
func Hex(s string) tcell.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return RgbMuted
	}
	return FromColorful(c)
}

// FromColorful converts a colorful color to a tcell RGB color
func FromColorful(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// ToColorful converts a tcell color to a colorful color
func ToColorful(c tcell.Color) colorful.Color {
	r, g, b := c.RGB()
	if r < 0 {
		return colorful.Color{}
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Blend mixes a toward b by t in Lab space, t clamped to [0, 1]
func Blend(a, b tcell.Color, t float64) tcell.Color {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return FromColorful(ToColorful(a).BlendLab(ToColorful(b), t))
}

// Dim fades c toward the background by 1-factor
func Dim(c tcell.Color, factor float64) tcell.Color {
	return Blend(RgbBackground, c, factor)
}
