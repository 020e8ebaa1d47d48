package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestHex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  tcell.Color
	}{
		{"On time green", "#22c55e", tcell.NewRGBColor(0x22, 0xc5, 0x5e)},
		{"Delayed red", "#ef4444", tcell.NewRGBColor(0xef, 0x44, 0x44)},
		{"Malformed", "not-a-color", RgbMuted},
		{"Empty", "", RgbMuted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Hex(tt.input))
		})
	}
}

func TestBlendEndpoints(t *testing.T) {
	a := tcell.NewRGBColor(10, 20, 30)
	b := tcell.NewRGBColor(200, 100, 50)

	assert.Equal(t, a, Blend(a, b, 0))
	assert.Equal(t, a, Blend(a, b, -1))
	assert.Equal(t, b, Blend(a, b, 1))
	assert.Equal(t, b, Blend(a, b, 2))

	mid := Blend(a, b, 0.5)
	assert.NotEqual(t, a, mid)
	assert.NotEqual(t, b, mid)
}

func TestDim(t *testing.T) {
	assert.Equal(t, RgbBackground, Dim(RgbLand, 0))
	assert.Equal(t, RgbLand, Dim(RgbLand, 1))
}
