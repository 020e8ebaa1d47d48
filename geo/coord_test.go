package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b LonLat
		want float64
	}{
		{"Same point", LonLat{10, 10}, LonLat{10, 10}, 0},
		{"Quarter equator", LonLat{0, 0}, LonLat{90, 0}, math.Pi / 2},
		{"Antipodal", LonLat{0, 0}, LonLat{180, 0}, math.Pi},
		{"Pole to equator", LonLat{0, 90}, LonLat{45, 0}, math.Pi / 2},
		{"Across antimeridian", LonLat{179, 0}, LonLat{-179, 0}, 2 * deg2rad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Distance(tt.a, tt.b), 1e-9)
			assert.InDelta(t, Distance(tt.a, tt.b), Distance(tt.b, tt.a), 1e-12)
		})
	}
}

func TestHaversineKm(t *testing.T) {
	// One degree of latitude
	assert.InDelta(t, 111.195, HaversineKm(LonLat{0, 0}, LonLat{0, 1}), 0.01)
	assert.InDelta(t, 0, HaversineKm(LonLat{4.4, 51.9}, LonLat{4.4, 51.9}), 1e-9)

	// Shanghai to Singapore, roughly 3800 km
	d := HaversineKm(LonLat{121.47, 31.23}, LonLat{103.82, 1.35})
	assert.InDelta(t, 3800, d, 100)
}

func TestMoveTowards(t *testing.T) {
	tests := []struct {
		name string
		a, b LonLat
		step float64
		want LonLat
	}{
		{"Step along lon", LonLat{0, 0}, LonLat{1, 0}, 0.2, LonLat{0.2, 0}},
		{"Step along lat", LonLat{0, 0}, LonLat{0, -1}, 0.5, LonLat{0, -0.5}},
		{"Diagonal", LonLat{0, 0}, LonLat{3, 4}, 1, LonLat{0.6, 0.8}},
		{"Closer than a step", LonLat{0, 0}, LonLat{0.1, 0}, 0.2, LonLat{0.1, 0}},
		{"Already there", LonLat{5, 5}, LonLat{5, 5}, 0.2, LonLat{5, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoveTowards(tt.a, tt.b, tt.step)
			assert.InDelta(t, tt.want.Lon, got.Lon, 1e-9)
			assert.InDelta(t, tt.want.Lat, got.Lat, 1e-9)
		})
	}
}

func TestInterpolate(t *testing.T) {
	mid := Interpolate(LonLat{0, 0}, LonLat{90, 0}, 0.5)
	assert.InDelta(t, 45, mid.Lon, 1e-9)
	assert.InDelta(t, 0, mid.Lat, 1e-9)

	start := Interpolate(LonLat{10, 20}, LonLat{30, 40}, 0)
	assert.InDelta(t, 10, start.Lon, 1e-9)
	assert.InDelta(t, 20, start.Lat, 1e-9)

	end := Interpolate(LonLat{10, 20}, LonLat{30, 40}, 1)
	assert.InDelta(t, 30, end.Lon, 1e-9)
	assert.InDelta(t, 40, end.Lat, 1e-9)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		pos     LonLat
		wantErr bool
	}{
		{"Origin", LonLat{0, 0}, false},
		{"Corners", LonLat{180, -90}, false},
		{"Lat too high", LonLat{0, 91}, true},
		{"Lon too low", LonLat{-181, 0}, true},
		{"NaN", LonLat{math.NaN(), 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pos.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidCoordinates))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
