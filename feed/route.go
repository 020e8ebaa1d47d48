package feed

import (
	"fmt"
	"math"

	"github.com/wroge/wgs84"

	"github.com/lixenwraith/fleetview/geo"
)

// Router advances a position toward a destination by one step
type Router interface {
	Step(from, to geo.LonLat, step float64) geo.LonLat
}

// Routing names a Router implementation
type Routing string

const (
	RoutingLinear Routing = "linear"
	RoutingRhumb  Routing = "rhumb"
)

// NewRouter resolves a routing name, empty means linear
func NewRouter(name Routing) (Router, error) {
	switch name {
	case "", RoutingLinear:
		return LinearRouter{}, nil
	case RoutingRhumb:
		return NewRhumbRouter(), nil
	default:
		return nil, fmt.Errorf("unknown routing %q", name)
	}
}

// LinearRouter steps in plain lat/lon degrees
type LinearRouter struct{}

// Step moves step degrees toward to
func (LinearRouter) Step(from, to geo.LonLat, step float64) geo.LonLat {
	return geo.MoveTowards(from, to, step)
}

const (
	// Web Mercator world width in metres
	mercatorWorld = 2 * math.Pi * 6378137
	// Metres of Mercator x per degree of longitude
	mercatorPerDegree = mercatorWorld / 360
)

// RhumbRouter steps along the straight Web Mercator line, taking the short way across the antimeridian
type RhumbRouter struct {
	forward func(a, b, c float64) (float64, float64, float64)
	inverse func(a, b, c float64) (float64, float64, float64)
}

// NewRhumbRouter builds transforms between EPSG:4326 and EPSG:3857
func NewRhumbRouter() *RhumbRouter {
	epsg := wgs84.EPSG()
	return &RhumbRouter{
		forward: epsg.Transform(4326, 3857),
		inverse: epsg.Transform(3857, 4326),
	}
}

// Step moves step degrees-equivalent of Mercator distance toward to
func (r *RhumbRouter) Step(from, to geo.LonLat, step float64) geo.LonLat {
	x0, y0, _ := r.forward(from.Lon, clampMercatorLat(from.Lat), 0)
	x1, y1, _ := r.forward(to.Lon, clampMercatorLat(to.Lat), 0)

	dx := x1 - x0
	if dx > mercatorWorld/2 {
		dx -= mercatorWorld
	} else if dx < -mercatorWorld/2 {
		dx += mercatorWorld
	}
	dy := y1 - y0

	dist := math.Hypot(dx, dy)
	stepM := step * mercatorPerDegree
	if dist < stepM || dist == 0 {
		return to
	}

	ratio := stepM / dist
	lon, lat, _ := r.inverse(x0+dx*ratio, y0+dy*ratio, 0)
	return geo.LonLat{Lon: wrapLon(lon), Lat: lat}
}

// Web Mercator is undefined at the poles
func clampMercatorLat(lat float64) float64 {
	const limit = 85.05112878
	return math.Max(-limit, math.Min(limit, lat))
}

func wrapLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
