package geo

import (
	"errors"
	"math"
)

// EarthRadiusKm is the mean earth radius used for surface distances
const EarthRadiusKm = 6371.0

// ErrInvalidCoordinates is returned when a coordinate is non-finite or out of range
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// LonLat is a geographic coordinate in degrees
type LonLat struct {
	Lon float64 `json:"lon" csv:"lon"`
	Lat float64 `json:"lat" csv:"lat"`
}

// Valid reports whether both components are finite
// Latitude outside [-90, 90] still projects (it wraps over the pole), only NaN/Inf are rejected
func (c LonLat) Valid() bool {
	return finite(c.Lon) && finite(c.Lat)
}

// Validate returns ErrInvalidCoordinates for non-finite or out-of-range coordinates
func (c LonLat) Validate() error {
	if !c.Valid() || c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// Distance returns the great-circle angular distance between two coordinates in radians
func Distance(a, b LonLat) float64 {
	lambda0, phi0 := a.Lon*deg2rad, a.Lat*deg2rad
	lambda1, phi1 := b.Lon*deg2rad, b.Lat*deg2rad

	sinPhi0, cosPhi0 := math.Sin(phi0), math.Cos(phi0)
	sinPhi1, cosPhi1 := math.Sin(phi1), math.Cos(phi1)
	delta := lambda1 - lambda0
	sinDelta, cosDelta := math.Sin(delta), math.Cos(delta)

	x := cosPhi1 * sinDelta
	y := cosPhi0*sinPhi1 - sinPhi0*cosPhi1*cosDelta
	z := sinPhi0*sinPhi1 + cosPhi0*cosPhi1*cosDelta

	return math.Atan2(math.Sqrt(x*x+y*y), z)
}

// HaversineKm returns the surface distance between two coordinates in kilometres
func HaversineKm(a, b LonLat) float64 {
	dLat := (b.Lat - a.Lat) * deg2rad
	dLon := (b.Lon - a.Lon) * deg2rad

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(a.Lat*deg2rad)*math.Cos(b.Lat*deg2rad)*math.Pow(math.Sin(dLon/2), 2)

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// MoveTowards steps from a toward b by step degrees in plain lat/lon space
// Returns b when closer than one step
func MoveTowards(a, b LonLat, step float64) LonLat {
	dLat := b.Lat - a.Lat
	dLon := b.Lon - a.Lon
	dist := math.Sqrt(dLat*dLat + dLon*dLon)
	if dist < step {
		return b
	}
	ratio := step / dist
	return LonLat{Lon: a.Lon + dLon*ratio, Lat: a.Lat + dLat*ratio}
}

// Interpolate returns the point at fraction t along the great circle from a to b
func Interpolate(a, b LonLat, t float64) LonLat {
	d := Distance(a, b)
	if d == 0 {
		return a
	}
	sinD := math.Sin(d)
	if sinD == 0 {
		// Antipodal, the great circle is undefined; fall back to a straight blend
		return LonLat{Lon: a.Lon + (b.Lon-a.Lon)*t, Lat: a.Lat + (b.Lat-a.Lat)*t}
	}

	ka := math.Sin((1-t)*d) / sinD
	kb := math.Sin(t*d) / sinD

	lambda0, phi0 := a.Lon*deg2rad, a.Lat*deg2rad
	lambda1, phi1 := b.Lon*deg2rad, b.Lat*deg2rad

	x := ka*math.Cos(phi0)*math.Cos(lambda0) + kb*math.Cos(phi1)*math.Cos(lambda1)
	y := ka*math.Cos(phi0)*math.Sin(lambda0) + kb*math.Cos(phi1)*math.Sin(lambda1)
	z := ka*math.Sin(phi0) + kb*math.Sin(phi1)

	return LonLat{
		Lon: math.Atan2(y, x) * rad2deg,
		Lat: math.Atan2(z, math.Sqrt(x*x+y*y)) * rad2deg,
	}
}
