package geo

import (
	"math"
)

// FarSideThreshold is the geodesic distance in radians from the view center beyond which a point is on the far
// hemisphere. Slightly below pi/2 so limb points do not flicker
const FarSideThreshold = 1.57

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// Point is a screen coordinate in drawing-surface units (braille dots in the terminal)
type Point struct {
	X, Y float64
}

// Rotation is a three-axis sphere rotation in degrees
// Yaw spins around the polar axis, Pitch tilts toward the viewer, Roll spins around the view axis
type Rotation struct {
	Yaw, Pitch, Roll float64
}

// Projected is the result of projecting a single coordinate
type Projected struct {
	X, Y  float64
	Depth float64 // z toward the viewer: 1 at view center, 0 on the limb, -1 antipodal
	// Visible is false for far-side points and for coordinates that cannot be projected
	Visible bool
}

// Projector is an orthographic sphere projection, immutable once built
type Projector struct {
	Rotation Rotation
	Scale    float64
	Center   Point
}

// NewProjector builds a projector for the given rotation, radius and screen center
func NewProjector(rot Rotation, scale float64, center Point) Projector {
	return Projector{Rotation: rot, Scale: scale, Center: center}
}

// Project maps a coordinate onto the screen and tests far-side visibility
func (p Projector) Project(pos LonLat) Projected {
	if !pos.Valid() || !finite(p.Scale) {
		return Projected{}
	}

	lambda, phi := p.rotate(pos.Lon*deg2rad, pos.Lat*deg2rad)
	cosPhi := math.Cos(phi)
	x := cosPhi * math.Sin(lambda)
	y := math.Sin(phi)
	z := cosPhi * math.Cos(lambda)

	out := Projected{
		X:     p.Center.X + p.Scale*x,
		Y:     p.Center.Y - p.Scale*y,
		Depth: z,
	}
	if !finite(out.X) || !finite(out.Y) {
		return Projected{}
	}

	center, ok := p.Invert(p.Center)
	if !ok {
		return out
	}
	out.Visible = Distance(pos, center) <= FarSideThreshold
	return out
}

// Invert maps a screen point back onto the sphere
// Returns false for points outside the projected disc
func (p Projector) Invert(pt Point) (LonLat, bool) {
	if p.Scale == 0 {
		return LonLat{}, false
	}
	x := (pt.X - p.Center.X) / p.Scale
	y := (p.Center.Y - pt.Y) / p.Scale

	rho := math.Hypot(x, y)
	if rho > 1 || !finite(rho) {
		return LonLat{}, false
	}

	c := math.Asin(rho)
	sinC, cosC := math.Sin(c), math.Cos(c)
	lambda := math.Atan2(x*sinC, rho*cosC)
	phi := 0.0
	if rho != 0 {
		phi = math.Asin(y * sinC / rho)
	}

	lambda, phi = p.unrotate(lambda, phi)
	return LonLat{Lon: lambda * rad2deg, Lat: phi * rad2deg}, true
}

// ViewCenter returns the coordinate currently under the screen center
func (p Projector) ViewCenter() (LonLat, bool) {
	return p.Invert(p.Center)
}

// rotate applies yaw around the polar axis followed by pitch and roll, all in radians out
func (p Projector) rotate(lambda, phi float64) (float64, float64) {
	lambda = wrapPi(lambda + p.Rotation.Yaw*deg2rad)

	dPhi := p.Rotation.Pitch * deg2rad
	dGamma := p.Rotation.Roll * deg2rad
	if dPhi == 0 && dGamma == 0 {
		return lambda, phi
	}
	cosDPhi, sinDPhi := math.Cos(dPhi), math.Sin(dPhi)
	cosDGamma, sinDGamma := math.Cos(dGamma), math.Sin(dGamma)

	cosPhi := math.Cos(phi)
	x := math.Cos(lambda) * cosPhi
	y := math.Sin(lambda) * cosPhi
	z := math.Sin(phi)
	k := z*cosDPhi + x*sinDPhi

	return math.Atan2(y*cosDGamma-k*sinDGamma, x*cosDPhi-z*sinDPhi),
		math.Asin(clampUnit(k*cosDGamma + y*sinDGamma))
}

// unrotate is the inverse of rotate
func (p Projector) unrotate(lambda, phi float64) (float64, float64) {
	dPhi := p.Rotation.Pitch * deg2rad
	dGamma := p.Rotation.Roll * deg2rad
	if dPhi != 0 || dGamma != 0 {
		cosDPhi, sinDPhi := math.Cos(dPhi), math.Sin(dPhi)
		cosDGamma, sinDGamma := math.Cos(dGamma), math.Sin(dGamma)

		cosPhi := math.Cos(phi)
		x := math.Cos(lambda) * cosPhi
		y := math.Sin(lambda) * cosPhi
		z := math.Sin(phi)
		k := z*cosDGamma - y*sinDGamma

		lambda = math.Atan2(y*cosDGamma+z*sinDGamma, x*cosDPhi+k*sinDPhi)
		phi = math.Asin(clampUnit(k*cosDPhi - x*sinDPhi))
	}
	return wrapPi(lambda - p.Rotation.Yaw*deg2rad), phi
}

func wrapPi(a float64) float64 {
	if a > math.Pi || a < -math.Pi {
		a = math.Mod(a+math.Pi, 2*math.Pi)
		if a < 0 {
			a += 2 * math.Pi
		}
		a -= math.Pi
	}
	return a
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
