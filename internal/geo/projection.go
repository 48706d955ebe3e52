// Package geo provides the equal-area projection and planar geometry used
// by the analytics layer. All area math happens in projected meters so
// results are not distorted by latitude.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// earthRadius is the WGS-84 authalic sphere radius in meters. Using the
// authalic radius keeps areas computed on the sphere consistent with the
// ellipsoidal surface area.
const earthRadius = 6371007.1809

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// ToEqualArea projects a geographic point (degrees) to Lambert cylindrical
// equal-area coordinates (meters), reference meridian 0°, standard
// parallel at the equator: x = Rλ, y = R·sin φ.
func ToEqualArea(p orb.Point) orb.Point {
	return orb.Point{
		earthRadius * p[0] * degToRad,
		earthRadius * math.Sin(p[1]*degToRad),
	}
}

// ToGeographic is the inverse of ToEqualArea. The sine argument is clamped
// so floating-point drift at the poles cannot produce NaN.
func ToGeographic(p orb.Point) orb.Point {
	sinLat := p[1] / earthRadius
	if sinLat > 1 {
		sinLat = 1
	} else if sinLat < -1 {
		sinLat = -1
	}
	return orb.Point{
		p[0] / earthRadius * radToDeg,
		math.Asin(sinLat) * radToDeg,
	}
}

// projectRing applies a point projection to every ring vertex.
func projectRing(r orb.Ring, proj func(orb.Point) orb.Point) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, p := range r {
		out[i] = proj(p)
	}
	return out
}

// projectPoints applies a point projection to a point slice.
func projectPoints(pts []orb.Point, proj func(orb.Point) orb.Point) []orb.Point {
	out := make([]orb.Point, len(pts))
	for i, p := range pts {
		out[i] = proj(p)
	}
	return out
}
