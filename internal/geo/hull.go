package geo

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ConvexHullResult holds the hull boundary in geographic coordinates and
// its equal-area surface in km². Degenerate hulls (all points collinear or
// coincident) are valid results with zero area.
type ConvexHullResult struct {
	Boundary orb.Ring `json:"boundary"`
	AreaKm2  float64  `json:"area_km2"`
}

// ConvexHull computes the convex hull of a geographic point set. The hull
// is built in equal-area coordinates with Andrew's monotone chain, its area
// measured there, and the boundary reprojected to degrees for output.
// Fewer than 3 input points is not computable: ok is false and callers
// treat the query as having an empty answer, not an error.
func ConvexHull(points []orb.Point) (ConvexHullResult, bool) {
	if len(points) < 3 {
		return ConvexHullResult{}, false
	}

	projected := projectPoints(points, ToEqualArea)
	hull := monotoneChain(projected)

	// Close the ring. Collinear inputs leave 2 hull vertices and coincident
	// inputs 1; both close into a zero-area ring without special-casing.
	ring := make(orb.Ring, 0, len(hull)+1)
	ring = append(ring, hull...)
	ring = append(ring, hull[0])

	areaKm2 := math.Abs(planar.Area(orb.Polygon{ring})) / 1e6

	return ConvexHullResult{
		Boundary: projectRing(ring, ToGeographic),
		AreaKm2:  areaKm2,
	}, true
}

// monotoneChain returns hull vertices in counter-clockwise order without
// the closing point. O(n log n); duplicate input points are collapsed
// during the sort pass.
func monotoneChain(pts []orb.Point) []orb.Point {
	sorted := make([]orb.Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		return sorted[i][1] < sorted[j][1]
	})

	unique := sorted[:0]
	for i, p := range sorted {
		if i == 0 || p != sorted[i-1] {
			unique = append(unique, p)
		}
	}
	if len(unique) == 1 {
		return unique
	}

	var lower []orb.Point
	for _, p := range unique {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []orb.Point
	for i := len(unique) - 1; i >= 0; i-- {
		p := unique[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// cross is the z component of (b-a)×(c-a); positive for a left turn.
func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}
