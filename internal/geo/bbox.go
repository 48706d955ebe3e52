package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/pyrewatch/hotspot-analytics/internal/domain"
)

// bboxStepDegrees is the densification interval for bounding-box edges
// before projection. The cylindrical equal-area projection maps meridians
// and parallels to straight lines, so this is exact regardless of step;
// densifying keeps the area correct if the projection is ever swapped for
// one with curved graticules.
const bboxStepDegrees = 1.0

// BoundingBoxArea returns the equal-area surface of a geographic bounding
// box in km². Degenerate boxes (zero width or height) return 0.
func BoundingBoxArea(b domain.BoundingBox) float64 {
	if b.West == b.East || b.South == b.North {
		return 0
	}

	ring := densifiedBoxRing(b, bboxStepDegrees)
	projected := projectRing(ring, ToEqualArea)
	return math.Abs(planar.Area(orb.Polygon{projected})) / 1e6
}

// densifiedBoxRing walks the box perimeter counter-clockwise, sampling each
// edge at most every step degrees, and closes the ring.
func densifiedBoxRing(b domain.BoundingBox, step float64) orb.Ring {
	var ring orb.Ring

	for _, edge := range []struct {
		from, to orb.Point
	}{
		{orb.Point{b.West, b.South}, orb.Point{b.East, b.South}},
		{orb.Point{b.East, b.South}, orb.Point{b.East, b.North}},
		{orb.Point{b.East, b.North}, orb.Point{b.West, b.North}},
		{orb.Point{b.West, b.North}, orb.Point{b.West, b.South}},
	} {
		ring = append(ring, sampleEdge(edge.from, edge.to, step)...)
	}

	ring = append(ring, orb.Point{b.West, b.South})
	return ring
}

// sampleEdge returns points from a (inclusive) toward b (exclusive) spaced
// at most step degrees apart.
func sampleEdge(a, b orb.Point, step float64) []orb.Point {
	length := math.Hypot(b[0]-a[0], b[1]-a[1])
	n := int(math.Ceil(length / step))
	if n < 1 {
		n = 1
	}

	pts := make([]orb.Point, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		pts = append(pts, orb.Point{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t})
	}
	return pts
}
