package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestProjectionRoundTrip(t *testing.T) {
	points := []orb.Point{
		{0, 0},
		{-122.45, 38.51},
		{179.999, 89.5},
		{-179.999, -89.5},
		{13.4, 52.52},
		{151.21, -33.87},
	}

	for _, p := range points {
		back := ToGeographic(ToEqualArea(p))
		assert.InDelta(t, p[0], back[0], 1e-6, "longitude for %v", p)
		assert.InDelta(t, p[1], back[1], 1e-6, "latitude for %v", p)
	}
}

func TestToEqualArea(t *testing.T) {
	t.Run("origin maps to origin", func(t *testing.T) {
		assert.Equal(t, orb.Point{0, 0}, ToEqualArea(orb.Point{0, 0}))
	})

	t.Run("poles map to extreme y", func(t *testing.T) {
		north := ToEqualArea(orb.Point{0, 90})
		assert.InDelta(t, earthRadius, north[1], 1e-3)

		south := ToEqualArea(orb.Point{0, -90})
		assert.InDelta(t, -earthRadius, south[1], 1e-3)
	})

	t.Run("x depends only on longitude", func(t *testing.T) {
		a := ToEqualArea(orb.Point{45, 0})
		b := ToEqualArea(orb.Point{45, 60})
		assert.Equal(t, a[0], b[0])
	})

	t.Run("y compresses toward the poles", func(t *testing.T) {
		low := ToEqualArea(orb.Point{0, 30})
		high := ToEqualArea(orb.Point{0, 60})
		// Equal-area projections squeeze equal latitude steps as sin(lat).
		assert.Less(t, high[1]-low[1], low[1])
	})
}

func TestToGeographic_ClampsPoles(t *testing.T) {
	// Feed a y value slightly past the pole, as float drift can produce.
	p := ToGeographic(orb.Point{0, earthRadius * (1 + 1e-12)})
	assert.False(t, math.IsNaN(p[1]))
	assert.InDelta(t, 90, p[1], 1e-6)
}
