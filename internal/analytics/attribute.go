package analytics

import (
	"sort"

	"github.com/paulmach/orb/planar"

	"github.com/pyrewatch/hotspot-analytics/internal/domain"
)

const (
	// DefaultTopN is the aggregate list length when the caller does not ask
	// for one.
	DefaultTopN = 15
	// MaxTopN bounds how many aggregates a single query may request.
	MaxTopN = 50
)

// Attribution is the result of joining hotspot points against region
// boundaries. Total counts every point in the batch, matched or not.
type Attribution struct {
	Items []domain.RegionAggregate `json:"items"`
	Total int                      `json:"total"`
}

// ClampTopN normalizes a requested aggregate count into [1, MaxTopN],
// using DefaultTopN for zero or negative input.
func ClampTopN(n int) int {
	if n <= 0 {
		return DefaultTopN
	}
	if n > MaxTopN {
		return MaxTopN
	}
	return n
}

// Attribute assigns each hotspot point to the enclosing region and returns
// per-region counts with mean intensity, ordered by count descending and
// region name ascending on ties, truncated to topN.
//
// Containment is boundary-inclusive via the planar ray-crossing predicate,
// applied identically to every region. A point inside several overlapping
// boundaries is assigned to the first containing region in the regions
// slice (the reference dataset's load order, stable across runs) — never
// counted twice. Points inside no region are excluded from all aggregates.
func Attribute(batch domain.Batch, regions []domain.RegionPolygon, bbox domain.BoundingBox, topN int) Attribution {
	topN = ClampTopN(topN)
	total := len(batch.Records)

	// Cheap bound pre-filter; the containment test below remains the
	// authority for the join.
	queryBound := bbox.Bound()
	candidates := make([]domain.RegionPolygon, 0, len(regions))
	for _, region := range regions {
		if region.Boundary.Bound().Intersects(queryBound) {
			candidates = append(candidates, region)
		}
	}
	if len(candidates) == 0 || total == 0 {
		return Attribution{Items: []domain.RegionAggregate{}, Total: total}
	}

	type group struct {
		name  string
		code  string
		count int
		sum   float64
		nInt  int
	}
	groups := make(map[string]*group)

	for _, rec := range batch.Records {
		pt := rec.Point()
		for _, region := range candidates {
			if !planar.MultiPolygonContains(region.Boundary, pt) {
				continue
			}
			key := region.Name + "|" + region.Code
			g, ok := groups[key]
			if !ok {
				g = &group{name: region.Name, code: region.Code}
				groups[key] = g
			}
			g.count++
			if rec.Intensity != nil {
				g.sum += *rec.Intensity
				g.nInt++
			}
			break // first match wins
		}
	}

	items := make([]domain.RegionAggregate, 0, len(groups))
	for _, g := range groups {
		agg := domain.RegionAggregate{RegionName: g.name, RegionCode: g.code, Count: g.count}
		if g.nInt > 0 {
			mean := round3(g.sum / float64(g.nInt))
			agg.MeanIntensity = &mean
		}
		items = append(items, agg)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].RegionName < items[j].RegionName
	})
	if len(items) > topN {
		items = items[:topN]
	}

	return Attribution{Items: items, Total: total}
}
