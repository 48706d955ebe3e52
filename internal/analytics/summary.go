// Package analytics computes derived metrics over validated hotspot
// batches: confidence distribution, spatial extent, and per-region
// attribution. Everything here is a pure function over its inputs; the
// only clock access is the summary timestamp.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/pyrewatch/hotspot-analytics/internal/domain"
	"github.com/pyrewatch/hotspot-analytics/internal/geo"
)

// DateCount is the number of detections acquired on one date.
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary aggregates one batch for a query window.
type Summary struct {
	Count         int                     `json:"count"`
	ByDate        []DateCount             `json:"by_date"`
	Confidence    domain.ConfidenceCounts `json:"confidence"`
	HullAreaKm2   float64                 `json:"hull_area_km2"`
	BBoxAreaKm2   float64                 `json:"bbox_area_km2"`
	MeanIntensity *float64                `json:"mean_intensity"`
	GeneratedAt   time.Time               `json:"generated_at"`
}

// Analyze computes the full summary for a batch inside a query box. An
// empty batch yields a zero-valued summary, never an error.
func Analyze(batch domain.Batch, bbox domain.BoundingBox) Summary {
	s := Summary{
		Count:       len(batch.Records),
		ByDate:      countByDate(batch.Records),
		Confidence:  domain.CountConfidence(batch),
		BBoxAreaKm2: round3(geo.BoundingBoxArea(bbox)),
		GeneratedAt: clock.Now().UTC(),
	}

	if hull, ok := geo.ConvexHull(batch.Points()); ok {
		s.HullAreaKm2 = round3(hull.AreaKm2)
	}

	if mean, ok := MeanIntensity(batch.Records); ok {
		rounded := round3(mean)
		s.MeanIntensity = &rounded
	}

	return s
}

// MeanIntensity is the arithmetic mean of the intensity field across
// records that carry one. ok is false when no record has an intensity
// value, which callers render as null rather than zero.
func MeanIntensity(records []domain.HotspotRecord) (float64, bool) {
	sum, n := 0.0, 0
	for _, r := range records {
		if r.Intensity != nil {
			sum += *r.Intensity
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// countByDate groups records by acquisition date, sorted by date ascending.
// Records without a date are omitted from the series.
func countByDate(records []domain.HotspotRecord) []DateCount {
	byDate := make(map[string]int)
	for _, r := range records {
		if r.AcqDate != "" {
			byDate[r.AcqDate]++
		}
	}

	out := make([]DateCount, 0, len(byDate))
	for date, n := range byDate {
		out = append(out, DateCount{Date: date, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
