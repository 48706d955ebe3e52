package domain

import "github.com/paulmach/orb"

// RegionPolygon is one reference region boundary in geographic coordinates.
// Regions are loaded once from the reference collaborator and treated as
// read-only; slice order is the deterministic tie-break for overlapping
// boundaries during attribution.
type RegionPolygon struct {
	Name     string
	Code     string // ISO 3166-1 alpha-3 where known, "NA" otherwise
	Boundary orb.MultiPolygon
}

// RegionAggregate is the per-region result of attributing hotspot points.
type RegionAggregate struct {
	RegionName    string   `json:"region"`
	RegionCode    string   `json:"code"`
	Count         int      `json:"count"`
	MeanIntensity *float64 `json:"mean_intensity"`
}
