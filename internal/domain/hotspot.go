package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// intensityColumns lists candidate intensity fields in priority order.
// The first column present in a batch's header wins for the whole batch.
var intensityColumns = []string{"frp", "bright_ti4", "brightness"}

// ConfidenceEncoding identifies how a batch encodes detector confidence.
type ConfidenceEncoding int

const (
	// EncodingNone means the confidence column is absent.
	EncodingNone ConfidenceEncoding = iota
	// EncodingCategorical means single-letter VIIRS codes (l/n/h).
	EncodingCategorical
	// EncodingNumeric means MODIS-style 0–100 integers.
	EncodingNumeric
)

func (e ConfidenceEncoding) String() string {
	switch e {
	case EncodingCategorical:
		return "categorical"
	case EncodingNumeric:
		return "numeric"
	default:
		return "none"
	}
}

// HotspotRecord is one validated satellite fire detection.
type HotspotRecord struct {
	Lon        float64
	Lat        float64
	Confidence string // raw value; interpretation depends on the batch encoding
	AcqDate    string // YYYY-MM-DD, empty if the column is absent
	AcqTime    string // raw HHMM-like string, empty if absent
	Intensity  *float64
	// Attributes carries the remaining CSV columns untouched for
	// passthrough into feature properties.
	Attributes map[string]string
}

// Point returns the record position as an orb lon/lat point.
func (r HotspotRecord) Point() orb.Point {
	return orb.Point{r.Lon, r.Lat}
}

// Batch is a set of validated hotspot records plus the column capabilities
// detected once at construction time.
type Batch struct {
	Records        []HotspotRecord
	Encoding       ConfidenceEncoding
	IntensityField string // "" when no intensity column is present
}

// Points returns all record positions in input order.
func (b Batch) Points() []orb.Point {
	pts := make([]orb.Point, len(b.Records))
	for i, r := range b.Records {
		pts[i] = r.Point()
	}
	return pts
}

// ParseBatch builds a Batch from a decoded CSV table. Rows whose longitude
// or latitude fail to parse or fall outside valid ranges are dropped; the
// returned count reports how many. Column capabilities (confidence encoding,
// intensity field) are detected here once so downstream code dispatches
// statically instead of re-inspecting values per record.
func ParseBatch(header []string, rows [][]string) (Batch, int) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	lonIdx, lonOK := col["longitude"]
	latIdx, latOK := col["latitude"]
	if !lonOK || !latOK {
		return Batch{}, len(rows)
	}

	confIdx, hasConf := col["confidence"]
	dateIdx, hasDate := col["acq_date"]
	timeIdx, hasTime := col["acq_time"]

	intensityField := ""
	intensityIdx := -1
	for _, name := range intensityColumns {
		if i, ok := col[name]; ok {
			intensityField = name
			intensityIdx = i
			break
		}
	}

	records := make([]HotspotRecord, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		lon, okLon := parseCoordinate(field(row, lonIdx), -180, 180)
		lat, okLat := parseCoordinate(field(row, latIdx), -90, 90)
		if !okLon || !okLat {
			dropped++
			continue
		}

		rec := HotspotRecord{Lon: lon, Lat: lat}
		if hasConf {
			rec.Confidence = strings.TrimSpace(field(row, confIdx))
		}
		if hasDate {
			rec.AcqDate = strings.TrimSpace(field(row, dateIdx))
		}
		if hasTime {
			rec.AcqTime = strings.TrimSpace(field(row, timeIdx))
		}
		if intensityIdx >= 0 {
			if v, err := strconv.ParseFloat(strings.TrimSpace(field(row, intensityIdx)), 64); err == nil {
				rec.Intensity = &v
			}
		}
		rec.Attributes = passthrough(header, row, lonIdx, latIdx)
		records = append(records, rec)
	}

	encoding := EncodingNone
	if hasConf {
		encoding = detectEncoding(records)
	}

	return Batch{Records: records, Encoding: encoding, IntensityField: intensityField}, dropped
}

// detectEncoding classifies the batch's confidence column by sampling the
// first record with a non-empty value. A value that parses as a number means
// numeric encoding; anything else is treated as categorical letter codes.
func detectEncoding(records []HotspotRecord) ConfidenceEncoding {
	for _, r := range records {
		if r.Confidence == "" {
			continue
		}
		if _, err := strconv.ParseFloat(r.Confidence, 64); err == nil {
			return EncodingNumeric
		}
		return EncodingCategorical
	}
	return EncodingNone
}

func parseCoordinate(s string, min, max float64) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < min || v > max {
		return 0, false
	}
	return v, true
}

// passthrough collects every column except the coordinate pair.
func passthrough(header []string, row []string, lonIdx, latIdx int) map[string]string {
	attrs := make(map[string]string, len(header))
	for i, name := range header {
		if i == lonIdx || i == latIdx || i >= len(row) {
			continue
		}
		attrs[strings.ToLower(strings.TrimSpace(name))] = row[i]
	}
	return attrs
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// BoundingBox is a geographic query window. West ≤ east and south ≤ north;
// antimeridian wraparound is not supported.
type BoundingBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// WorldBounds covers the full globe, the default when no box is given.
var WorldBounds = BoundingBox{West: -180, South: -90, East: 180, North: 90}

// ParseBoundingBox parses a "west,south,east,north" degree 4-tuple.
func ParseBoundingBox(s string) (BoundingBox, error) {
	parts := strings.Split(strings.ReplaceAll(s, " ", ""), ",")
	if len(parts) != 4 {
		return BoundingBox{}, &ValidationError{Field: "bbox", Reason: "expected west,south,east,north"}
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return BoundingBox{}, &ValidationError{Field: "bbox", Reason: fmt.Sprintf("invalid number %q", p)}
		}
		vals[i] = v
	}

	b := BoundingBox{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}
	if err := b.Validate(); err != nil {
		return BoundingBox{}, err
	}
	return b, nil
}

// Validate checks ordering and coordinate ranges.
func (b BoundingBox) Validate() error {
	switch {
	case b.West > b.East:
		return &ValidationError{Field: "bbox", Reason: "west must not exceed east"}
	case b.South > b.North:
		return &ValidationError{Field: "bbox", Reason: "south must not exceed north"}
	case b.West < -180 || b.East > 180:
		return &ValidationError{Field: "bbox", Reason: "longitude out of [-180,180]"}
	case b.South < -90 || b.North > 90:
		return &ValidationError{Field: "bbox", Reason: "latitude out of [-90,90]"}
	}
	return nil
}

// Bound returns the box as an orb.Bound for intersection tests.
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.West, b.South}, Max: orb.Point{b.East, b.North}}
}

// String renders the box in the FIRMS API path format.
func (b BoundingBox) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.West, b.South, b.East, b.North)
}
