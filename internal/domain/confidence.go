package domain

import (
	"strconv"
	"strings"
)

// ConfidenceCounts buckets a batch's detections by confidence level.
type ConfidenceCounts struct {
	Low     int `json:"low"`
	Nominal int `json:"nominal"`
	High    int `json:"high"`
}

// CountConfidence buckets every record in the batch under the batch's
// detected encoding. Records whose value is unclassifiable under that
// encoding are excluded from all three buckets; an absent confidence
// column yields zero counts.
func CountConfidence(batch Batch) ConfidenceCounts {
	var counts ConfidenceCounts
	switch batch.Encoding {
	case EncodingCategorical:
		for _, r := range batch.Records {
			switch strings.ToLower(r.Confidence) {
			case "l":
				counts.Low++
			case "n":
				counts.Nominal++
			case "h":
				counts.High++
			}
		}
	case EncodingNumeric:
		for _, r := range batch.Records {
			v, err := strconv.ParseFloat(r.Confidence, 64)
			if err != nil {
				continue
			}
			switch {
			case v <= 40:
				counts.Low++
			case v <= 70:
				counts.Nominal++
			default:
				counts.High++
			}
		}
	}
	return counts
}

// confidenceOrdinal maps a letter code to its rank. Unrecognized codes
// return -1 so they never pass a minimum-level filter.
func confidenceOrdinal(code string) int {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "l":
		return 0
	case "n":
		return 1
	case "h":
		return 2
	default:
		return -1
	}
}

// MinConfidenceOrdinal maps a requested minimum level to its ordinal.
// Unrecognized level strings default to nominal.
func MinConfidenceOrdinal(level string) int {
	if ord := confidenceOrdinal(level); ord >= 0 {
		return ord
	}
	return 1
}

// FilterMinConfidence retains records whose categorical confidence is at or
// above the requested level. Numeric confidence scales are instrument
// scores rather than the l/n/h taxonomy, so the filter is a no-op for
// numerically encoded batches.
func FilterMinConfidence(batch Batch, level string) Batch {
	if batch.Encoding != EncodingCategorical {
		return batch
	}

	minOrd := MinConfidenceOrdinal(level)
	kept := make([]HotspotRecord, 0, len(batch.Records))
	for _, r := range batch.Records {
		if confidenceOrdinal(r.Confidence) >= minOrd {
			kept = append(kept, r)
		}
	}
	batch.Records = kept
	return batch
}
