package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func categoricalBatch(codes ...string) Batch {
	records := make([]HotspotRecord, len(codes))
	for i, c := range codes {
		records[i] = HotspotRecord{Confidence: c}
	}
	return Batch{Records: records, Encoding: EncodingCategorical}
}

func numericBatch(values ...string) Batch {
	records := make([]HotspotRecord, len(values))
	for i, v := range values {
		records[i] = HotspotRecord{Confidence: v}
	}
	return Batch{Records: records, Encoding: EncodingNumeric}
}

func TestCountConfidence(t *testing.T) {
	t.Run("categorical codes", func(t *testing.T) {
		counts := CountConfidence(categoricalBatch("l", "n", "n", "h", "x", ""))
		assert.Equal(t, ConfidenceCounts{Low: 1, Nominal: 2, High: 1}, counts)
	})

	t.Run("categorical uppercase", func(t *testing.T) {
		counts := CountConfidence(categoricalBatch("L", "N", "H"))
		assert.Equal(t, ConfidenceCounts{Low: 1, Nominal: 1, High: 1}, counts)
	})

	t.Run("numeric bucket boundaries", func(t *testing.T) {
		counts := CountConfidence(numericBatch("0", "40", "40.5", "70", "70.1", "100"))
		assert.Equal(t, ConfidenceCounts{Low: 2, Nominal: 2, High: 2}, counts)
	})

	t.Run("numeric unparseable excluded", func(t *testing.T) {
		counts := CountConfidence(numericBatch("85", "oops", ""))
		assert.Equal(t, ConfidenceCounts{High: 1}, counts)
	})

	t.Run("no confidence column", func(t *testing.T) {
		counts := CountConfidence(Batch{Records: []HotspotRecord{{Confidence: "h"}}, Encoding: EncodingNone})
		assert.Equal(t, ConfidenceCounts{}, counts)
	})
}

func TestMinConfidenceOrdinal(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected int
	}{
		{"low", "l", 0},
		{"nominal", "n", 1},
		{"high", "h", 2},
		{"uppercase", "H", 2},
		{"unrecognized defaults to nominal", "medium", 1},
		{"empty defaults to nominal", "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MinConfidenceOrdinal(tt.level))
		})
	}
}

func TestFilterMinConfidence(t *testing.T) {
	t.Run("keeps at or above level", func(t *testing.T) {
		filtered := FilterMinConfidence(categoricalBatch("l", "n", "h"), "n")
		assert.Len(t, filtered.Records, 2)
		assert.Equal(t, "n", filtered.Records[0].Confidence)
		assert.Equal(t, "h", filtered.Records[1].Confidence)
	})

	t.Run("low keeps everything recognized", func(t *testing.T) {
		filtered := FilterMinConfidence(categoricalBatch("l", "n", "h"), "l")
		assert.Len(t, filtered.Records, 3)
	})

	t.Run("unrecognized record codes never pass", func(t *testing.T) {
		filtered := FilterMinConfidence(categoricalBatch("l", "x", ""), "l")
		assert.Len(t, filtered.Records, 1)
	})

	t.Run("unrecognized level defaults to nominal", func(t *testing.T) {
		filtered := FilterMinConfidence(categoricalBatch("l", "n", "h"), "bogus")
		assert.Len(t, filtered.Records, 2)
	})

	t.Run("no-op for numeric encoding", func(t *testing.T) {
		batch := numericBatch("10", "50", "90")
		filtered := FilterMinConfidence(batch, "h")
		assert.Len(t, filtered.Records, 3)
	})

	t.Run("no-op for absent column", func(t *testing.T) {
		batch := Batch{Records: []HotspotRecord{{}, {}}, Encoding: EncodingNone}
		filtered := FilterMinConfidence(batch, "h")
		assert.Len(t, filtered.Records, 2)
	})
}
