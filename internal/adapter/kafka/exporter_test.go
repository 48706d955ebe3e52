package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyrewatch/hotspot-analytics/internal/analytics"
	"github.com/pyrewatch/hotspot-analytics/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	generatedAt := time.Date(2024, 8, 12, 9, 30, 0, 0, time.UTC)
	snap := Snapshot{
		Source: "VIIRS_NOAA20_NRT",
		BBox:   "-124,32,-114,42",
		Days:   2,
		Summary: analytics.Summary{
			Count:       4,
			Confidence:  domain.ConfidenceCounts{Low: 1, Nominal: 2, High: 1},
			HullAreaKm2: 123.456,
			GeneratedAt: generatedAt,
		},
	}

	msg, err := serializeToMessage(snap)
	require.NoError(t, err)

	assert.Equal(t, []byte("VIIRS_NOAA20_NRT|-124,32,-114,42"), msg.Key)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "VIIRS_NOAA20_NRT", decoded.Source)
	assert.Equal(t, 2, decoded.Days)
	assert.Equal(t, 4, decoded.Summary.Count)
	assert.Equal(t, 123.456, decoded.Summary.HullAreaKm2)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "VIIRS_NOAA20_NRT", headers["source"])
	assert.Equal(t, "2024-08-12T09:30:00Z", headers["generated_at"])
}
