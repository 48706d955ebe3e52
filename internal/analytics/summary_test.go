package analytics

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyrewatch/hotspot-analytics/internal/domain"
)

func fp(v float64) *float64 { return &v }

func sampleBatch() domain.Batch {
	return domain.Batch{
		Encoding: domain.EncodingCategorical,
		Records: []domain.HotspotRecord{
			{Lon: -120, Lat: 35, Confidence: "n", AcqDate: "2024-08-10", Intensity: fp(10)},
			{Lon: -119, Lat: 36, Confidence: "h", AcqDate: "2024-08-10", Intensity: fp(20)},
			{Lon: -118, Lat: 35.5, Confidence: "l", AcqDate: "2024-08-09", Intensity: fp(30)},
			{Lon: -119.5, Lat: 35.2, Confidence: "n", AcqDate: "2024-08-11"},
		},
	}
}

func TestAnalyze(t *testing.T) {
	fixedTime := time.Date(2024, 8, 12, 9, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	bbox := domain.BoundingBox{West: -121, South: 34, East: -117, North: 37}

	t.Run("full summary", func(t *testing.T) {
		s := Analyze(sampleBatch(), bbox)

		assert.Equal(t, 4, s.Count)
		assert.Equal(t, domain.ConfidenceCounts{Low: 1, Nominal: 2, High: 1}, s.Confidence)
		assert.Equal(t, []DateCount{
			{Date: "2024-08-09", Count: 1},
			{Date: "2024-08-10", Count: 2},
			{Date: "2024-08-11", Count: 1},
		}, s.ByDate)

		require.NotNil(t, s.MeanIntensity)
		assert.Equal(t, 20.0, *s.MeanIntensity)

		assert.Greater(t, s.HullAreaKm2, 0.0)
		assert.Greater(t, s.BBoxAreaKm2, s.HullAreaKm2)
		assert.Equal(t, fixedTime, s.GeneratedAt)
	})

	t.Run("empty batch", func(t *testing.T) {
		s := Analyze(domain.Batch{}, bbox)

		assert.Equal(t, 0, s.Count)
		assert.Empty(t, s.ByDate)
		assert.Nil(t, s.MeanIntensity)
		assert.Equal(t, 0.0, s.HullAreaKm2)
		assert.Greater(t, s.BBoxAreaKm2, 0.0)
	})

	t.Run("two points leave hull empty", func(t *testing.T) {
		batch := domain.Batch{Records: sampleBatch().Records[:2]}
		s := Analyze(batch, bbox)

		assert.Equal(t, 2, s.Count)
		assert.Equal(t, 0.0, s.HullAreaKm2)
	})

	t.Run("no intensity column yields nil mean", func(t *testing.T) {
		batch := domain.Batch{Records: []domain.HotspotRecord{
			{Lon: -120, Lat: 35}, {Lon: -119, Lat: 36}, {Lon: -118, Lat: 35.5},
		}}
		s := Analyze(batch, bbox)
		assert.Nil(t, s.MeanIntensity)
	})
}

func TestMeanIntensity(t *testing.T) {
	t.Run("ignores records without a value", func(t *testing.T) {
		records := []domain.HotspotRecord{
			{Intensity: fp(10)}, {Intensity: nil}, {Intensity: fp(14)},
		}
		mean, ok := MeanIntensity(records)
		require.True(t, ok)
		assert.Equal(t, 12.0, mean)
	})

	t.Run("no values at all", func(t *testing.T) {
		_, ok := MeanIntensity([]domain.HotspotRecord{{}, {}})
		assert.False(t, ok)
	})
}

func TestCountByDate_OmitsUndated(t *testing.T) {
	records := []domain.HotspotRecord{
		{AcqDate: "2024-08-10"}, {AcqDate: ""}, {AcqDate: "2024-08-10"},
	}
	out := countByDate(records)
	assert.Equal(t, []DateCount{{Date: "2024-08-10", Count: 2}}, out)
}
