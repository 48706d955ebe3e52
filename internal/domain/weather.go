package domain

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
)

// hourLayout matches the Open-Meteo hourly timestamp format.
const hourLayout = "2006-01-02T15:04"

// HourlySeries is one day of hourly samples for a single point. A nil
// element in either variable slice is a missing measurement, not zero.
type HourlySeries struct {
	Times       []string
	Temperature []*float64 // °C
	Humidity    []*float64 // %
}

// Empty reports whether the series has no timestamps.
func (s HourlySeries) Empty() bool { return len(s.Times) == 0 }

// SeriesProvider fetches a full day's hourly series for a point. One call
// covers every hour of the date; implementations sit behind a quantizing
// cache so repeated nearby lookups share a fetch.
type SeriesProvider interface {
	FetchDay(ctx context.Context, lat, lon float64, date string) (HourlySeries, error)
}

// WeatherSample is the matched (exact or nearest hour) result of a lookup.
type WeatherSample struct {
	Timestamp    string  `json:"time"`
	TemperatureC float64 `json:"temperature_2m"`
	HumidityPct  float64 `json:"relative_humidity_2m"`
	ExactMatch   bool    `json:"exact_match"`
}

// Matcher resolves point-in-time weather queries against a day series.
type Matcher struct {
	provider SeriesProvider
	logger   *slog.Logger
}

// NewMatcher creates a Matcher backed by the given provider.
func NewMatcher(provider SeriesProvider, logger *slog.Logger) *Matcher {
	return &Matcher{provider: provider, logger: logger}
}

// Lookup returns the exact or nearest hourly sample for the point and
// moment. Coordinates are quantized to 0.01° (~1.1 km at the equator)
// before the provider call so cache keys line up across nearby queries.
// A malformed date is a ValidationError; a series with no complete sample
// is ErrNotFound.
func (m *Matcher) Lookup(ctx context.Context, lat, lon float64, date, rawHour string) (WeatherSample, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return WeatherSample{}, &ValidationError{Field: "date", Reason: "use YYYY-MM-DD"}
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return WeatherSample{}, &ValidationError{Field: "coordinates", Reason: "out of range"}
	}

	hour := NormalizeHour(rawHour)
	qlat := QuantizeCoordinate(lat)
	qlon := QuantizeCoordinate(lon)

	series, err := m.provider.FetchDay(ctx, qlat, qlon, date)
	if err != nil {
		return WeatherSample{}, fmt.Errorf("fetch day series: %w", err)
	}

	sample, ok := MatchHour(series, date, hour)
	if !ok {
		m.logger.Debug("no complete sample for moment", "date", date, "hour", hour, "lat", qlat, "lon", qlon)
		return WeatherSample{}, ErrNotFound
	}
	return sample, nil
}

// QuantizeCoordinate rounds a coordinate to 2 decimal places, the cache-key
// resolution for weather lookups.
func QuantizeCoordinate(v float64) float64 {
	return math.Round(v*100) / 100
}

// NormalizeHour converts a raw FIRMS-style "HHMM" string to canonical
// "HH:00" form: "0345" → "03:00", "17" → "17:00". Non-digit or too-short
// input defaults to hour 0; the hour is clamped to [0,23].
func NormalizeHour(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || !isDigits(s) {
		return "00:00"
	}

	var hh int
	if len(s) <= 2 {
		hh = atoiDigits(s)
	} else {
		hh = atoiDigits(s[:len(s)-2])
	}
	if hh < 0 {
		hh = 0
	}
	if hh > 23 {
		hh = 23
	}
	return fmt.Sprintf("%02d:00", hh)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

func atoiDigits(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// MatchHour finds the sample for "{date}T{hour}". Missing the exact
// timestamp, it selects the index with the smallest absolute time
// difference, earliest index winning ties. If either variable is missing
// at the matched index, the immediately preceding then following index is
// probed for a complete pair. Returns false when no complete sample exists.
func MatchHour(series HourlySeries, date, hour string) (WeatherSample, bool) {
	if series.Empty() {
		return WeatherSample{}, false
	}

	target := date + "T" + hour
	idx := exactIndex(series.Times, target)
	if idx < 0 {
		idx = nearestIndex(series.Times, target)
	}
	if idx < 0 {
		return WeatherSample{}, false
	}

	temp := valueAt(series.Temperature, idx)
	hum := valueAt(series.Humidity, idx)
	if temp == nil || hum == nil {
		for _, j := range []int{idx - 1, idx + 1} {
			if j < 0 || j >= len(series.Times) {
				continue
			}
			t2, h2 := valueAt(series.Temperature, j), valueAt(series.Humidity, j)
			if t2 != nil && h2 != nil {
				idx, temp, hum = j, t2, h2
				break
			}
		}
	}
	if temp == nil || hum == nil {
		return WeatherSample{}, false
	}

	return WeatherSample{
		Timestamp:    series.Times[idx],
		TemperatureC: *temp,
		HumidityPct:  *hum,
		ExactMatch:   series.Times[idx] == target,
	}, true
}

func exactIndex(times []string, target string) int {
	for i, t := range times {
		if t == target {
			return i
		}
	}
	return -1
}

// nearestIndex returns the index with the smallest absolute difference to
// the target, or -1 when nothing parses. Strict less-than keeps the
// earliest index on ties.
func nearestIndex(times []string, target string) int {
	targetTime, err := time.Parse(hourLayout, target)
	if err != nil {
		return -1
	}

	bestIdx := -1
	var bestDiff time.Duration
	for i, t := range times {
		ts, err := time.Parse(hourLayout, t)
		if err != nil {
			continue
		}
		diff := targetTime.Sub(ts)
		if diff < 0 {
			diff = -diff
		}
		if bestIdx < 0 || diff < bestDiff {
			bestIdx, bestDiff = i, diff
		}
	}
	return bestIdx
}

func valueAt(vals []*float64, idx int) *float64 {
	if idx < 0 || idx >= len(vals) {
		return nil
	}
	return vals[idx]
}
