package openmeteo

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyrewatch/hotspot-analytics/internal/domain"
	"github.com/pyrewatch/hotspot-analytics/internal/observability"
)

// --- mock provider for cache tests ---

type countingProvider struct {
	calls  atomic.Int64
	series domain.HourlySeries
	err    error
	gate   chan struct{} // when non-nil, FetchDay blocks until closed
}

func (p *countingProvider) FetchDay(_ context.Context, _, _ float64, _ string) (domain.HourlySeries, error) {
	p.calls.Add(1)
	if p.gate != nil {
		<-p.gate
	}
	return p.series, p.err
}

func fp(v float64) *float64 { return &v }

func testSeries() domain.HourlySeries {
	return domain.HourlySeries{
		Times:       []string{"2024-08-10T00:00"},
		Temperature: []*float64{fp(18.1)},
		Humidity:    []*float64{fp(62)},
	}
}

func TestCachedProvider_Hit(t *testing.T) {
	inner := &countingProvider{series: testSeries()}
	cached := NewCachedProvider(inner, 10, observability.NewMetricsForTesting())

	s1, err := cached.FetchDay(context.Background(), 38.51, -122.46, "2024-08-10")
	require.NoError(t, err)
	assert.Len(t, s1.Times, 1)

	s2, err := cached.FetchDay(context.Background(), 38.51, -122.46, "2024-08-10")
	require.NoError(t, err)
	assert.Len(t, s2.Times, 1)

	assert.Equal(t, int64(1), inner.calls.Load(), "should only call inner once")
}

func TestCachedProvider_DifferentKeysMiss(t *testing.T) {
	inner := &countingProvider{series: testSeries()}
	cached := NewCachedProvider(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.FetchDay(context.Background(), 38.51, -122.46, "2024-08-10")
	_, _ = cached.FetchDay(context.Background(), 38.52, -122.46, "2024-08-10")
	_, _ = cached.FetchDay(context.Background(), 38.51, -122.46, "2024-08-11")

	assert.Equal(t, int64(3), inner.calls.Load())
}

func TestCachedProvider_EmptySeriesNotCached(t *testing.T) {
	inner := &countingProvider{series: domain.HourlySeries{}}
	cached := NewCachedProvider(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.FetchDay(context.Background(), 38.51, -122.46, "2024-08-10")
	require.NoError(t, err)
	_, err = cached.FetchDay(context.Background(), 38.51, -122.46, "2024-08-10")
	require.NoError(t, err)

	assert.Equal(t, int64(2), inner.calls.Load(), "empty result should be retried")
}

func TestCachedProvider_ErrorNotCached(t *testing.T) {
	inner := &countingProvider{err: &domain.UpstreamError{Source: "open-meteo", Status: 503}}
	cached := NewCachedProvider(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.FetchDay(context.Background(), 38.51, -122.46, "2024-08-10")
	require.Error(t, err)
	_, err = cached.FetchDay(context.Background(), 38.51, -122.46, "2024-08-10")
	require.Error(t, err)

	assert.Equal(t, int64(2), inner.calls.Load())
}

func TestCachedProvider_ConcurrentSameKeySingleFetch(t *testing.T) {
	inner := &countingProvider{series: testSeries(), gate: make(chan struct{})}
	cached := NewCachedProvider(inner, 10, observability.NewMetricsForTesting())

	var started, done sync.WaitGroup
	for i := 0; i < 8; i++ {
		started.Add(1)
		done.Add(1)
		go func() {
			started.Done()
			defer done.Done()
			s, err := cached.FetchDay(context.Background(), 38.51, -122.46, "2024-08-10")
			assert.NoError(t, err)
			assert.Len(t, s.Times, 1)
		}()
	}

	started.Wait()
	close(inner.gate)
	done.Wait()

	// The in-flight fetch is shared; callers arriving after it completed
	// hit the cache. Either way the remote must not be hammered.
	assert.LessOrEqual(t, inner.calls.Load(), int64(2))
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", testSeries())
	c.put("b", domain.HourlySeries{})

	s, ok := c.get("a")
	assert.True(t, ok)
	assert.Len(t, s.Times, 1)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", testSeries())
	c.put("b", testSeries())
	c.put("c", testSeries()) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	_, ok = c.get("b")
	assert.True(t, ok)

	_, ok = c.get("c")
	assert.True(t, ok)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", testSeries())
	c.put("b", testSeries())

	// Access "a" to promote it
	c.get("a")

	// Insert "c" — should evict "b" (LRU), not "a"
	c.put("c", testSeries())

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.HourlySeries{Times: []string{"t1"}})
	c.put("a", domain.HourlySeries{Times: []string{"t1", "t2"}})

	s, ok := c.get("a")
	assert.True(t, ok)
	assert.Len(t, s.Times, 2)
}
