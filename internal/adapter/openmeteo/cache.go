package openmeteo

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/pyrewatch/hotspot-analytics/internal/domain"
	"github.com/pyrewatch/hotspot-analytics/internal/observability"
)

// CachedProvider wraps a SeriesProvider with an in-memory LRU of day
// series keyed by quantized point and date. The miss path runs through a
// singleflight group with the same key, so concurrent lookups for one
// quantized point+date issue at most one remote fetch.
type CachedProvider struct {
	inner   domain.SeriesProvider
	cache   *lruCache
	group   singleflight.Group
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a series provider.
func NewCachedProvider(inner domain.SeriesProvider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedProvider) FetchDay(ctx context.Context, lat, lon float64, date string) (domain.HourlySeries, error) {
	key := fmt.Sprintf("%.2f,%.2f|%s", lat, lon, date)
	if series, ok := c.cache.get(key); ok {
		c.metrics.WeatherCache.WithLabelValues("hit").Inc()
		return series, nil
	}
	c.metrics.WeatherCache.WithLabelValues("miss").Inc()

	v, err, _ := c.group.Do(key, func() (any, error) {
		series, err := c.inner.FetchDay(ctx, lat, lon, date)
		if err != nil {
			return domain.HourlySeries{}, err
		}
		// Only cache non-empty series so transient gaps can be retried.
		if !series.Empty() {
			c.cache.put(key, series)
		}
		return series, nil
	})
	if err != nil {
		return domain.HourlySeries{}, err
	}
	return v.(domain.HourlySeries), nil
}

// lruCache is a simple thread-safe LRU cache for day series.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.HourlySeries
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.HourlySeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.HourlySeries{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.HourlySeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
