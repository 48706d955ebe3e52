// Package naturalearth loads the Natural Earth admin-0 country boundaries
// used for region attribution. The dataset is fetched once, cached on
// local disk, and served from memory afterwards.
package naturalearth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/pyrewatch/hotspot-analytics/internal/domain"
	"github.com/pyrewatch/hotspot-analytics/internal/observability"
)

// Property keys vary across Natural Earth releases; the first present key
// wins, matching how the dataset is commonly normalized.
var (
	nameKeys = []string{"name", "NAME", "ADMIN", "NAME_EN", "SOVEREIGNT"}
	codeKeys = []string{"iso_a3", "ISO_A3", "ADM0_A3"}
)

// Loader downloads, caches, and parses the region reference dataset.
type Loader struct {
	urls       []string
	cachePath  string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics

	mu      sync.Mutex
	regions []domain.RegionPolygon
	loaded  bool
}

// NewLoader creates a Loader. urls are tried in order on first load;
// cachePath stores the downloaded GeoJSON across restarts.
func NewLoader(urls []string, cachePath string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		urls:      urls,
		cachePath: cachePath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Load returns the region set, fetching and parsing it on first call.
// Subsequent calls return the memoized slice; callers must treat it as
// read-only.
func (l *Loader) Load(ctx context.Context) ([]domain.RegionPolygon, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.regions, nil
	}

	data, err := l.readOrDownload(ctx)
	if err != nil {
		return nil, err
	}

	regions, err := parseRegions(data)
	if err != nil {
		return nil, err
	}

	l.regions = regions
	l.loaded = true
	l.metrics.RegionsLoaded.Set(float64(len(regions)))
	l.logger.Info("region reference loaded", "regions", len(regions), "cache_path", l.cachePath)
	return l.regions, nil
}

// CheckReadiness reports ready once the region reference is in memory.
func (l *Loader) CheckReadiness(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded {
		return errors.New("region reference not loaded yet")
	}
	return nil
}

func (l *Loader) readOrDownload(ctx context.Context) ([]byte, error) {
	if data, err := os.ReadFile(l.cachePath); err == nil && len(data) > 0 {
		return data, nil
	}

	var lastErr error
	for _, u := range l.urls {
		data, err := l.download(ctx, u)
		if err != nil {
			l.logger.Warn("region download failed, trying next source", "url", u, "error", err)
			lastErr = err
			continue
		}
		l.writeCache(data)
		return data, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no region source URLs configured")
	}
	return nil, &domain.UpstreamError{Source: "naturalearth", Detail: lastErr.Error()}
}

func (l *Loader) download(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// writeCache persists the dataset best-effort; a failed write only costs a
// re-download on the next restart.
func (l *Loader) writeCache(data []byte) {
	if l.cachePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(l.cachePath), 0o755); err != nil {
		l.logger.Warn("create region cache dir failed", "error", err)
		return
	}
	if err := os.WriteFile(l.cachePath, data, 0o644); err != nil {
		l.logger.Warn("write region cache failed", "error", err)
	}
}

// parseRegions decodes the GeoJSON feature collection into region
// polygons, normalizing the schema-variant name and code properties.
// Non-polygonal features are skipped.
func parseRegions(data []byte) ([]domain.RegionPolygon, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &domain.UpstreamError{Source: "naturalearth", Detail: fmt.Sprintf("parse geojson: %v", err)}
	}

	regions := make([]domain.RegionPolygon, 0, len(fc.Features))
	for _, f := range fc.Features {
		var boundary orb.MultiPolygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			boundary = orb.MultiPolygon{g}
		case orb.MultiPolygon:
			boundary = g
		default:
			continue
		}

		regions = append(regions, domain.RegionPolygon{
			Name:     firstString(f.Properties, nameKeys, "(unknown)"),
			Code:     firstString(f.Properties, codeKeys, "NA"),
			Boundary: boundary,
		})
	}
	return regions, nil
}

func firstString(props geojson.Properties, keys []string, fallback string) string {
	for _, k := range keys {
		if v, ok := props[k].(string); ok && v != "" {
			return v
		}
	}
	return fallback
}
