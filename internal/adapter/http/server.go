// Package http exposes the analytics REST API plus the health, readiness,
// and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pyrewatch/hotspot-analytics/internal/adapter/kafka"
	"github.com/pyrewatch/hotspot-analytics/internal/analytics"
	"github.com/pyrewatch/hotspot-analytics/internal/domain"
	"github.com/pyrewatch/hotspot-analytics/internal/geo"
	"github.com/pyrewatch/hotspot-analytics/internal/observability"
)

const (
	appName    = "Wildfire Hotspot Analytics"
	appVersion = "0.1.0"

	maxQueryDays = 10
)

// HotspotFetcher supplies hotspot batches for a query window.
type HotspotFetcher interface {
	FetchArea(ctx context.Context, source string, bbox domain.BoundingBox, days int) (domain.Batch, error)
}

// RegionSource supplies the region reference set.
type RegionSource interface {
	Load(ctx context.Context) ([]domain.RegionPolygon, error)
}

// WeatherLookup resolves point-in-time weather queries.
type WeatherLookup interface {
	Lookup(ctx context.Context, lat, lon float64, date, hour string) (domain.WeatherSample, error)
}

// SnapshotPublisher exports analyze results; nil disables export.
type SnapshotPublisher interface {
	Publish(ctx context.Context, snap kafka.Snapshot) error
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Deps bundles the collaborators behind the API handlers.
type Deps struct {
	Fetcher       HotspotFetcher
	Regions       RegionSource
	Weather       WeatherLookup
	Publisher     SnapshotPublisher
	Ready         ReadinessChecker
	Metrics       *observability.Metrics
	DefaultSource string
}

// Server exposes the analytics API over HTTP.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API, health, readiness, and
// metrics routes.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(deps.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/{$}", s.handleOverview)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/version", s.handleVersion)
	mux.HandleFunc("GET /api/fires", s.handleFires)
	mux.HandleFunc("GET /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/by_region", s.handleByRegion)
	mux.HandleFunc("GET /api/hull", s.handleHull)
	mux.HandleFunc("GET /api/weather_at", s.handleWeatherAt)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleOverview(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        appName,
		"version":     appVersion,
		"description": "FIRMS active fire points and geospatial analytics.",
		"endpoints": map[string]string{
			"/api/health":     "Service health status",
			"/api/version":    "API version and description",
			"/api/fires":      "Hotspot detections as GeoJSON",
			"/api/analyze":    "Aggregate analytics for hotspot detections",
			"/api/by_region":  "Detection counts grouped by region",
			"/api/hull":       "Convex hull polygon for detections",
			"/api/weather_at": "Historical temperature and humidity at a point/time",
		},
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         appName,
		"version":     appVersion,
		"description": "FIRMS active fire points and geospatial analytics",
	})
}

func (s *Server) handleFires(w http.ResponseWriter, r *http.Request) {
	batch, _, err := s.queryBatch(r, 1)
	if err != nil {
		s.writeError(w, err)
		return
	}

	fc := geojson.NewFeatureCollection()
	for _, rec := range batch.Records {
		f := geojson.NewFeature(rec.Point())
		props := make(geojson.Properties, len(rec.Attributes))
		for k, v := range rec.Attributes {
			props[k] = v
		}
		f.Properties = props
		fc.Append(f)
	}
	writeJSON(w, http.StatusOK, fc)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	batch, q, err := s.queryBatch(r, 2)
	if err != nil {
		s.writeError(w, err)
		return
	}

	start := time.Now()
	summary := analytics.Analyze(batch, q.bbox)
	s.deps.Metrics.AnalyzeDuration.Observe(time.Since(start).Seconds())

	if s.deps.Publisher != nil {
		// Best effort; a failed export never fails the query.
		_ = s.deps.Publisher.Publish(r.Context(), kafka.Snapshot{
			Source:  q.source,
			BBox:    q.bbox.String(),
			Days:    q.days,
			Summary: summary,
		})
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleByRegion(w http.ResponseWriter, r *http.Request) {
	batch, q, err := s.queryBatch(r, 2)
	if err != nil {
		s.writeError(w, err)
		return
	}

	topN := analytics.DefaultTopN
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > analytics.MaxTopN {
			s.writeError(w, &domain.ValidationError{Field: "top", Reason: "must be an integer in [1,50]"})
			return
		}
		topN = n
	}

	regions, err := s.deps.Regions.Load(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	start := time.Now()
	result := analytics.Attribute(batch, regions, q.bbox, topN)
	s.deps.Metrics.AttributeDuration.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHull(w http.ResponseWriter, r *http.Request) {
	batch, _, err := s.queryBatch(r, 2)
	if err != nil {
		s.writeError(w, err)
		return
	}

	fc := geojson.NewFeatureCollection()
	hull, ok := geo.ConvexHull(batch.Points())
	if ok {
		f := geojson.NewFeature(orb.Polygon{hull.Boundary})
		f.Properties = geojson.Properties{"area_km2": hull.AreaKm2}
		fc.Append(f)
	}
	writeJSON(w, http.StatusOK, fc)
}

func (s *Server) handleWeatherAt(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lat, errLat := strconv.ParseFloat(query.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(query.Get("lon"), 64)
	if errLat != nil || errLon != nil {
		s.writeError(w, &domain.ValidationError{Field: "lat/lon", Reason: "must be numbers"})
		return
	}

	sample, err := s.deps.Weather.Lookup(r.Context(), lat, lon, query.Get("date"), query.Get("time"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sample)
}

// batchQuery holds the parsed common query parameters.
type batchQuery struct {
	bbox    domain.BoundingBox
	days    int
	source  string
	minConf string
}

// queryBatch parses the shared fires/analyze/by_region/hull parameters,
// fetches the batch, and applies the minimum-confidence filter.
func (s *Server) queryBatch(r *http.Request, defaultDays int) (domain.Batch, batchQuery, error) {
	query := r.URL.Query()

	q := batchQuery{
		bbox:    domain.WorldBounds,
		days:    defaultDays,
		source:  s.deps.DefaultSource,
		minConf: "n",
	}

	if raw := query.Get("bbox"); raw != "" {
		bbox, err := domain.ParseBoundingBox(raw)
		if err != nil {
			return domain.Batch{}, q, err
		}
		q.bbox = bbox
	}
	if raw := query.Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxQueryDays {
			return domain.Batch{}, q, &domain.ValidationError{Field: "days", Reason: "must be an integer in [1,10]"}
		}
		q.days = n
	}
	if raw := query.Get("source"); raw != "" {
		q.source = raw
	}
	if raw := query.Get("min_conf"); raw != "" {
		q.minConf = raw
	}

	batch, err := s.deps.Fetcher.FetchArea(r.Context(), q.source, q.bbox, q.days)
	if err != nil {
		return domain.Batch{}, q, err
	}

	return domain.FilterMinConfidence(batch, q.minConf), q, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		upstreamErr   *domain.UpstreamError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &upstreamErr):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
