package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// analytics service.
type Metrics struct {
	FeedRequests   *prometheus.CounterVec // labels: source, outcome={success,error}
	RecordsParsed  prometheus.Counter
	RecordsDropped prometheus.Counter

	AnalyzeDuration   prometheus.Histogram
	AttributeDuration prometheus.Histogram

	// Weather lookup metrics.
	WeatherRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	WeatherCache       *prometheus.CounterVec // labels: result={hit,miss}
	WeatherAPIDuration prometheus.Histogram

	RegionsLoaded      prometheus.Gauge
	SnapshotsPublished prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotspot_analytics",
			Name:      "feed_requests_total",
			Help:      "FIRMS feed requests by source dataset and outcome.",
		}, []string{"source", "outcome"}),
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hotspot_analytics",
			Name:      "records_parsed_total",
			Help:      "Total hotspot records successfully parsed from the feed.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hotspot_analytics",
			Name:      "records_dropped_total",
			Help:      "Total feed rows dropped for unparseable coordinates.",
		}),
		AnalyzeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hotspot_analytics",
			Name:      "analyze_duration_seconds",
			Help:      "Duration of a batch summary computation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		AttributeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hotspot_analytics",
			Name:      "attribute_duration_seconds",
			Help:      "Duration of a region attribution join.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotspot_analytics",
			Name:      "weather_requests_total",
			Help:      "Weather archive requests by outcome.",
		}, []string{"outcome"}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotspot_analytics",
			Name:      "weather_cache_total",
			Help:      "Weather day-series cache lookups by result.",
		}, []string{"result"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hotspot_analytics",
			Name:      "weather_api_duration_seconds",
			Help:      "Open-Meteo archive request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		RegionsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hotspot_analytics",
			Name:      "regions_loaded",
			Help:      "Number of region boundaries loaded from the reference dataset.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hotspot_analytics",
			Name:      "snapshots_published_total",
			Help:      "Analytics snapshots published to the Kafka sink topic.",
		}),
	}

	prometheus.MustRegister(
		m.FeedRequests,
		m.RecordsParsed,
		m.RecordsDropped,
		m.AnalyzeDuration,
		m.AttributeDuration,
		m.WeatherRequests,
		m.WeatherCache,
		m.WeatherAPIDuration,
		m.RegionsLoaded,
		m.SnapshotsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FeedRequests:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hotspot_analytics", Name: "feed_requests_total"}, []string{"source", "outcome"}),
		RecordsParsed:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hotspot_analytics", Name: "records_parsed_total"}),
		RecordsDropped:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hotspot_analytics", Name: "records_dropped_total"}),
		AnalyzeDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "hotspot_analytics", Name: "analyze_duration_seconds"}),
		AttributeDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "hotspot_analytics", Name: "attribute_duration_seconds"}),
		WeatherRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hotspot_analytics", Name: "weather_requests_total"}, []string{"outcome"}),
		WeatherCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hotspot_analytics", Name: "weather_cache_total"}, []string{"result"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "hotspot_analytics", Name: "weather_api_duration_seconds"}),
		RegionsLoaded:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "hotspot_analytics", Name: "regions_loaded"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hotspot_analytics", Name: "snapshots_published_total"}),
	}
}
