package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pyrewatch/hotspot-analytics/internal/adapter/firms"
	httpadapter "github.com/pyrewatch/hotspot-analytics/internal/adapter/http"
	kafkaadapter "github.com/pyrewatch/hotspot-analytics/internal/adapter/kafka"
	"github.com/pyrewatch/hotspot-analytics/internal/adapter/naturalearth"
	"github.com/pyrewatch/hotspot-analytics/internal/adapter/openmeteo"
	"github.com/pyrewatch/hotspot-analytics/internal/config"
	"github.com/pyrewatch/hotspot-analytics/internal/domain"
	"github.com/pyrewatch/hotspot-analytics/internal/observability"
)

func main() {
	// A local .env is optional; environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	firmsClient := firms.NewClient(cfg.FIRMSMapKey, cfg.FIRMSBaseURL, cfg.FIRMSTimeout, logger, metrics)

	meteoClient := openmeteo.NewClient(cfg.OpenMeteoBaseURL, cfg.OpenMeteoTimeout, logger, metrics)
	weatherProvider := openmeteo.NewCachedProvider(meteoClient, cfg.WeatherCacheSize, metrics)
	matcher := domain.NewMatcher(weatherProvider, logger)

	regions := naturalearth.NewLoader(cfg.RegionURLs, cfg.RegionCachePath, cfg.RegionTimeout, logger, metrics)

	// Export of analyze snapshots is feature-flagged via KAFKA_BROKERS.
	var publisher httpadapter.SnapshotPublisher
	var exporter *kafkaadapter.Exporter
	if cfg.ExportEnabled {
		exporter = kafkaadapter.NewExporter(cfg, logger, metrics)
		publisher = exporter
		logger.Info("snapshot export enabled", "topic", cfg.KafkaSnapshotTopic)
	} else {
		logger.Info("snapshot export disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Fetcher:       firmsClient,
		Regions:       regions,
		Weather:       matcher,
		Publisher:     publisher,
		Ready:         regions,
		Metrics:       metrics,
		DefaultSource: cfg.FIRMSDefaultSource,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the region set so /readyz flips as soon as boundaries are loaded.
	go func() {
		if _, err := regions.Load(ctx); err != nil {
			logger.Error("region load error", "error", err)
		}
	}()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if exporter != nil {
		if err := exporter.Close(); err != nil {
			logger.Error("kafka exporter close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
