package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// FIRMS feed configuration.
	FIRMSMapKey        string
	FIRMSBaseURL       string
	FIRMSTimeout       time.Duration
	FIRMSDefaultSource string

	// Open-Meteo weather archive configuration.
	OpenMeteoBaseURL string
	OpenMeteoTimeout time.Duration
	WeatherCacheSize int

	// Natural Earth region reference configuration.
	RegionURLs      []string
	RegionCachePath string
	RegionTimeout   time.Duration

	// Kafka snapshot export configuration. Export is enabled when brokers
	// are configured.
	KafkaBrokers       []string
	KafkaSnapshotTopic string
	ExportEnabled      bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	firmsTimeout, err := parseDuration("FIRMS_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	openMeteoTimeout, err := parseDuration("OPENMETEO_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	regionTimeout, err := parseDuration("REGIONS_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseWeatherCacheSize()
	if err != nil {
		return nil, err
	}

	brokers := parseList(os.Getenv("KAFKA_BROKERS"))

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FIRMSMapKey:        os.Getenv("FIRMS_MAP_KEY"),
		FIRMSBaseURL:       envOrDefault("FIRMS_BASE_URL", "https://firms.modaps.eosdis.nasa.gov/api/area/csv"),
		FIRMSTimeout:       firmsTimeout,
		FIRMSDefaultSource: envOrDefault("FIRMS_DEFAULT_SOURCE", "VIIRS_NOAA20_NRT"),

		OpenMeteoBaseURL: envOrDefault("OPENMETEO_BASE_URL", "https://archive-api.open-meteo.com/v1/archive"),
		OpenMeteoTimeout: openMeteoTimeout,
		WeatherCacheSize: cacheSize,

		RegionURLs: parseList(envOrDefault("REGIONS_URLS",
			"https://naturalearth.s3.amazonaws.com/110m_cultural/ne_110m_admin_0_countries.geojson,"+
				"https://naciscdn.org/naturalearth/110m/cultural/ne_110m_admin_0_countries.geojson")),
		RegionCachePath: envOrDefault("REGIONS_CACHE_PATH", "data/ne_110m_admin_0_countries.geojson"),
		RegionTimeout:   regionTimeout,

		KafkaBrokers:       brokers,
		KafkaSnapshotTopic: envOrDefault("KAFKA_SNAPSHOT_TOPIC", "hotspot-analytics-snapshots"),
		ExportEnabled:      len(brokers) > 0,
	}

	if cfg.FIRMSMapKey == "" {
		return nil, errors.New("FIRMS_MAP_KEY is required")
	}
	if len(cfg.RegionURLs) == 0 {
		return nil, errors.New("REGIONS_URLS is required")
	}
	if cfg.ExportEnabled && cfg.KafkaSnapshotTopic == "" {
		return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseWeatherCacheSize() (int, error) {
	s := os.Getenv("WEATHER_CACHE_SIZE")
	if s == "" {
		return 10000, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid WEATHER_CACHE_SIZE")
	}
	return n, nil
}
