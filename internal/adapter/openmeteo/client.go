// Package openmeteo implements the weather reference collaborator against
// the Open-Meteo historical archive, with a quantizing LRU cache in front.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/pyrewatch/hotspot-analytics/internal/domain"
	"github.com/pyrewatch/hotspot-analytics/internal/observability"
)

// Client implements domain.SeriesProvider using the Open-Meteo archive API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an Open-Meteo archive client. No API key is required.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
		metrics: metrics,
	}
}

// FetchDay retrieves one UTC day of hourly temperature and relative
// humidity for a point. Missing values arrive as JSON nulls and stay nil
// in the series; they are missing measurements, not zeros.
func (c *Client) FetchDay(ctx context.Context, lat, lon float64, date string) (domain.HourlySeries, error) {
	params := url.Values{
		"latitude":   {fmt.Sprintf("%g", lat)},
		"longitude":  {fmt.Sprintf("%g", lon)},
		"start_date": {date},
		"end_date":   {date},
		"hourly":     {"temperature_2m,relative_humidity_2m"},
		"timezone":   {"UTC"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.HourlySeries{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.HourlySeries{}, &domain.UpstreamError{Source: "open-meteo", Detail: err.Error()}
	}
	defer resp.Body.Close()
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.HourlySeries{}, &domain.UpstreamError{Source: "open-meteo", Status: resp.StatusCode, Detail: string(body)}
	}

	var payload archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.HourlySeries{}, &domain.UpstreamError{Source: "open-meteo", Detail: fmt.Sprintf("decode response: %v", err)}
	}

	series := domain.HourlySeries{
		Times:       payload.Hourly.Time,
		Temperature: payload.Hourly.Temperature,
		Humidity:    payload.Hourly.Humidity,
	}
	if series.Empty() {
		c.metrics.WeatherRequests.WithLabelValues("empty").Inc()
	} else {
		c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	}
	return series, nil
}

// Open-Meteo API response types.

type archiveResponse struct {
	Hourly hourlyBlock `json:"hourly"`
}

type hourlyBlock struct {
	Time        []string   `json:"time"`
	Temperature []*float64 `json:"temperature_2m"`
	Humidity    []*float64 `json:"relative_humidity_2m"`
}
