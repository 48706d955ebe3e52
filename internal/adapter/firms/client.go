// Package firms fetches active-fire detections from the NASA FIRMS area
// CSV API and decodes them into domain batches.
package firms

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pyrewatch/hotspot-analytics/internal/domain"
	"github.com/pyrewatch/hotspot-analytics/internal/observability"
)

// sourceAliases maps legacy dataset names to valid FIRMS dataset IDs.
var sourceAliases = map[string]string{
	"viirs":        "VIIRS_NOAA20_NRT",
	"viirs_noaa20": "VIIRS_NOAA20_NRT",
	"viirs_snpp":   "VIIRS_SNPP_NRT",
	"modis":        "MODIS_C6_1",
}

// NormalizeSource resolves legacy dataset aliases; unknown names pass
// through unchanged so new FIRMS datasets work without a code change.
func NormalizeSource(source string) string {
	if canonical, ok := sourceAliases[strings.ToLower(source)]; ok {
		return canonical
	}
	return source
}

// Client fetches hotspot batches from the FIRMS area API.
type Client struct {
	mapKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a FIRMS client. baseURL has no trailing slash.
func NewClient(mapKey, baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		mapKey: mapKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
		metrics: metrics,
	}
}

// FetchArea retrieves detections for a bounding box over the trailing
// number of days and parses them into a batch. Rows with bad coordinates
// are dropped and counted, never fatal; a non-200 response is an
// UpstreamError.
func (c *Client) FetchArea(ctx context.Context, source string, bbox domain.BoundingBox, days int) (domain.Batch, error) {
	source = NormalizeSource(source)
	u := fmt.Sprintf("%s/%s/%s/%s/%d", c.baseURL, c.mapKey, source, bbox.String(), days)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Batch{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues(source, "error").Inc()
		return domain.Batch{}, &domain.UpstreamError{Source: "firms", Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.FeedRequests.WithLabelValues(source, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Batch{}, &domain.UpstreamError{Source: "firms", Status: resp.StatusCode, Detail: string(body)}
	}

	batch, dropped, err := decodeCSV(resp.Body)
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues(source, "error").Inc()
		return domain.Batch{}, &domain.UpstreamError{Source: "firms", Detail: fmt.Sprintf("decode csv: %v", err)}
	}

	c.metrics.FeedRequests.WithLabelValues(source, "success").Inc()
	c.metrics.RecordsParsed.Add(float64(len(batch.Records)))
	c.metrics.RecordsDropped.Add(float64(dropped))
	c.logger.Debug("fetched hotspot batch",
		"source", source,
		"bbox", bbox.String(),
		"days", days,
		"records", len(batch.Records),
		"dropped", dropped,
	)

	return batch, nil
}

// decodeCSV reads the FIRMS CSV payload into a batch. An empty body (no
// header) is an empty batch, not an error.
func decodeCSV(r io.Reader) (domain.Batch, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // FIRMS occasionally pads rows unevenly

	header, err := reader.Read()
	if err == io.EOF {
		return domain.Batch{}, 0, nil
	}
	if err != nil {
		return domain.Batch{}, 0, err
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.Batch{}, 0, err
		}
		rows = append(rows, row)
	}

	batch, dropped := domain.ParseBatch(header, rows)
	return batch, dropped, nil
}
