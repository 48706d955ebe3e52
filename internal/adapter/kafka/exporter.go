// Package kafka publishes analytics snapshots to a sink topic for
// downstream consumers (dashboards, alerting). Export is feature-flagged:
// the exporter is only constructed when brokers are configured.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/pyrewatch/hotspot-analytics/internal/analytics"
	"github.com/pyrewatch/hotspot-analytics/internal/config"
	"github.com/pyrewatch/hotspot-analytics/internal/observability"
)

// Snapshot is the serialized form of one analyze query result.
type Snapshot struct {
	Source  string            `json:"source"`
	BBox    string            `json:"bbox"`
	Days    int               `json:"days"`
	Summary analytics.Summary `json:"summary"`
}

// Exporter produces snapshots to the configured Kafka topic.
type Exporter struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewExporter creates a Kafka producer for the snapshot topic.
func NewExporter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Exporter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSnapshotTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Exporter{writer: w, logger: logger, metrics: metrics}
}

// Publish serializes and writes one snapshot. Failures are logged and
// returned but do not affect the query that produced the snapshot.
func (e *Exporter) Publish(ctx context.Context, snap Snapshot) error {
	msg, err := serializeToMessage(snap)
	if err != nil {
		return err
	}
	if err := e.writer.WriteMessages(ctx, msg); err != nil {
		e.logger.Warn("snapshot publish failed", "error", err, "source", snap.Source, "bbox", snap.BBox)
		return err
	}
	e.metrics.SnapshotsPublished.Inc()
	return nil
}

func (e *Exporter) Close() error {
	return e.writer.Close()
}

// serializeToMessage marshals a Snapshot into a Kafka message keyed by
// source and query box so snapshots for the same window land in order.
func serializeToMessage(snap Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snap.Source + "|" + snap.BBox),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(snap.Source)},
			{Key: "generated_at", Value: []byte(snap.Summary.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
