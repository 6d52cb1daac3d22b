// Package kafka publishes forecast runs to a Kafka topic for downstream
// consumers. Publication is feature-flagged: it only runs when brokers are
// configured.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/config"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/observability"
)

// Writer produces forecast records to the configured topic.
type Writer struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the forecast topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger, metrics: metrics}
}

// PublishForecasts serializes and publishes a full forecast run in a single
// WriteMessages call, keyed by state so per-state ordering holds across runs.
func (w *Writer) PublishForecasts(ctx context.Context, records []domain.ForecastRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i])
		if err != nil {
			w.metrics.PublishErrors.Inc()
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		w.metrics.PublishErrors.Inc()
		return fmt.Errorf("publish forecasts: %w", err)
	}
	w.metrics.ForecastsPublished.Add(float64(len(records)))
	w.logger.Info("published forecasts", "count", len(records), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ForecastRecord into a Kafka message.
func serializeToMessage(rec domain.ForecastRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.State),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "forecast_week", Value: []byte(rec.ForecastWeek.Format("2006-01-02"))},
			{Key: "run_id", Value: []byte(rec.RunID)},
			{Key: "generated_at", Value: []byte(rec.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
