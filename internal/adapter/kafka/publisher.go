package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/uk-climate-etl/internal/config"
	"github.com/couchcryptid/uk-climate-etl/internal/domain"
)

// Publisher produces merged region records to the sink topic, one message per
// region keyed by region id so downstream consumers get per-region ordering.
// It implements pipeline.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured sink topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishMerged serializes and publishes all merged records in a single
// WriteMessages call.
func (p *Publisher) PublishMerged(ctx context.Context, runID string, merged map[int]domain.MergedRecord) error {
	if len(merged) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, 0, len(merged))
	for id, rec := range merged {
		msg, err := serializeToMessage(runID, id, rec)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

// Close flushes and closes the producer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func serializeToMessage(runID string, regionID int, rec domain.MergedRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize merged record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.Itoa(regionID)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(runID)},
			{Key: "region", Value: []byte(rec.Region)},
		},
	}, nil
}
