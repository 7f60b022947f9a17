package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/maltedev/ekatra-normalizer/internal/fields"
	"github.com/maltedev/ekatra-normalizer/internal/models"
)

// EventType represents the type of event
type EventType string

const (
	// EventTypeProductNormalized is published for every successfully
	// transformed product
	EventTypeProductNormalized EventType = "PRODUCT_NORMALIZED"

	DefaultStream = "stream:catalog_ingest"
)

// StreamClient is the subset of the Redis client used for publishing.
type StreamClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// ProductNormalizedPayload is the event body written to the stream.
type ProductNormalizedPayload struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	Timestamp  time.Time       `json:"timestamp"`
	Entry      string          `json:"entry"`
	DataType   string          `json:"data_type,omitempty"`
	SDKVersion string          `json:"sdk_version,omitempty"`
	Product    *models.Product `json:"product"`
}

// Publisher writes normalized products to a Redis stream.
type Publisher struct {
	redis  StreamClient
	stream string
	logger *slog.Logger
}

func NewPublisher(client StreamClient, stream string, logger *slog.Logger) *Publisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &Publisher{
		redis:  client,
		stream: stream,
		logger: logger.With("component", "event_publisher"),
	}
}

// PublishProductNormalized sends one PRODUCT_NORMALIZED event and returns
// the stream entry id.
func (p *Publisher) PublishProductNormalized(ctx context.Context, payload *ProductNormalizedPayload) (string, error) {
	if payload.Product == nil {
		return "", fmt.Errorf("failed to publish event: product is required")
	}
	if payload.EventID == "" {
		payload.EventID = uuid.New().String()
	}
	if payload.EventType == "" {
		payload.EventType = string(EventTypeProductNormalized)
	}
	if payload.Timestamp.IsZero() {
		payload.Timestamp = time.Now().UTC()
	}

	data, err := fields.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal event: %w", err)
	}

	id, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"event_type": payload.EventType,
			"event_id":   payload.EventID,
			"product_id": payload.Product.ProductID,
			"payload":    string(data),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Info("event published",
		"type", payload.EventType,
		"event_id", payload.EventID,
		"product_id", payload.Product.ProductID,
		"stream", p.stream,
		"stream_id", id,
	)

	return id, nil
}

func (p *Publisher) Close() error {
	return p.redis.Close()
}
