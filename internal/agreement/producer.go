package agreement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Lifecycle event types published to Kafka.
const (
	EventAgreementCreated     = "AGREEMENT_CREATED"
	EventAgreementFinalized   = "AGREEMENT_FINALIZED"
	EventNftCollectionCreated = "NFT_COLLECTION_CREATED"
	EventTicketIssued         = "TICKET_ISSUED"
	EventTicketScanned        = "TICKET_SCANNED"
	EventPayoutCollected      = "PAYOUT_COLLECTED"
)

// LifecycleEvent is the message body published for downstream consumers
// (notifications, analytics) whenever an agreement changes state.
type LifecycleEvent struct {
	ID          uuid.UUID              `json:"id"`
	Type        string                 `json:"type"`
	AgreementID uuid.UUID              `json:"agreement_id"`
	OccurredAt  time.Time              `json:"occurred_at"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
}

// EventPublisher interface defines the contract for publishing lifecycle
// events.
type EventPublisher interface {
	Publish(ctx context.Context, event *LifecycleEvent) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka event producer.
type KafkaProducerConfig struct {
	Brokers   []string
	Topic     string
	RetryMax  int
	TimeoutMs int
}

// DefaultKafkaProducerConfig returns a default producer configuration.
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:   []string{"localhost:9092"},
		Topic:     "agreement-lifecycle",
		RetryMax:  3,
		TimeoutMs: 10000,
	}
}

// KafkaEventPublisher publishes lifecycle events to Kafka, keyed by
// agreement id so one agreement's events stay ordered within a partition.
type KafkaEventPublisher struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaEventPublisher creates a new Kafka lifecycle event publisher.
func NewKafkaEventPublisher(config *KafkaProducerConfig) (EventPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &KafkaEventPublisher{producer: producer, config: config}, nil
}

// Publish sends one lifecycle event.
func (p *KafkaEventPublisher) Publish(ctx context.Context, event *LifecycleEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal lifecycle event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.config.Topic,
		Key:   sarama.StringEncoder(event.AgreementID.String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

// Close shuts the underlying producer down.
func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}

// NopEventPublisher drops events. Used when Kafka is not configured.
type NopEventPublisher struct{}

func (NopEventPublisher) Publish(ctx context.Context, event *LifecycleEvent) error { return nil }
func (NopEventPublisher) Close() error                                             { return nil }
