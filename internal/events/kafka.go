package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// KafkaPublisher forwards emitted events to a Kafka topic
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
}

// NewKafkaPublisher creates an idempotent producer for topic
func NewKafkaPublisher(brokers, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     brokers,
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 5,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	publisher := &KafkaPublisher{
		producer: p,
		topic:    topic,
		logger:   logger,
	}

	go publisher.handleDeliveryReports()

	logger.Info("Kafka publisher initialized", "brokers", brokers, "topic", topic)
	return publisher, nil
}

// Handle is an events.Handler that publishes ev keyed by post id.
// Failures are logged; the feed never waits on Kafka.
func (p *KafkaPublisher) Handle(_ context.Context, ev Event) {
	value, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("Failed to marshal event", "type", ev.Type, "error", err)
		return
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(strconv.FormatInt(ev.PostID, 10)),
		Value:          value,
		Headers:        []kafka.Header{{Key: "event_type", Value: []byte(ev.Type)}},
	}

	if err := p.producer.Produce(msg, nil); err != nil {
		p.logger.Error("Failed to produce event", "type", ev.Type, "post_id", ev.PostID, "error", err)
	}
}

func (p *KafkaPublisher) handleDeliveryReports() {
	for e := range p.producer.Events() {
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			p.logger.Error("Event delivery failed",
				"topic", p.topic,
				"error", m.TopicPartition.Error)
		}
	}
}

// Close flushes pending messages (up to 10 seconds) and closes the producer
func (p *KafkaPublisher) Close() {
	if remaining := p.producer.Flush(10000); remaining > 0 {
		p.logger.Warn("Some events were not delivered", "count", remaining)
	}
	p.producer.Close()
	p.logger.Info("Kafka publisher closed")
}
