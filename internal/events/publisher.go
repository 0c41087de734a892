// Package events ships storefront analytics beacons to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"badgr/internal/logger"
	"badgr/internal/models"

	"github.com/segmentio/kafka-go"
)

type Publisher interface {
	Publish(ctx context.Context, event models.TrackEvent) error
	Close() error
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
	logger *logger.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error("Failed to deliver %d widget events: %v", len(messages), err)
			}
		},
	}
	return NewPublisherWithWriter(writer, log)
}

func NewPublisherWithWriter(writer MessageWriter, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: log}
}

// Publish keys messages by shop domain so one shop's events stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, event models.TrackEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.ShopDomain),
		Value: value,
		Time:  event.ReceivedAt,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event.Event)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	p.logger.Debug("Published widget event %s (%s)", event.Event, event.ID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher is used when no brokers are configured.
type LogPublisher struct {
	logger *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{logger: log}
}

func (p *LogPublisher) Publish(ctx context.Context, event models.TrackEvent) error {
	p.logger.Info("Widget event %s from %s", event.Event, event.ShopDomain)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}

// New returns a Kafka publisher when brokers are set, otherwise a LogPublisher.
func New(brokers []string, topic string, log *logger.Logger) Publisher {
	if len(brokers) == 0 {
		return NewLogPublisher(log)
	}
	return NewKafkaPublisher(brokers, topic, log)
}
