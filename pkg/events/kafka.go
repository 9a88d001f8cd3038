package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a single topic.
type KafkaPublisher struct {
	topic  string
	writer messageWriter
}

// NewKafkaPublisher creates a synchronous writer for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("events: at least one broker required")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{
		topic: topic,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			RequiredAcks:           kafka.RequireAll,
			Compression:            kafka.Snappy,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}, nil
}

func (p *KafkaPublisher) PublishActivityCreated(ctx context.Context, ev ActivityCreated) error {
	payload, err := ev.Encode()
	if err != nil {
		return fmt.Errorf("events: encode: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.ActivityID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("activity.created")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: write %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Topic() string {
	return p.topic
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
