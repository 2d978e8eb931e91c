package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const kafkaWriteTimeout = 10 * time.Second

type kafkaWriter interface {
	WriteMessages(ctx context.Context, messages ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer kafkaWriter
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if topic == "" {
		return nil, errors.New("kafka topic is required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: kafkaWriteTimeout,
	}
	return &KafkaPublisher{writer: writer}, nil
}

func (publisher *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	body, err := Encode(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, kafkaWriteTimeout)
	defer cancel()

	message := kafka.Message{
		Key:   Key(event),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := publisher.writer.WriteMessages(writeCtx, message); err != nil {
		return fmt.Errorf("write kafka message %s: %w", event.Type, err)
	}
	return nil
}

func (publisher *KafkaPublisher) Close() error {
	return publisher.writer.Close()
}
