package events

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	BackendLog   = "log"
	BackendKafka = "kafka"
	BackendSQS   = "sqs"
)

type Options struct {
	Backend      string
	KafkaBrokers []string
	KafkaTopic   string
	SQSQueueURL  string
}

func NewPublisher(ctx context.Context, options Options, logger *zap.Logger) (Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(options.Backend)) {
	case "", BackendLog:
		return NewLogPublisher(logger), nil
	case BackendKafka:
		publisher, err := NewKafkaPublisher(options.KafkaBrokers, options.KafkaTopic)
		if err != nil {
			return nil, err
		}
		return publisher, nil
	case BackendSQS:
		publisher, err := NewSQSPublisher(ctx, options.SQSQueueURL)
		if err != nil {
			return nil, err
		}
		return publisher, nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", options.Backend)
	}
}
