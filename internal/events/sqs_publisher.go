package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type SQSPublisher struct {
	client   sqsSender
	queueURL string
}

// NewSQSPublisher resolves credentials and region from the default AWS chain.
func NewSQSPublisher(ctx context.Context, queueURL string) (*SQSPublisher, error) {
	if queueURL == "" {
		return nil, errors.New("sqs queue url is required")
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SQSPublisher{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}, nil
}

func (publisher *SQSPublisher) Publish(ctx context.Context, event Event) error {
	body, err := Encode(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}

	_, err = publisher.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(publisher.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Type),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send sqs message %s: %w", event.Type, err)
	}
	return nil
}

func (publisher *SQSPublisher) Close() error {
	return nil
}
