package events

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher writes events to the application log. It is the default when no broker is set.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger.Named("events")}
}

func (publisher *LogPublisher) Publish(_ context.Context, event Event) error {
	publisher.logger.Info("event published",
		zap.String("type", event.Type),
		zap.Uint("user_id", event.UserID),
		zap.String("date", event.Date),
		zap.Time("occurred_at", event.OccurredAt),
		zap.Any("payload", event.Payload),
	)
	return nil
}

func (publisher *LogPublisher) Close() error {
	return nil
}
