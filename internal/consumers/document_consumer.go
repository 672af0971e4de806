package consumers

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/hadfi53/rakb-sub000/internal/application"
	"github.com/hadfi53/rakb-sub000/internal/events"
	"github.com/hadfi53/rakb-sub000/internal/platform/kafka"
)

// DocumentEventConsumer listens to document approvals from the verification
// collaborator and feeds them into the rule table.
type DocumentEventConsumer struct {
	consumer *kafka.Consumer
	service  *application.VerificationService
	logger   *zap.Logger
}

// NewDocumentEventConsumer creates a new DocumentEventConsumer.
func NewDocumentEventConsumer(
	brokers []string,
	groupID string,
	service *application.VerificationService,
	logger *zap.Logger,
) *DocumentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicDocumentEvents, logger)
	return &DocumentEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming document events. This blocks until the context is cancelled.
func (c *DocumentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *DocumentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *DocumentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from document topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	if cloudEvent.Type != events.DocumentApproved {
		c.logger.Debug("ignoring unhandled document event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	var evt events.DocumentApprovedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse DocumentApprovedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing document approval",
		zap.String("user_id", evt.UserID.String()),
		zap.String("document_type", evt.DocumentType),
	)

	if err := c.service.HandleDocumentApproved(ctx, evt.UserID, evt.DocumentType); err != nil {
		c.logger.Error("failed to handle document approval",
			zap.String("user_id", evt.UserID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
