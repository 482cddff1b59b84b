package consumer

import (
	"context"
	"errors"
	"fmt"

	"github.com/fortivix/guardmarket/internal/notification/application"
	"github.com/fortivix/guardmarket/pkg/logger"
	"github.com/fortivix/guardmarket/pkg/mq"
)

// EventConsumer 消费入职提交事件并触发通知
type EventConsumer struct {
	consumer *mq.KafkaConsumer
	dlq      *mq.DeadLetterQueue
	app      *application.NotificationService
}

// NewEventConsumer 创建事件消费者
func NewEventConsumer(consumer *mq.KafkaConsumer, dlq *mq.DeadLetterQueue, app *application.NotificationService) *EventConsumer {
	return &EventConsumer{
		consumer: consumer,
		dlq:      dlq,
		app:      app,
	}
}

// Start 阻塞消费直到上下文取消
func (c *EventConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.consumer.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			logger.Error(ctx, "Failed to read event message", "error", err)
			continue
		}

		if err := c.Handle(ctx, msg); err != nil {
			logger.Error(ctx, "Failed to handle event message",
				"topic", msg.Topic, "key", msg.Key, "offset", msg.Offset, "error", err)
			if c.dlq != nil {
				if dlqErr := c.dlq.Send(ctx, msg, "notification handling failed", err); dlqErr != nil {
					logger.Error(ctx, "Failed to forward message to dead letter queue", "error", dlqErr)
				}
			}
		}
	}
}

// Handle 处理单条消息
func (c *EventConsumer) Handle(ctx context.Context, msg *mq.Message) error {
	var event application.ApplicationSubmittedEvent
	if err := msg.UnmarshalPayload(&event); err != nil {
		return fmt.Errorf("failed to decode submitted event: %w", err)
	}
	if event.GuardID == "" || event.Email == "" {
		return fmt.Errorf("submitted event missing guard_id or email")
	}
	return c.app.HandleApplicationSubmitted(ctx, &event)
}

// Close 关闭底层消费者
func (c *EventConsumer) Close() error {
	return c.consumer.Close()
}
