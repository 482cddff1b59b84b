// Package messaging 使用 Outbox 模式发布入职领域事件
package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fortivix/guardmarket/internal/onboarding/domain"
	"github.com/fortivix/guardmarket/pkg/logger"
	"github.com/fortivix/guardmarket/pkg/mq"
)

// OutboxMessage 待发布事件行
type OutboxMessage struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	EventID   string    `gorm:"type:varchar(36);index"`
	EventType string    `gorm:"type:varchar(100);index"`
	Topic     string    `gorm:"type:varchar(100)"`
	Key       string    `gorm:"column:message_key;type:varchar(64)"`
	Payload   string    `gorm:"type:text"`
	Status    string    `gorm:"type:varchar(20);index;default:'pending'"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName 指定表名
func (OutboxMessage) TableName() string {
	return "guard_onboarding_outbox"
}

// OutboxPublisher 实现了 EventPublisher 接口，事件先落库再异步投递
type OutboxPublisher struct {
	db *gorm.DB
}

// NewOutboxPublisher 创建 OutboxPublisher
func NewOutboxPublisher(db *gorm.DB) *OutboxPublisher {
	return &OutboxPublisher{db: db}
}

var _ domain.EventPublisher = (*OutboxPublisher)(nil)

// PublishApplicationSubmitted 发布申请提交事件
func (p *OutboxPublisher) PublishApplicationSubmitted(event *domain.ApplicationSubmittedEvent) error {
	return p.publishEvent("ApplicationSubmittedEvent", domain.TopicApplicationSubmitted, event.GuardID, event.EventID, event)
}

// PublishStepChanged 发布步骤切换事件
func (p *OutboxPublisher) PublishStepChanged(event *domain.StepChangedEvent) error {
	return p.publishEvent("StepChangedEvent", domain.TopicStepChanged, event.GuardID, event.EventID, event)
}

func (p *OutboxPublisher) publishEvent(eventType, topic, key, eventID string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	message := OutboxMessage{
		ID:        uuid.New().String(),
		EventID:   eventID,
		EventType: eventType,
		Topic:     topic,
		Key:       key,
		Payload:   string(payload),
		Status:    "pending",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	return p.db.Create(&message).Error
}

// OutboxProcessor 后台扫描 pending 行并投递到 Kafka
type OutboxProcessor struct {
	db       *gorm.DB
	producer *mq.KafkaProducer
	interval time.Duration
	batch    int
}

// NewOutboxProcessor 创建 OutboxProcessor
func NewOutboxProcessor(db *gorm.DB, producer *mq.KafkaProducer, interval time.Duration, batch int) *OutboxProcessor {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batch <= 0 {
		batch = 100
	}
	return &OutboxProcessor{db: db, producer: producer, interval: interval, batch: batch}
}

// Start 循环处理直到 context 取消
func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.ProcessPending(ctx); err != nil {
				logger.Error(ctx, "outbox sweep failed", "error", err)
			}
		}
	}
}

// ProcessPending 发布一批待处理消息。投递失败的行保持 pending，
// 留给下一轮扫描。
func (p *OutboxProcessor) ProcessPending(ctx context.Context) error {
	var messages []OutboxMessage
	if err := p.db.WithContext(ctx).
		Where("status = ?", "pending").
		Order("created_at").
		Limit(p.batch).
		Find(&messages).Error; err != nil {
		return err
	}

	for _, message := range messages {
		var payload json.RawMessage = []byte(message.Payload)
		if err := p.producer.SendMessage(ctx, message.Topic, message.Key, payload); err != nil {
			logger.Warn(ctx, "outbox message publish failed, will retry",
				"event_id", message.EventID, "topic", message.Topic, "error", err)
			continue
		}

		if err := p.db.WithContext(ctx).Model(&OutboxMessage{}).
			Where("id = ?", message.ID).
			Updates(map[string]any{"status": "sent", "updated_at": time.Now()}).Error; err != nil {
			return err
		}
	}

	return nil
}

// Cleanup 清理指定时间之前已发送的消息
func (p *OutboxProcessor) Cleanup(ctx context.Context, before time.Time) error {
	return p.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", "sent", before).
		Delete(&OutboxMessage{}).Error
}
