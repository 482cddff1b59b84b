package mysql

import (
	"context"
	"time"

	"github.com/fortivix/guardmarket/internal/notification/domain"
	"github.com/fortivix/guardmarket/pkg/db"
)

// NotificationModel MySQL 通知表映射
type NotificationModel struct {
	ID        string     `gorm:"column:id;type:varchar(32);primaryKey"`
	Recipient string     `gorm:"column:recipient;type:varchar(255);index"`
	Channel   string     `gorm:"column:channel;type:varchar(20);not null"`
	Subject   string     `gorm:"column:subject;type:varchar(200)"`
	Body      string     `gorm:"column:body;type:text"`
	Status    string     `gorm:"column:status;type:varchar(20);index;not null;default:'PENDING'"`
	ErrorMsg  string     `gorm:"column:error_msg;type:text"`
	SentAt    *time.Time `gorm:"column:sent_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

type notificationMySQLRepository struct {
	db *db.DB
}

// NewNotificationMySQLRepository 创建通知仓储
func NewNotificationMySQLRepository(database *db.DB) domain.NotificationRepository {
	return &notificationMySQLRepository{db: database}
}

func (r *notificationMySQLRepository) Save(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Create(toNotificationModel(notification)).Error
}

func (r *notificationMySQLRepository) Update(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("id = ?", notification.ID).
		Updates(map[string]interface{}{
			"status":    string(notification.Status),
			"error_msg": notification.ErrorMsg,
			"sent_at":   notification.SentAt,
		}).Error
}

func (r *notificationMySQLRepository) ListByRecipient(ctx context.Context, recipient string, page, pageSize int) ([]*domain.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&NotificationModel{}).Where("recipient = ?", recipient)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []NotificationModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	notifications := make([]*domain.Notification, 0, len(models))
	for i := range models {
		notifications = append(notifications, toNotification(&models[i]))
	}
	return notifications, total, nil
}

func toNotification(model *NotificationModel) *domain.Notification {
	if model == nil {
		return nil
	}
	return &domain.Notification{
		ID:        model.ID,
		Recipient: model.Recipient,
		Channel:   domain.Channel(model.Channel),
		Subject:   model.Subject,
		Body:      model.Body,
		Status:    domain.Status(model.Status),
		ErrorMsg:  model.ErrorMsg,
		SentAt:    model.SentAt,
		CreatedAt: model.CreatedAt,
	}
}

func toNotificationModel(notification *domain.Notification) *NotificationModel {
	if notification == nil {
		return nil
	}
	return &NotificationModel{
		ID:        notification.ID,
		Recipient: notification.Recipient,
		Channel:   string(notification.Channel),
		Subject:   notification.Subject,
		Body:      notification.Body,
		Status:    string(notification.Status),
		ErrorMsg:  notification.ErrorMsg,
		SentAt:    notification.SentAt,
		CreatedAt: notification.CreatedAt,
	}
}
