package application

import (
	"context"
	"fmt"
	"time"

	"github.com/fortivix/guardmarket/internal/notification/domain"
	"github.com/fortivix/guardmarket/pkg/logger"
	"github.com/fortivix/guardmarket/pkg/metrics"
	"github.com/fortivix/guardmarket/pkg/utils"
)

// TopicApplicationSubmitted 入职申请提交事件主题
const TopicApplicationSubmitted = "guard.application.submitted"

// ApplicationSubmittedEvent 入职申请提交事件负载
type ApplicationSubmittedEvent struct {
	EventID     string    `json:"event_id"`
	GuardID     string    `json:"guard_id"`
	Email       string    `json:"email"`
	LegalName   string    `json:"legal_name"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NotificationListDTO 分页通知列表
type NotificationListDTO struct {
	Items []*domain.Notification `json:"items"`
	Total int64                  `json:"total"`
}

// NotificationService 通知服务
type NotificationService struct {
	repo         domain.NotificationRepository
	sender       domain.Sender
	opsRecipient string
	idGen        *utils.SnowflakeID
	metrics      *metrics.Metrics
}

// NewNotificationService 创建通知服务实例
func NewNotificationService(
	repo domain.NotificationRepository,
	sender domain.Sender,
	opsRecipient string,
	idGen *utils.SnowflakeID,
	m *metrics.Metrics,
) *NotificationService {
	return &NotificationService{
		repo:         repo,
		sender:       sender,
		opsRecipient: opsRecipient,
		idGen:        idGen,
		metrics:      m,
	}
}

// HandleApplicationSubmitted 提交事件落地为申请人确认邮件和运营提醒
func (s *NotificationService) HandleApplicationSubmitted(ctx context.Context, event *ApplicationSubmittedEvent) error {
	confirmation := &domain.Notification{
		ID:        fmt.Sprintf("%d", s.idGen.Generate()),
		Recipient: event.Email,
		Channel:   domain.ChannelEmail,
		Subject:   "Application received",
		Body: fmt.Sprintf(
			"Hi %s,\r\n\r\nWe received your guard application and it is now under review. We will email you once a decision is made.\r\n",
			event.LegalName,
		),
		Status:    domain.StatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.dispatch(ctx, confirmation); err != nil {
		return err
	}

	if s.opsRecipient == "" {
		return nil
	}
	alert := &domain.Notification{
		ID:        fmt.Sprintf("%d", s.idGen.Generate()),
		Recipient: s.opsRecipient,
		Channel:   domain.ChannelOps,
		Subject:   "New guard application",
		Body: fmt.Sprintf(
			"Guard %s (%s) submitted an application at %s. Review it in the admin console.\r\n",
			event.LegalName, event.Email, event.SubmittedAt.Format(time.RFC3339),
		),
		Status:    domain.StatusPending,
		CreatedAt: time.Now(),
	}
	return s.dispatch(ctx, alert)
}

// dispatch 先落库再发送，发送结果回写状态
func (s *NotificationService) dispatch(ctx context.Context, notification *domain.Notification) error {
	if err := s.repo.Save(ctx, notification); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	sendErr := s.sender.Send(ctx, notification.Recipient, notification.Subject, notification.Body)
	if sendErr != nil {
		notification.MarkFailed(sendErr)
		logger.Error(ctx, "Failed to send notification",
			"notification_id", notification.ID, "recipient", notification.Recipient, "error", sendErr)
	} else {
		notification.MarkSent(time.Now())
		if s.metrics != nil {
			s.metrics.NotificationsTotal.Inc()
		}
	}

	if err := s.repo.Update(ctx, notification); err != nil {
		logger.Error(ctx, "Failed to update notification status",
			"notification_id", notification.ID, "error", err)
	}
	return sendErr
}

// List 按收件人分页查询通知
func (s *NotificationService) List(ctx context.Context, recipient string, page, pageSize int) (*NotificationListDTO, error) {
	p := utils.NewPagination(page, pageSize, 0)
	items, total, err := s.repo.ListByRecipient(ctx, recipient, p.Page, p.PageSize)
	if err != nil {
		return nil, err
	}
	return &NotificationListDTO{Items: items, Total: total}, nil
}
