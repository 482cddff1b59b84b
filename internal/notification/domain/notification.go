// Package domain 通知服务的领域模型
package domain

import (
	"context"
	"time"
)

// Channel 通知渠道
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelOps   Channel = "OPS"
)

// Status 通知状态
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSent    Status = "SENT"
	StatusFailed  Status = "FAILED"
)

// Notification 通知实体
type Notification struct {
	ID        string     `json:"id"`
	Recipient string     `json:"recipient"`
	Channel   Channel    `json:"channel"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	Status    Status     `json:"status"`
	ErrorMsg  string     `json:"error_msg,omitempty"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// MarkSent 记录发送成功
func (n *Notification) MarkSent(now time.Time) {
	n.Status = StatusSent
	n.SentAt = &now
	n.ErrorMsg = ""
}

// MarkFailed 记录发送失败
func (n *Notification) MarkFailed(err error) {
	n.Status = StatusFailed
	if err != nil {
		n.ErrorMsg = err.Error()
	}
}

// NotificationRepository 通知仓储接口
type NotificationRepository interface {
	Save(ctx context.Context, notification *Notification) error
	Update(ctx context.Context, notification *Notification) error
	ListByRecipient(ctx context.Context, recipient string, page, pageSize int) ([]*Notification, int64, error)
}

// Sender 通知投递接口
type Sender interface {
	Send(ctx context.Context, target string, subject string, content string) error
}
