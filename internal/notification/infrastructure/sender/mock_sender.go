package sender

import (
	"context"
	"sync"

	"github.com/fortivix/guardmarket/internal/notification/domain"
	"github.com/fortivix/guardmarket/pkg/logger"
)

// SentMail 记录的已发送邮件
type SentMail struct {
	Target  string
	Subject string
	Content string
}

// MockSender 本地开发用发送器，只记录不外发
type MockSender struct {
	mu   sync.Mutex
	sent []SentMail
}

func NewMockSender() *MockSender {
	return &MockSender{}
}

var _ domain.Sender = (*MockSender)(nil)

func (s *MockSender) Send(ctx context.Context, target string, subject string, content string) error {
	s.mu.Lock()
	s.sent = append(s.sent, SentMail{Target: target, Subject: subject, Content: content})
	s.mu.Unlock()

	logger.Info(ctx, "Mock email captured", "target", target, "subject", subject)
	return nil
}

// Sent 返回已记录邮件的副本
func (s *MockSender) Sent() []SentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentMail, len(s.sent))
	copy(out, s.sent)
	return out
}
