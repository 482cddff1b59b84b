package consumer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortivix/guardmarket/internal/notification/application"
	"github.com/fortivix/guardmarket/internal/notification/domain"
	"github.com/fortivix/guardmarket/pkg/metrics"
	"github.com/fortivix/guardmarket/pkg/mq"
	"github.com/fortivix/guardmarket/pkg/utils"
)

type memRepo struct {
	saved []*domain.Notification
}

func (f *memRepo) Save(ctx context.Context, n *domain.Notification) error {
	f.saved = append(f.saved, n)
	return nil
}

func (f *memRepo) Update(ctx context.Context, n *domain.Notification) error { return nil }

func (f *memRepo) ListByRecipient(ctx context.Context, recipient string, page, pageSize int) ([]*domain.Notification, int64, error) {
	return nil, 0, nil
}

type noopSender struct{}

func (noopSender) Send(ctx context.Context, target, subject, content string) error { return nil }

func newTestConsumer(repo *memRepo) *EventConsumer {
	svc := application.NewNotificationService(repo, noopSender{}, "ops@example.com", utils.NewSnowflakeID(7), metrics.New("test"))
	return NewEventConsumer(nil, nil, svc)
}

func TestHandleSubmittedEvent(t *testing.T) {
	repo := &memRepo{}
	c := newTestConsumer(repo)

	payload, err := json.Marshal(application.ApplicationSubmittedEvent{
		EventID:     "evt-1",
		GuardID:     "g-1",
		Email:       "jane@example.com",
		LegalName:   "Jane Doe",
		SubmittedAt: time.Now(),
	})
	require.NoError(t, err)

	msg := &mq.Message{Topic: application.TopicApplicationSubmitted, Key: "g-1", Value: payload}
	require.NoError(t, c.Handle(context.Background(), msg))
	assert.Len(t, repo.saved, 2)
}

func TestHandleRejectsMalformedPayload(t *testing.T) {
	c := newTestConsumer(&memRepo{})

	msg := &mq.Message{Topic: application.TopicApplicationSubmitted, Value: []byte("{not json")}
	assert.Error(t, c.Handle(context.Background(), msg))
}

func TestHandleRejectsIncompleteEvent(t *testing.T) {
	repo := &memRepo{}
	c := newTestConsumer(repo)

	payload, _ := json.Marshal(application.ApplicationSubmittedEvent{EventID: "evt-2"})
	msg := &mq.Message{Topic: application.TopicApplicationSubmitted, Value: payload}
	assert.Error(t, c.Handle(context.Background(), msg))
	assert.Empty(t, repo.saved)
}
