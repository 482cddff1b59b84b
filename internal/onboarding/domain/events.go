package domain

import "time"

// Kafka 主题
const (
	TopicApplicationSubmitted = "guard.application.submitted"
	TopicStepChanged          = "guard.onboarding.step_changed"
)

// ApplicationSubmittedEvent 申请提交完成事件
type ApplicationSubmittedEvent struct {
	EventID     string    `json:"event_id"`
	GuardID     string    `json:"guard_id"`
	Email       string    `json:"email"`
	LegalName   string    `json:"legal_name"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// StepChangedEvent 步骤切换事件
type StepChangedEvent struct {
	EventID   string    `json:"event_id"`
	GuardID   string    `json:"guard_id"`
	ToStep    Step      `json:"to_step"`
	ChangedAt time.Time `json:"changed_at"`
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	PublishApplicationSubmitted(event *ApplicationSubmittedEvent) error
	PublishStepChanged(event *StepChangedEvent) error
}
