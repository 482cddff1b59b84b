package domain

import "time"

// GuardStatus 申请人状态
type GuardStatus string

const (
	StatusUnset           GuardStatus = "unset"
	StatusOnboarding      GuardStatus = "onboarding"
	StatusPendingApproval GuardStatus = "pending_approval"
	StatusApproved        GuardStatus = "approved"
)

// Submitted 状态是否视为已提交（再次进入流程直接展示完成态）
func (s GuardStatus) Submitted() bool {
	return s == StatusPendingApproval || s == StatusApproved
}

// Profile 申请人档案
type Profile struct {
	ID                    string      `json:"id"`
	Email                 string      `json:"email"`
	GuardStatus           GuardStatus `json:"guard_status"`
	OnboardingStep        Step        `json:"guard_onboarding_step"`
	OnboardingCompletedAt *time.Time  `json:"guard_onboarding_completed_at"`
	IsGuard               bool        `json:"is_guard"`
	Skills                []string    `json:"skills"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// MarkSubmitted 提交成功时的档案变更
func (p *Profile) MarkSubmitted(email string, skills []string, now time.Time) {
	p.Email = email
	p.GuardStatus = StatusPendingApproval
	p.OnboardingCompletedAt = &now
	p.IsGuard = true
	p.Skills = skills
}
