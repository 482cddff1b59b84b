package application

import "github.com/fortivix/guardmarket/internal/onboarding/domain"

// ResumeStateDTO 恢复流程时返回的状态
type ResumeStateDTO struct {
	Step      domain.Step             `json:"step"`
	Submitted bool                    `json:"submitted"`
	Form      *domain.ApplicationForm `json:"form,omitempty"`
}

// StepChangeDTO 步骤切换结果。远端进度同步是尽力而为，
// 失败不阻塞步骤变化，只在响应中标记
type StepChangeDTO struct {
	Step           domain.Step `json:"step"`
	ProgressSynced bool        `json:"progress_synced"`
}

// SubmitResultDTO 提交结果
type SubmitResultDTO struct {
	GuardID     string                  `json:"guard_id"`
	Status      domain.SubmissionStatus `json:"status"`
	SubmittedAt string                  `json:"submitted_at"`
}

// QuickApplyDTO 快速申请结果
type QuickApplyDTO struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
}

// FormOptionsDTO 表单静态选项
type FormOptionsDTO struct {
	Skills          []string `json:"skills"`
	Certifications  []string `json:"certifications"`
	Languages       []string `json:"languages"`
	Days            []string `json:"days"`
	Shifts          []string `json:"shifts"`
	ExperienceYears []string `json:"experience_years"`
}
