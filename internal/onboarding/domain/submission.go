package domain

import (
	"context"
	"time"

	"github.com/wyfcoding/pkg/fsm"
)

// SubmissionStatus 提交流程状态
type SubmissionStatus string

const (
	SubmissionPending               SubmissionStatus = "PENDING"
	SubmissionUploading             SubmissionStatus = "UPLOADING"
	SubmissionProfileCommitted      SubmissionStatus = "PROFILE_COMMITTED"
	SubmissionVerificationCommitted SubmissionStatus = "VERIFICATION_COMMITTED"
	SubmissionCompleted             SubmissionStatus = "COMPLETED"
	SubmissionFailed                SubmissionStatus = "FAILED"
)

// Submission 提交聚合根。把"上传、档案落库、审核记录落库、清理草稿"
// 建模为显式状态机，每次提交尝试内存中跟踪到达的阶段。
type Submission struct {
	GuardID       string           `json:"guard_id"`
	Status        SubmissionStatus `json:"status"`
	FailureReason string           `json:"failure_reason"`
	StartedAt     time.Time        `json:"started_at"`
	CompletedAt   *time.Time       `json:"completed_at"`
	fsm           *fsm.Machine[string, string]
}

// NewSubmission 创建提交聚合
func NewSubmission(guardID string) *Submission {
	s := &Submission{
		GuardID:   guardID,
		Status:    SubmissionPending,
		StartedAt: time.Now(),
	}
	s.initFSM()
	return s
}

func (s *Submission) initFSM() {
	m := fsm.NewMachine[string, string](string(s.Status))
	m.AddTransition(string(SubmissionPending), "UPLOAD", string(SubmissionUploading))
	m.AddTransition(string(SubmissionUploading), "COMMIT_PROFILE", string(SubmissionProfileCommitted))
	m.AddTransition(string(SubmissionProfileCommitted), "COMMIT_VERIFICATION", string(SubmissionVerificationCommitted))
	m.AddTransition(string(SubmissionVerificationCommitted), "COMPLETE", string(SubmissionCompleted))
	m.AddTransition(string(SubmissionPending), "FAIL", string(SubmissionFailed))
	m.AddTransition(string(SubmissionUploading), "FAIL", string(SubmissionFailed))
	m.AddTransition(string(SubmissionProfileCommitted), "FAIL", string(SubmissionFailed))
	m.AddTransition(string(SubmissionVerificationCommitted), "FAIL", string(SubmissionFailed))
	s.fsm = m
}

// InitFSM 确保状态机已初始化
func (s *Submission) InitFSM() {
	if s.fsm == nil {
		s.initFSM()
	}
}

// StartUpload 进入文档上传阶段
func (s *Submission) StartUpload(ctx context.Context) error {
	s.InitFSM()
	if err := s.fsm.Trigger(ctx, "UPLOAD"); err != nil {
		return err
	}
	s.Status = SubmissionUploading
	return nil
}

// CommitProfile 档案 upsert 成功
func (s *Submission) CommitProfile(ctx context.Context) error {
	s.InitFSM()
	if err := s.fsm.Trigger(ctx, "COMMIT_PROFILE"); err != nil {
		return err
	}
	s.Status = SubmissionProfileCommitted
	return nil
}

// CommitVerification 审核记录 upsert 成功
func (s *Submission) CommitVerification(ctx context.Context) error {
	s.InitFSM()
	if err := s.fsm.Trigger(ctx, "COMMIT_VERIFICATION"); err != nil {
		return err
	}
	s.Status = SubmissionVerificationCommitted
	return nil
}

// Complete 草稿清理完成，整个提交成功
func (s *Submission) Complete(ctx context.Context) error {
	s.InitFSM()
	if err := s.fsm.Trigger(ctx, "COMPLETE"); err != nil {
		return err
	}
	s.Status = SubmissionCompleted
	now := time.Now()
	s.CompletedAt = &now
	return nil
}

// Fail 任一阶段失败
func (s *Submission) Fail(ctx context.Context, reason string) error {
	s.InitFSM()
	if err := s.fsm.Trigger(ctx, "FAIL"); err != nil {
		return err
	}
	s.Status = SubmissionFailed
	s.FailureReason = reason
	return nil
}
