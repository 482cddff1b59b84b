package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	transaction "github.com/wyfcoding/pkg/saga"

	"github.com/fortivix/guardmarket/internal/onboarding/domain"
	"github.com/fortivix/guardmarket/pkg/logger"
)

// ResumeState 恢复申请人的流程状态。草稿优先于远端进度；
// 远端查询失败记录日志并视为无远端状态（回落到第 1 步）。
func (s *OnboardingService) ResumeState(ctx context.Context, guardID string) (*ResumeStateDTO, error) {
	draft, err := s.drafts.Get(ctx, guardID)
	if err != nil && !errors.Is(err, domain.ErrDraftNotFound) {
		logger.Warn(ctx, "draft lookup failed, falling back to remote progress", "guard_id", guardID, "error", err)
	}
	if draft != nil && draft.Data != nil {
		return &ResumeStateDTO{
			Step: draft.Step.Clamp(),
			Form: draft.Data,
		}, nil
	}

	profile, err := s.profiles.Get(ctx, guardID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			logger.Warn(ctx, "profile lookup failed, starting from step 1", "guard_id", guardID, "error", err)
		}
		return &ResumeStateDTO{Step: domain.FirstStep}, nil
	}

	if profile.GuardStatus.Submitted() {
		return &ResumeStateDTO{Step: domain.LastStep, Submitted: true}, nil
	}
	if profile.GuardStatus == domain.StatusOnboarding && profile.OnboardingStep.Valid() {
		return &ResumeStateDTO{Step: profile.OnboardingStep}, nil
	}
	return &ResumeStateDTO{Step: domain.FirstStep}, nil
}

// SaveDraft 写入草稿槽位，后写覆盖先写
func (s *OnboardingService) SaveDraft(ctx context.Context, guardID string, form *domain.ApplicationForm, step domain.Step) error {
	if err := s.drafts.Save(ctx, domain.NewDraft(guardID, form, step)); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	s.metrics.DraftSavesTotal.Inc()
	return nil
}

// GoToStep 切换当前步骤。草稿随步骤一并落盘；
// 远端进度 upsert 是尽力而为，失败只降级为 progress_synced=false。
func (s *OnboardingService) GoToStep(ctx context.Context, guardID string, form *domain.ApplicationForm, target domain.Step) (*StepChangeDTO, error) {
	target = target.Clamp()

	if form != nil {
		if err := s.SaveDraft(ctx, guardID, form, target); err != nil {
			return nil, err
		}
	}

	synced := true
	if err := s.profiles.UpsertProgress(ctx, guardID, target, domain.StatusOnboarding); err != nil {
		logger.Warn(ctx, "progress sync failed, step change proceeds", "guard_id", guardID, "step", target, "error", err)
		synced = false
	}

	if err := s.publisher.PublishStepChanged(&domain.StepChangedEvent{
		EventID:   uuid.New().String(),
		GuardID:   guardID,
		ToStep:    target,
		ChangedAt: time.Now(),
	}); err != nil {
		logger.Warn(ctx, "step change event not recorded", "guard_id", guardID, "error", err)
	}

	return &StepChangeDTO{Step: target, ProgressSynced: synced}, nil
}

// Advance 前进一步。离开当前步骤前按该步骤规则校验，
// 校验失败返回字段级错误且步骤不变。
func (s *OnboardingService) Advance(ctx context.Context, guardID string, form *domain.ApplicationForm, current domain.Step) (*StepChangeDTO, error) {
	current = current.Clamp()
	if errs := domain.ValidateStep(current, form); len(errs) > 0 {
		return nil, errs
	}
	return s.GoToStep(ctx, guardID, form, current+1)
}

// Back 后退一步，不校验
func (s *OnboardingService) Back(ctx context.Context, guardID string, form *domain.ApplicationForm, current domain.Step) (*StepChangeDTO, error) {
	return s.GoToStep(ctx, guardID, form, current.Clamp()-1)
}

// Submit 最终提交。四份文档并发上传后，按序执行档案 upsert、
// 审核记录 upsert、草稿清理；无回滚，重试依赖稳定冲突键自愈。
func (s *OnboardingService) Submit(ctx context.Context, guardID string, form *domain.ApplicationForm) (*SubmitResultDTO, error) {
	for step := domain.FirstStep; step <= domain.LastStep; step++ {
		if errs := domain.ValidateStep(step, form); len(errs) > 0 {
			return nil, errs
		}
	}

	submission := domain.NewSubmission(guardID)
	now := time.Now()
	state := &submitState{guardID: guardID, form: form, now: now}

	saga := transaction.NewCoordinator()
	saga.AddStep(&DocumentUploadStep{
		BaseStep:   transaction.BaseStep{StepName: "DocumentUpload"},
		service:    s,
		submission: submission,
		state:      state,
	}).AddStep(&ProfileCommitStep{
		BaseStep:   transaction.BaseStep{StepName: "ProfileCommit"},
		service:    s,
		submission: submission,
		state:      state,
	}).AddStep(&VerificationCommitStep{
		BaseStep:   transaction.BaseStep{StepName: "VerificationCommit"},
		service:    s,
		submission: submission,
		state:      state,
	}).AddStep(&DraftClearStep{
		BaseStep:   transaction.BaseStep{StepName: "DraftClear"},
		service:    s,
		submission: submission,
		state:      state,
	})

	if err := saga.Execute(ctx); err != nil {
		if ferr := submission.Fail(ctx, err.Error()); ferr != nil {
			logger.Warn(ctx, "submission state not marked failed", "guard_id", guardID, "error", ferr)
		}
		s.metrics.SubmissionFailures.Inc()
		logger.Error(ctx, "application submission failed", "guard_id", guardID, "error", err)
		return nil, err
	}

	s.metrics.SubmissionsTotal.Inc()
	logger.Info(ctx, "application submitted", "guard_id", guardID)

	if err := s.publisher.PublishApplicationSubmitted(&domain.ApplicationSubmittedEvent{
		EventID:     uuid.New().String(),
		GuardID:     guardID,
		Email:       form.Email,
		LegalName:   form.FullLegalName(),
		SubmittedAt: now,
	}); err != nil {
		logger.Warn(ctx, "submission event not recorded", "guard_id", guardID, "error", err)
	}

	return &SubmitResultDTO{
		GuardID:     guardID,
		Status:      submission.Status,
		SubmittedAt: now.Format(time.RFC3339),
	}, nil
}

// QuickApply 单页快速申请
func (s *OnboardingService) QuickApply(ctx context.Context, app *domain.QuickApplication) (*QuickApplyDTO, error) {
	if errs := app.Validate(); len(errs) > 0 {
		return nil, errs
	}

	app.ID = s.idGen.Generate()
	app.CreatedAt = time.Now()

	if err := s.applications.Save(ctx, app); err != nil {
		return nil, fmt.Errorf("save quick application: %w", err)
	}

	logger.Info(ctx, "quick application received", "application_id", app.ID, "email", app.Email)
	return &QuickApplyDTO{
		ID:        app.ID,
		CreatedAt: app.CreatedAt.Format(time.RFC3339),
	}, nil
}
