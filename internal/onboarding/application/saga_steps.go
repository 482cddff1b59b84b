package application

import (
	"context"
	"fmt"
	"time"

	transaction "github.com/wyfcoding/pkg/saga"
	"golang.org/x/sync/errgroup"

	"github.com/fortivix/guardmarket/internal/onboarding/domain"
)

// submitState 在各 saga 步骤间传递的提交上下文
type submitState struct {
	guardID string
	form    *domain.ApplicationForm
	now     time.Time
	docs    domain.UploadedDocuments
}

// DocumentUploadStep 四份证件并发上传步骤
type DocumentUploadStep struct {
	transaction.BaseStep
	service    *OnboardingService
	submission *domain.Submission
	state      *submitState
}

func (s *DocumentUploadStep) Execute(ctx context.Context) error {
	if err := s.submission.StartUpload(ctx); err != nil {
		return err
	}

	form := s.state.form
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		url, err := s.service.uploadDocument(gctx, s.state.guardID, "idPhotoFrontUrl", form.IDFront)
		s.state.docs.IDFrontURL = url
		return err
	})
	g.Go(func() error {
		url, err := s.service.uploadDocument(gctx, s.state.guardID, "idPhotoBackUrl", form.IDBack)
		s.state.docs.IDBackURL = url
		return err
	})
	g.Go(func() error {
		url, err := s.service.uploadDocument(gctx, s.state.guardID, "selfiePhotoUrl", form.Selfie)
		s.state.docs.SelfieURL = url
		return err
	})
	g.Go(func() error {
		url, err := s.service.uploadDocument(gctx, s.state.guardID, "licensePhotoUrl", form.LicensePhoto)
		s.state.docs.LicenseURL = url
		return err
	})

	return g.Wait()
}

// Compensate 已落盘的对象保留在存储中，不做清理（可接受的泄漏）
func (s *DocumentUploadStep) Compensate(ctx context.Context) error {
	return nil
}

// ProfileCommitStep 档案 upsert 步骤，必须先于审核记录落库
type ProfileCommitStep struct {
	transaction.BaseStep
	service    *OnboardingService
	submission *domain.Submission
	state      *submitState
}

func (s *ProfileCommitStep) Execute(ctx context.Context) error {
	profile := &domain.Profile{ID: s.state.guardID}
	profile.MarkSubmitted(s.state.form.Email, s.state.form.Skills, s.state.now)

	if err := s.service.profiles.UpsertSubmitted(ctx, profile); err != nil {
		return fmt.Errorf("profile upsert: %w", err)
	}
	return s.submission.CommitProfile(ctx)
}

// Compensate 冲突键稳定，留给重试覆盖而不回滚
func (s *ProfileCommitStep) Compensate(ctx context.Context) error {
	return nil
}

// VerificationCommitStep 审核记录 upsert 步骤
type VerificationCommitStep struct {
	transaction.BaseStep
	service    *OnboardingService
	submission *domain.Submission
	state      *submitState
}

func (s *VerificationCommitStep) Execute(ctx context.Context) error {
	verification := domain.BuildVerification(s.state.guardID, s.state.form, s.state.docs, s.state.now)
	if err := s.service.verifications.Upsert(ctx, verification); err != nil {
		return fmt.Errorf("verification upsert: %w", err)
	}
	return s.submission.CommitVerification(ctx)
}

// Compensate 冲突键稳定，留给重试覆盖而不回滚
func (s *VerificationCommitStep) Compensate(ctx context.Context) error {
	return nil
}

// DraftClearStep 草稿清理步骤，两张表都落库成功后才执行
type DraftClearStep struct {
	transaction.BaseStep
	service    *OnboardingService
	submission *domain.Submission
	state      *submitState
}

func (s *DraftClearStep) Execute(ctx context.Context) error {
	if err := s.service.drafts.Delete(ctx, s.state.guardID); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return s.submission.Complete(ctx)
}

func (s *DraftClearStep) Compensate(ctx context.Context) error {
	return nil
}

// uploadDocument 单份证件上传：URL 直接透传，空附件透传空串，
// 失效句柄以 StaleAttachmentError 短路整个提交
func (s *OnboardingService) uploadDocument(ctx context.Context, guardID, field string, doc domain.DocumentInput) (string, error) {
	if doc.IsUploaded() {
		return doc.URL, nil
	}
	if doc.IsEmpty() {
		return "", nil
	}
	if doc.IsStale() {
		return "", &domain.StaleAttachmentError{Field: field}
	}

	key := fmt.Sprintf("%s/%s_%d", guardID, field, time.Now().UnixMilli())
	if ext := doc.Ext(); ext != "" {
		key = key + "." + ext
	}

	start := time.Now()
	url, err := s.documents.Upload(ctx, key, doc.Content)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", field, err)
	}

	s.metrics.DocumentUploadsTotal.Inc()
	s.metrics.UploadDuration.Observe(time.Since(start).Seconds())
	return url, nil
}
