// Package application 编排入职流程：草稿、步骤门、文档上传与两表有序落库
package application

import (
	"github.com/fortivix/guardmarket/internal/onboarding/domain"
	"github.com/fortivix/guardmarket/pkg/metrics"
	"github.com/fortivix/guardmarket/pkg/utils"
)

// OnboardingService 入职应用服务
type OnboardingService struct {
	drafts        domain.DraftRepository
	profiles      domain.ProfileRepository
	verifications domain.VerificationRepository
	applications  domain.QuickApplicationRepository
	documents     domain.DocumentStore
	publisher     domain.EventPublisher
	idGen         *utils.SnowflakeID
	metrics       *metrics.Metrics
}

// NewOnboardingService 创建入职应用服务
func NewOnboardingService(
	drafts domain.DraftRepository,
	profiles domain.ProfileRepository,
	verifications domain.VerificationRepository,
	applications domain.QuickApplicationRepository,
	documents domain.DocumentStore,
	publisher domain.EventPublisher,
	idGen *utils.SnowflakeID,
	m *metrics.Metrics,
) *OnboardingService {
	return &OnboardingService{
		drafts:        drafts,
		profiles:      profiles,
		verifications: verifications,
		applications:  applications,
		documents:     documents,
		publisher:     publisher,
		idGen:         idGen,
		metrics:       m,
	}
}
