package application

import (
	"context"

	"github.com/fortivix/guardmarket/internal/onboarding/domain"
)

// GetVerification 查询申请人的审核记录
func (s *OnboardingService) GetVerification(ctx context.Context, guardID string) (*domain.Verification, error) {
	return s.verifications.Get(ctx, guardID)
}

// GetProfile 查询申请人档案
func (s *OnboardingService) GetProfile(ctx context.Context, guardID string) (*domain.Profile, error) {
	return s.profiles.Get(ctx, guardID)
}

// FormOptions 返回表单静态选项清单
func (s *OnboardingService) FormOptions(ctx context.Context) *FormOptionsDTO {
	return &FormOptionsDTO{
		Skills:          domain.SkillOptions,
		Certifications:  domain.CertificationOptions,
		Languages:       domain.LanguageOptions,
		Days:            domain.DayOptions,
		Shifts:          domain.ShiftOptions,
		ExperienceYears: domain.ExperienceOptions,
	}
}
