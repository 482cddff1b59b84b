package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fortivix/guardmarket/internal/onboarding/domain"
	"github.com/fortivix/guardmarket/pkg/db"
)

type profileRepository struct {
	db *db.DB
}

func NewProfileRepository(database *db.DB) domain.ProfileRepository {
	return &profileRepository{db: database}
}

func (r *profileRepository) Get(ctx context.Context, id string) (*domain.Profile, error) {
	var model ProfileModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return toProfile(&model), nil
}

// UpsertProgress 按 id 冲突键写入最近访问的步骤与状态。
// 步骤反映最后访问的位置而不是最大值，回退同样写低值。
func (r *profileRepository) UpsertProgress(ctx context.Context, id string, step domain.Step, status domain.GuardStatus) error {
	now := time.Now()
	model := &ProfileModel{
		ID:             id,
		GuardStatus:    string(status),
		OnboardingStep: int(step),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return r.db.UpsertWithConflict(ctx, model,
		[]string{"id"},
		[]string{"guard_onboarding_step", "guard_status", "updated_at"},
	)
}

func (r *profileRepository) UpsertSubmitted(ctx context.Context, profile *domain.Profile) error {
	model := toProfileModel(profile)
	now := time.Now()
	model.CreatedAt = now
	model.UpdatedAt = now
	return r.db.UpsertWithConflict(ctx, model,
		[]string{"id"},
		[]string{"email", "guard_status", "guard_onboarding_completed_at", "is_guard", "skills", "updated_at"},
	)
}
