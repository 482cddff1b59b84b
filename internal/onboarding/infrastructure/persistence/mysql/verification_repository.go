package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fortivix/guardmarket/internal/onboarding/domain"
	"github.com/fortivix/guardmarket/pkg/db"
)

type verificationRepository struct {
	db *db.DB
}

func NewVerificationRepository(database *db.DB) domain.VerificationRepository {
	return &verificationRepository{db: database}
}

// Upsert 按 guard_id 冲突键插入或整行覆盖
func (r *verificationRepository) Upsert(ctx context.Context, verification *domain.Verification) error {
	model := toVerificationModel(verification)
	now := time.Now()
	model.CreatedAt = now
	model.UpdatedAt = now
	return r.db.UpsertWithConflict(ctx, model,
		[]string{"guard_id"},
		[]string{
			"legal_name", "date_of_birth", "phone", "address",
			"id_photo_front_url", "id_photo_back_url", "selfie_photo_url",
			"license_number", "license_state", "license_expiration", "license_photo_url",
			"years_experience", "skills", "certifications", "languages",
			"availability_days", "availability_shifts", "service_radius_miles",
			"short_bio", "consent_to_background_check", "consent_to_drug_test",
			"consent_to_terms", "status", "submitted_at", "updated_at",
		},
	)
}

func (r *verificationRepository) Get(ctx context.Context, guardID string) (*domain.Verification, error) {
	var model VerificationModel
	if err := r.db.WithContext(ctx).Where("guard_id = ?", guardID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toVerification(&model), nil
}
