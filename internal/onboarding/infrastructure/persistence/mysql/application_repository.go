package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fortivix/guardmarket/internal/onboarding/domain"
	"github.com/fortivix/guardmarket/pkg/db"
)

type quickApplicationRepository struct {
	db *db.DB
}

func NewQuickApplicationRepository(database *db.DB) domain.QuickApplicationRepository {
	return &quickApplicationRepository{db: database}
}

func (r *quickApplicationRepository) Save(ctx context.Context, app *domain.QuickApplication) error {
	model := toQuickApplicationModel(app)
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *quickApplicationRepository) Get(ctx context.Context, id int64) (*domain.QuickApplication, error) {
	var model QuickApplicationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toQuickApplication(&model), nil
}
