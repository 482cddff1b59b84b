package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fortivix/guardmarket/internal/auth/domain"
	"github.com/fortivix/guardmarket/pkg/db"
)

// AccountModel 档案表的认证视图，只读写登录所需的列
type AccountModel struct {
	ID          string    `gorm:"column:id;type:varchar(64);primaryKey"`
	Email       string    `gorm:"column:email;type:varchar(255);index"`
	GuardStatus string    `gorm:"column:guard_status;type:varchar(20);not null;default:'unset'"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (AccountModel) TableName() string {
	return "profiles"
}

type accountMySQLRepository struct {
	db *db.DB
}

// NewAccountMySQLRepository 创建账户仓储
func NewAccountMySQLRepository(database *db.DB) domain.AccountRepository {
	return &accountMySQLRepository{db: database}
}

func (r *accountMySQLRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var model AccountModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toAccount(&model), nil
}

func (r *accountMySQLRepository) Create(ctx context.Context, account *domain.Account) error {
	model := &AccountModel{
		ID:          account.ID,
		Email:       account.Email,
		GuardStatus: account.GuardStatus,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
	if model.GuardStatus == "" {
		model.GuardStatus = "unset"
	}
	return r.db.WithContext(ctx).Create(model).Error
}

func toAccount(model *AccountModel) *domain.Account {
	if model == nil {
		return nil
	}
	return &domain.Account{
		ID:          model.ID,
		Email:       model.Email,
		GuardStatus: model.GuardStatus,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
