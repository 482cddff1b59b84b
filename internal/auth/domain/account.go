package domain

import (
	"context"
	"time"
)

// Account 登录账户，与入职档案共享存储
type Account struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	GuardStatus string    `json:"guard_status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AccountRepository 账户仓储接口
type AccountRepository interface {
	// GetByEmail 按邮箱查询账户，不存在时返回 nil
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Create(ctx context.Context, account *Account) error
}
