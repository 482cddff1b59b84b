package domain

import (
	"context"
	"time"
)

// Session 登录会话，仅存于 Redis
type Session struct {
	Token     string    `json:"token"`
	GuardID   string    `json:"guard_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SessionRepository 会话仓储接口（通常仅实现 Redis 版本）
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
