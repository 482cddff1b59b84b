package domain

import (
	"context"
	"time"
)

// LoginToken 一次性登录令牌，通过邮件链接下发
type LoginToken struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginTokenRepository 登录令牌仓储接口
type LoginTokenRepository interface {
	Save(ctx context.Context, token *LoginToken) error
	// Consume 原子地取出并删除令牌，保证单次使用
	Consume(ctx context.Context, token string) (*LoginToken, error)
}

// CooldownRepository 发送冷却仓储接口
type CooldownRepository interface {
	// Acquire 尝试占用冷却窗口，已在冷却期内时返回剩余时长，占用成功返回 0
	Acquire(ctx context.Context, email string, ttl time.Duration) (time.Duration, error)
	// Release 释放冷却窗口，发送失败后回收以允许用户立即重试
	Release(ctx context.Context, email string) error
}

// Sender 登录邮件发送接口
type Sender interface {
	Send(ctx context.Context, target string, subject string, content string) error
}
