package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCooldownActive 距上次发送不足冷却时间
	ErrCooldownActive = errors.New("login link recently sent, please wait before retrying")
	// ErrTokenInvalid 令牌不存在、已使用或已过期
	ErrTokenInvalid = errors.New("login token is invalid or expired")
	// ErrSessionNotFound 会话不存在或已过期
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidEmail 邮箱格式不合法
	ErrInvalidEmail = errors.New("invalid email address")
)

// CooldownError 冷却期错误，携带剩余等待时长
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("login link recently sent, retry in %ds", int(e.Remaining.Seconds()))
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldownActive
}
