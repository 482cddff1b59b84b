package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/fortivix/guardmarket/internal/auth/domain"
	"github.com/fortivix/guardmarket/pkg/config"
	"github.com/fortivix/guardmarket/pkg/logger"
	"github.com/fortivix/guardmarket/pkg/metrics"
	"github.com/fortivix/guardmarket/pkg/utils"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SessionDTO 会话响应
type SessionDTO struct {
	Token     string    `json:"token"`
	GuardID   string    `json:"guard_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService 无密码邮件链接认证服务
type AuthService struct {
	tokens    domain.LoginTokenRepository
	sessions  domain.SessionRepository
	cooldowns domain.CooldownRepository
	accounts  domain.AccountRepository
	sender    domain.Sender
	cfg       config.AuthConfig
	idGen     *utils.SnowflakeID
	metrics   *metrics.Metrics
}

// NewAuthService 创建认证服务实例
func NewAuthService(
	tokens domain.LoginTokenRepository,
	sessions domain.SessionRepository,
	cooldowns domain.CooldownRepository,
	accounts domain.AccountRepository,
	sender domain.Sender,
	cfg config.AuthConfig,
	idGen *utils.SnowflakeID,
	m *metrics.Metrics,
) *AuthService {
	return &AuthService{
		tokens:    tokens,
		sessions:  sessions,
		cooldowns: cooldowns,
		accounts:  accounts,
		sender:    sender,
		cfg:       cfg,
		idGen:     idGen,
		metrics:   m,
	}
}

// RequestLoginLink 生成一次性登录链接并发送邮件，同一邮箱受冷却窗口限制
func (s *AuthService) RequestLoginLink(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return domain.ErrInvalidEmail
	}

	remaining, err := s.cooldowns.Acquire(ctx, email, time.Duration(s.cfg.CooldownSeconds)*time.Second)
	if err != nil {
		return fmt.Errorf("failed to check send cooldown: %w", err)
	}
	if remaining > 0 {
		return &domain.CooldownError{Remaining: remaining}
	}

	raw, err := randomToken()
	if err != nil {
		s.releaseCooldown(ctx, email)
		return fmt.Errorf("failed to generate login token: %w", err)
	}

	now := time.Now()
	token := &domain.LoginToken{
		Token:     raw,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(s.cfg.TokenTTLMinutes) * time.Minute),
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		s.releaseCooldown(ctx, email)
		return fmt.Errorf("failed to save login token: %w", err)
	}

	link := fmt.Sprintf("%s?token=%s", s.cfg.LinkBaseURL, raw)
	body := fmt.Sprintf(
		"Click the link below to sign in. The link expires in %d minutes and can be used once.\r\n\r\n%s\r\n",
		s.cfg.TokenTTLMinutes, link,
	)
	if err := s.sender.Send(ctx, email, "Your sign-in link", body); err != nil {
		s.releaseCooldown(ctx, email)
		return fmt.Errorf("failed to send login email: %w", err)
	}

	if s.metrics != nil {
		s.metrics.LoginLinksSentTotal.Inc()
	}
	logger.Info(ctx, "Login link sent", "email", email)
	return nil
}

// releaseCooldown 发送失败后回收冷却窗口，冷却只约束成功发送
func (s *AuthService) releaseCooldown(ctx context.Context, email string) {
	if err := s.cooldowns.Release(ctx, email); err != nil {
		logger.Warn(ctx, "Failed to release send cooldown", "email", email, "error", err)
	}
}

// VerifyLoginLink 消费令牌，按需创建账户并建立会话
func (s *AuthService) VerifyLoginLink(ctx context.Context, rawToken string) (*SessionDTO, error) {
	token, err := s.tokens.Consume(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	if token == nil || time.Now().After(token.ExpiresAt) {
		return nil, domain.ErrTokenInvalid
	}

	account, err := s.accounts.GetByEmail(ctx, token.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if account == nil {
		now := time.Now()
		account = &domain.Account{
			ID:        fmt.Sprintf("%d", s.idGen.Generate()),
			Email:     token.Email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		logger.Info(ctx, "Account created via login link", "guard_id", account.ID, "email", account.Email)
	}

	sessionToken, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		Token:     sessionToken,
		GuardID:   account.ID,
		Email:     account.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(s.cfg.SessionTTLHours) * time.Hour),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return &SessionDTO{
		Token:     session.Token,
		GuardID:   session.GuardID,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// GetSession 查询会话
func (s *AuthService) GetSession(ctx context.Context, token string) (*SessionDTO, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil || session.IsExpired() {
		return nil, domain.ErrSessionNotFound
	}
	return &SessionDTO{
		Token:     session.Token,
		GuardID:   session.GuardID,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout 删除会话
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
