package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortivix/guardmarket/internal/auth/domain"
	"github.com/fortivix/guardmarket/pkg/config"
	"github.com/fortivix/guardmarket/pkg/metrics"
	"github.com/fortivix/guardmarket/pkg/utils"
)

type fakeTokens struct {
	tokens map[string]*domain.LoginToken
}

func (f *fakeTokens) Save(ctx context.Context, token *domain.LoginToken) error {
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeTokens) Consume(ctx context.Context, token string) (*domain.LoginToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, nil
	}
	delete(f.tokens, token)
	return t, nil
}

type fakeSessions struct {
	sessions map[string]*domain.Session
}

func (f *fakeSessions) Save(ctx context.Context, session *domain.Session) error {
	f.sessions[session.Token] = session
	return nil
}

func (f *fakeSessions) Get(ctx context.Context, token string) (*domain.Session, error) {
	return f.sessions[token], nil
}

func (f *fakeSessions) Delete(ctx context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

type fakeCooldowns struct {
	held map[string]bool
}

func (f *fakeCooldowns) Acquire(ctx context.Context, email string, ttl time.Duration) (time.Duration, error) {
	if f.held[email] {
		return ttl, nil
	}
	f.held[email] = true
	return 0, nil
}

func (f *fakeCooldowns) Release(ctx context.Context, email string) error {
	delete(f.held, email)
	return nil
}

type fakeAccounts struct {
	byEmail map[string]*domain.Account
}

func (f *fakeAccounts) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return f.byEmail[email], nil
}

func (f *fakeAccounts) Create(ctx context.Context, account *domain.Account) error {
	f.byEmail[account.Email] = account
	return nil
}

type recordingSender struct {
	sendErr error
	sent    []struct {
		Target, Subject, Content string
	}
}

func (s *recordingSender) Send(ctx context.Context, target, subject, content string) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, struct {
		Target, Subject, Content string
	}{target, subject, content})
	return nil
}

type authFixture struct {
	svc       *AuthService
	tokens    *fakeTokens
	sessions  *fakeSessions
	cooldowns *fakeCooldowns
	accounts  *fakeAccounts
	sender    *recordingSender
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		tokens:    &fakeTokens{tokens: map[string]*domain.LoginToken{}},
		sessions:  &fakeSessions{sessions: map[string]*domain.Session{}},
		cooldowns: &fakeCooldowns{held: map[string]bool{}},
		accounts:  &fakeAccounts{byEmail: map[string]*domain.Account{}},
		sender:    &recordingSender{},
	}
	cfg := config.AuthConfig{
		LinkBaseURL:     "https://app.test/auth/verify",
		TokenTTLMinutes: 15,
		CooldownSeconds: 60,
		SessionTTLHours: 24,
	}
	f.svc = NewAuthService(
		f.tokens, f.sessions, f.cooldowns, f.accounts,
		f.sender, cfg, utils.NewSnowflakeID(9), metrics.New("test"),
	)
	return f
}

func (f *authFixture) lastToken(t *testing.T) string {
	t.Helper()
	require.Len(t, f.sender.sent, 1)
	content := f.sender.sent[0].Content
	idx := strings.Index(content, "token=")
	require.GreaterOrEqual(t, idx, 0)
	token := content[idx+len("token="):]
	return strings.TrimSpace(token)
}

func TestRequestLoginLinkSendsEmail(t *testing.T) {
	f := newAuthFixture()

	err := f.svc.RequestLoginLink(context.Background(), "  Jane@Example.COM ")
	require.NoError(t, err)

	require.Len(t, f.sender.sent, 1)
	// 邮箱规整为小写去空白
	assert.Equal(t, "jane@example.com", f.sender.sent[0].Target)
	assert.Contains(t, f.sender.sent[0].Content, "https://app.test/auth/verify?token=")

	require.Len(t, f.tokens.tokens, 1)
	for _, token := range f.tokens.tokens {
		assert.Equal(t, "jane@example.com", token.Email)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), token.ExpiresAt, time.Minute)
	}
}

func TestRequestLoginLinkCooldown(t *testing.T) {
	f := newAuthFixture()

	require.NoError(t, f.svc.RequestLoginLink(context.Background(), "jane@example.com"))
	err := f.svc.RequestLoginLink(context.Background(), "jane@example.com")
	assert.ErrorIs(t, err, domain.ErrCooldownActive)
	var cooldown *domain.CooldownError
	require.ErrorAs(t, err, &cooldown)
	assert.Equal(t, 60*time.Second, cooldown.Remaining)
	assert.Len(t, f.sender.sent, 1)

	// 不同邮箱不受影响
	require.NoError(t, f.svc.RequestLoginLink(context.Background(), "other@example.com"))
}

func TestRequestLoginLinkReleasesCooldownOnSendFailure(t *testing.T) {
	f := newAuthFixture()
	f.sender.sendErr = errors.New("smtp refused")

	err := f.svc.RequestLoginLink(context.Background(), "jane@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCooldownActive)

	// 发送失败不占用冷却窗口，立即重试可以成功
	f.sender.sendErr = nil
	require.NoError(t, f.svc.RequestLoginLink(context.Background(), "jane@example.com"))
	assert.Len(t, f.sender.sent, 1)
}

func TestRequestLoginLinkRejectsInvalidEmail(t *testing.T) {
	f := newAuthFixture()
	err := f.svc.RequestLoginLink(context.Background(), "not-an-email")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	assert.Empty(t, f.sender.sent)
}

func TestVerifyLoginLinkCreatesAccountAndSession(t *testing.T) {
	f := newAuthFixture()
	require.NoError(t, f.svc.RequestLoginLink(context.Background(), "jane@example.com"))
	raw := f.lastToken(t)

	session, err := f.svc.VerifyLoginLink(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", session.Email)
	assert.NotEmpty(t, session.GuardID)
	assert.NotEmpty(t, session.Token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), session.ExpiresAt, time.Minute)

	// 账户已建档
	account := f.accounts.byEmail["jane@example.com"]
	require.NotNil(t, account)
	assert.Equal(t, account.ID, session.GuardID)
}

func TestVerifyLoginLinkIsSingleUse(t *testing.T) {
	f := newAuthFixture()
	require.NoError(t, f.svc.RequestLoginLink(context.Background(), "jane@example.com"))
	raw := f.lastToken(t)

	_, err := f.svc.VerifyLoginLink(context.Background(), raw)
	require.NoError(t, err)

	_, err = f.svc.VerifyLoginLink(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerifyLoginLinkReusesExistingAccount(t *testing.T) {
	f := newAuthFixture()
	f.accounts.byEmail["jane@example.com"] = &domain.Account{ID: "g-77", Email: "jane@example.com"}

	require.NoError(t, f.svc.RequestLoginLink(context.Background(), "jane@example.com"))
	session, err := f.svc.VerifyLoginLink(context.Background(), f.lastToken(t))
	require.NoError(t, err)
	assert.Equal(t, "g-77", session.GuardID)
}

func TestVerifyLoginLinkRejectsUnknownToken(t *testing.T) {
	f := newAuthFixture()
	_, err := f.svc.VerifyLoginLink(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestGetSessionAndLogout(t *testing.T) {
	f := newAuthFixture()
	require.NoError(t, f.svc.RequestLoginLink(context.Background(), "jane@example.com"))
	created, err := f.svc.VerifyLoginLink(context.Background(), f.lastToken(t))
	require.NoError(t, err)

	got, err := f.svc.GetSession(context.Background(), created.Token)
	require.NoError(t, err)
	assert.Equal(t, created.GuardID, got.GuardID)

	require.NoError(t, f.svc.Logout(context.Background(), created.Token))
	_, err = f.svc.GetSession(context.Background(), created.Token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
