package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortivix/guardmarket/internal/auth/domain"
)

type tokenRedisRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewTokenRedisRepository 创建登录令牌仓储
func NewTokenRedisRepository(client redis.UniversalClient) domain.LoginTokenRepository {
	return &tokenRedisRepository{
		client: client,
		prefix: "auth:login_token:",
	}
}

func (r *tokenRedisRepository) Save(ctx context.Context, token *domain.LoginToken) error {
	key := fmt.Sprintf("%s%s", r.prefix, token.Token)
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}

	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("login token already expired")
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

// Consume GETDEL 保证令牌单次使用
func (r *tokenRedisRepository) Consume(ctx context.Context, token string) (*domain.LoginToken, error) {
	key := fmt.Sprintf("%s%s", r.prefix, token)
	data, err := r.client.GetDel(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var t domain.LoginToken
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
