package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortivix/guardmarket/internal/auth/domain"
)

type cooldownRedisRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewCooldownRedisRepository 创建发送冷却仓储
func NewCooldownRedisRepository(client redis.UniversalClient) domain.CooldownRepository {
	return &cooldownRedisRepository{
		client: client,
		prefix: "auth:link_cooldown:",
	}
}

// Acquire SETNX 占用冷却窗口，键存在则说明仍在冷却期
func (r *cooldownRedisRepository) Acquire(ctx context.Context, email string, ttl time.Duration) (time.Duration, error) {
	key := fmt.Sprintf("%s%s", r.prefix, email)
	ok, err := r.client.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
	if err != nil {
		return 0, err
	}
	if ok {
		return 0, nil
	}
	remaining, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if remaining <= 0 {
		remaining = ttl
	}
	return remaining, nil
}

// Release 删除冷却键
func (r *cooldownRedisRepository) Release(ctx context.Context, email string) error {
	key := fmt.Sprintf("%s%s", r.prefix, email)
	return r.client.Del(ctx, key).Err()
}
