package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fortivix/guardmarket/internal/onboarding/domain"
)

type draftRedisRepository struct {
	client redis.UniversalClient
	prefix string
}

func NewDraftRedisRepository(client redis.UniversalClient) domain.DraftRepository {
	return &draftRedisRepository{
		client: client,
		prefix: "guard:onboarding:draft:",
	}
}

// Save 整体覆盖草稿槽位，不设 TTL：草稿可无限期恢复。
// 不做冲突检测，后写覆盖先写。
func (r *draftRedisRepository) Save(ctx context.Context, draft *domain.Draft) error {
	key := fmt.Sprintf("%s%s", r.prefix, draft.GuardID)
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, 0).Err()
}

func (r *draftRedisRepository) Get(ctx context.Context, guardID string) (*domain.Draft, error) {
	key := fmt.Sprintf("%s%s", r.prefix, guardID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}

	var draft domain.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		// 损坏的草稿视为不存在，调用方回落到远端进度
		return nil, domain.ErrDraftNotFound
	}
	return &draft, nil
}

func (r *draftRedisRepository) Delete(ctx context.Context, guardID string) error {
	key := fmt.Sprintf("%s%s", r.prefix, guardID)
	return r.client.Del(ctx, key).Err()
}
