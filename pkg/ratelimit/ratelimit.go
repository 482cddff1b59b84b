// Package ratelimit 基于 redis_rate 的滑动窗口限流
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	// Allow 判断给定键在当前窗口内是否放行
	Allow(ctx context.Context, key string, limit Limit) (*Result, error)
}

// Limit 限流规则：周期内速率与突发上限
type Limit struct {
	Rate   int
	Period time.Duration
	Burst  int
}

// Result 单次限流判定结果
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAfter time.Duration
	RetryAfter time.Duration
}

// IPKey 按客户端 IP 维度限流的键
func IPKey(ip string) string {
	return "ratelimit:ip:" + ip
}

// GuardKey 按保安账号维度限流的键，已登录请求优先使用
func GuardKey(guardID string) string {
	return "ratelimit:guard:" + guardID
}

type redisRateLimiter struct {
	limiter *redis_rate.Limiter
}

// NewRedisRateLimiter 创建 redis 限流器
func NewRedisRateLimiter(client redis.UniversalClient) RateLimiter {
	return &redisRateLimiter{limiter: redis_rate.NewLimiter(client)}
}

// Allow 执行 GCRA 判定，redis 异常原样上抛由调用方决定降级策略
func (r *redisRateLimiter) Allow(ctx context.Context, key string, limit Limit) (*Result, error) {
	res, err := r.limiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   limit.Rate,
		Period: limit.Period,
		Burst:  limit.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Remaining:  res.Remaining,
		ResetAfter: res.ResetAfter,
		RetryAfter: res.RetryAfter,
	}, nil
}
