package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"recipe-recommender/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "recipe:generation:"

// Service Redis 快取，多個實例可共用生成結果
type Service struct {
	client *redis.Client
	ttl    time.Duration
	hits   int64
	misses int64
}

// NewService 創建 Redis 快取並測試連線
func NewService(client *redis.Client, ttl time.Duration) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required for redis cache")
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Service{client: client, ttl: ttl}, nil
}

// Get 獲取緩存
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			atomic.AddInt64(&s.misses, 1)
			common.LogCacheMiss("redis")
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	atomic.AddInt64(&s.hits, 1)
	common.LogCacheHit("redis")
	return val, nil
}

// Set 設置緩存
func (s *Service) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// GetStats 獲取緩存統計信息
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"backend": "redis",
		"hits":    atomic.LoadInt64(&s.hits),
		"misses":  atomic.LoadInt64(&s.misses),
		"ttl":     s.ttl.String(),
	}
}

// Close Redis 連線由呼叫端管理，這裡不關閉
func (s *Service) Close() error {
	return nil
}
