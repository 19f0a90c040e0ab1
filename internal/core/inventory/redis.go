package inventory

import (
	"context"
	"fmt"
	"strconv"

	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// decrementScript 原子地減一，歸零時刪除；不存在回傳 -1
var decrementScript = redis.NewScript(`
local c = redis.call('HGET', KEYS[1], ARGV[1])
if not c then
	return -1
end
c = tonumber(c) - 1
if c <= 0 then
	redis.call('HDEL', KEYS[1], ARGV[1])
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], c)
return c
`)

// RedisStore 以 Redis hash 儲存庫存，多個實例可共用
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore 創建 Redis 庫存
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "fridge:inventory"
	}
	return &RedisStore{client: client, key: key}
}

// Snapshot 依名稱排序回傳目前所有項目
func (s *RedisStore) Snapshot(ctx context.Context) ([]recipe.Item, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, common.WrapError(common.ErrServiceUnavailable, fmt.Errorf("failed to read inventory: %w", err))
	}

	items := make([]recipe.Item, 0, len(values))
	for name, raw := range values {
		count, err := strconv.Atoi(raw)
		if err != nil {
			common.LogWarn("skipping inventory entry with invalid count",
				zap.String("name", name),
				zap.String("count", raw),
			)
			continue
		}
		items = append(items, recipe.Item{Name: name, Count: count})
	}
	sortItems(items)
	return items, nil
}

// Add 每個名稱數量加一
func (s *RedisStore) Add(ctx context.Context, names []string) (map[string]int, error) {
	normalized, err := normalizeNames(names)
	if err != nil {
		return nil, err
	}

	cmds := make([]*redis.IntCmd, len(normalized))
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, name := range normalized {
			cmds[i] = pipe.HIncrBy(ctx, s.key, name, 1)
		}
		return nil
	})
	if err != nil {
		return nil, common.WrapError(common.ErrServiceUnavailable, fmt.Errorf("failed to update inventory: %w", err))
	}

	result := make(map[string]int, len(normalized))
	for i, name := range normalized {
		result[name] = int(cmds[i].Val())
	}
	return result, nil
}

// Remove 數量減一，歸零時刪除
func (s *RedisStore) Remove(ctx context.Context, name string) (recipe.Item, bool, error) {
	name = NormalizeName(name)

	remaining, err := decrementScript.Run(ctx, s.client, []string{s.key}, name).Int()
	if err != nil {
		return recipe.Item{}, false, common.WrapError(common.ErrServiceUnavailable, fmt.Errorf("failed to update inventory: %w", err))
	}
	switch {
	case remaining < 0:
		return recipe.Item{}, false, common.WrapError(common.ErrNotFound, fmt.Errorf("item %q not found", name))
	case remaining == 0:
		return recipe.Item{Name: name, Count: 0}, true, nil
	default:
		return recipe.Item{Name: name, Count: remaining}, false, nil
	}
}

// Ping 檢查 Redis 連線
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
