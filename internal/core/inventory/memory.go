package inventory

import (
	"context"
	"fmt"
	"sync"

	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"
)

// MemoryStore 記憶體庫存，僅供單一程序使用
type MemoryStore struct {
	mu     sync.RWMutex
	counts map[string]int
}

// NewMemoryStore 創建記憶體庫存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]int)}
}

// Snapshot 依名稱排序回傳目前所有項目
func (s *MemoryStore) Snapshot(ctx context.Context) ([]recipe.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]recipe.Item, 0, len(s.counts))
	for name, count := range s.counts {
		items = append(items, recipe.Item{Name: name, Count: count})
	}
	sortItems(items)
	return items, nil
}

// Add 每個名稱數量加一
func (s *MemoryStore) Add(ctx context.Context, names []string) (map[string]int, error) {
	normalized, err := normalizeNames(names)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]int, len(normalized))
	for _, name := range normalized {
		s.counts[name]++
		result[name] = s.counts[name]
	}
	return result, nil
}

// Remove 數量減一，歸零時刪除
func (s *MemoryStore) Remove(ctx context.Context, name string) (recipe.Item, bool, error) {
	name = NormalizeName(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	count, ok := s.counts[name]
	if !ok {
		return recipe.Item{}, false, common.WrapError(common.ErrNotFound, fmt.Errorf("item %q not found", name))
	}
	if count > 1 {
		s.counts[name] = count - 1
		return recipe.Item{Name: name, Count: count - 1}, false, nil
	}
	delete(s.counts, name)
	return recipe.Item{Name: name, Count: 0}, true, nil
}

// Ping 記憶體庫存永遠可用
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }
