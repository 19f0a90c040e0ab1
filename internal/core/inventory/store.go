package inventory

import (
	"context"
	"sort"

	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"
)

// Store 冰箱庫存
type Store interface {
	// Snapshot 依名稱排序回傳目前所有項目
	Snapshot(ctx context.Context) ([]recipe.Item, error)
	// Add 每個名稱數量加一，新項目從 1 開始，回傳更新後的數量
	Add(ctx context.Context, names []string) (map[string]int, error)
	// Remove 數量減一，歸零時刪除；removed 表示項目已被刪除
	Remove(ctx context.Context, name string) (item recipe.Item, removed bool, err error)
	Ping(ctx context.Context) error
}

// NormalizeName 首字母大寫，其餘小寫
func NormalizeName(name string) string {
	return common.CapitalizeName(name)
}

// normalizeNames 驗證並正規化所有名稱，任何一個為空則整批拒絕
func normalizeNames(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, common.NewValidationError("expected a list of objects with 'name' keys")
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		normalized := NormalizeName(n)
		if normalized == "" {
			return nil, common.NewValidationError("item name is required")
		}
		out = append(out, normalized)
	}
	return out, nil
}

func sortItems(items []recipe.Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
}
