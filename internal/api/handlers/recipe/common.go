package recipe

import (
	"context"

	inventoryStore "recipe-recommender/internal/core/inventory"
	recipeService "recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"
)

// Request 推薦與生成共用的請求內容，inventory 省略時使用目前冰箱庫存
type Request struct {
	Preferences recipeService.Preferences `json:"preferences"`
	Inventory   *recipeService.Inventory  `json:"inventory,omitempty"`
}

// resolveInventory 取得本次請求使用的庫存
func resolveInventory(ctx context.Context, store inventoryStore.Store, req *Request) (recipeService.Inventory, error) {
	if req.Inventory != nil {
		return *req.Inventory, nil
	}
	if store == nil {
		return nil, common.NewValidationError("inventory is required")
	}
	items, err := store.Snapshot(ctx)
	if err != nil {
		return nil, common.WrapError(common.ErrServiceUnavailable, err)
	}
	return recipeService.InventoryFromItems(items), nil
}
