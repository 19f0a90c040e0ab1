package inventory

import (
	"fmt"
	"net/http"

	"recipe-recommender/internal/api/handlers"
	inventoryStore "recipe-recommender/internal/core/inventory"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddItem 新增請求中的單一項目
type AddItem struct {
	Name string `json:"name"`
}

// RemoveRequest 刪除請求
type RemoveRequest struct {
	Name string `json:"name"`
}

// Handler 冰箱庫存處理器
type Handler struct {
	store inventoryStore.Store
}

// NewHandler 創建庫存處理器
func NewHandler(store inventoryStore.Store) *Handler {
	return &Handler{store: store}
}

// List 回傳目前庫存
func (h *Handler) List(c *gin.Context) {
	items, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		common.LogError("Failed to read inventory", zap.Error(err))
		handlers.RespondError(c, common.WrapError(common.ErrServiceUnavailable, err))
		return
	}
	c.JSON(http.StatusOK, items)
}

// Add 每個項目數量加一，回傳更新後的數量
func (h *Handler) Add(c *gin.Context) {
	var req []AddItem
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.NewValidationError("expected a JSON list of objects with 'name' keys"))
		return
	}

	names := make([]string, 0, len(req))
	for _, item := range req {
		names = append(names, item.Name)
	}

	counts, err := h.store.Add(c.Request.Context(), names)
	if err != nil {
		if !common.IsValidationError(err) {
			common.LogError("Failed to add inventory items", zap.Error(err), zap.Int("items", len(names)))
			err = common.WrapError(common.ErrServiceUnavailable, err)
		}
		handlers.RespondError(c, err)
		return
	}

	common.LogInfo("inventory updated", zap.Int("items", len(counts)))
	c.JSON(http.StatusOK, counts)
}

// Remove 數量減一，歸零時刪除項目
func (h *Handler) Remove(c *gin.Context) {
	var req RemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		handlers.RespondError(c, common.NewValidationError("item name is required"))
		return
	}

	item, removed, err := h.store.Remove(c.Request.Context(), req.Name)
	if err != nil {
		if _, ok := common.AsCustomError(err); !ok {
			common.LogError("Failed to remove inventory item", zap.Error(err), zap.String("name", req.Name))
			err = common.WrapError(common.ErrServiceUnavailable, err)
		}
		handlers.RespondError(c, err)
		return
	}

	if removed {
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s removed from inventory.", item.Name)})
		return
	}
	c.JSON(http.StatusOK, item)
}
