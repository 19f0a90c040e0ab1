package recipe

import (
	"net/http"

	"recipe-recommender/internal/api/handlers"
	inventoryStore "recipe-recommender/internal/core/inventory"
	recipeService "recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜推薦處理器
type Handler struct {
	recipes   *recipeService.Service
	inventory inventoryStore.Store
}

// NewHandler 創建食譜處理器，store 可為 nil（此時請求必須帶 inventory）
func NewHandler(recipes *recipeService.Service, store inventoryStore.Store) *Handler {
	return &Handler{
		recipes:   recipes,
		inventory: store,
	}
}

// HandleRecommend 檢索並評分候選食譜，回傳最佳推薦
func (h *Handler) HandleRecommend(c *gin.Context) {
	requestID := requestid.Get(c)

	req, inv, ok := h.bind(c, requestID)
	if !ok {
		return
	}

	result, err := h.recipes.Recommend(c.Request.Context(), inv, req.Preferences)
	if err != nil {
		common.LogError("Recipe recommendation failed",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		handlers.RespondError(c, err)
		return
	}

	common.LogInfo("recipe recommended",
		zap.String("request_id", requestID),
		zap.String("recipe_name", result.RecipeName),
		zap.Float64("match_score", result.MatchScore),
	)
	c.JSON(http.StatusOK, result)
}

// HandleGenerate 依推薦結果生成客製化食譜
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := requestid.Get(c)

	req, inv, ok := h.bind(c, requestID)
	if !ok {
		return
	}

	result, err := h.recipes.Generate(c.Request.Context(), inv, req.Preferences)
	if err != nil {
		common.LogError("Recipe generation failed",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.Bool("retryable", common.IsRetryable(err)),
		)
		handlers.RespondError(c, err)
		return
	}

	common.LogInfo("recipe generated",
		zap.String("request_id", requestID),
		zap.String("recipe_name", result.Recipe.Name),
		zap.String("model", result.Model),
		zap.Bool("cache_hit", result.CacheHit),
		zap.Strings("missing_sections", result.MissingSections),
	)
	c.JSON(http.StatusOK, result)
}

func (h *Handler) bind(c *gin.Context, requestID string) (*Request, recipeService.Inventory, bool) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("Invalid recipe request",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		handlers.RespondError(c, common.WrapError(common.ErrInvalidRequest, err))
		return nil, nil, false
	}

	inv, err := resolveInventory(c.Request.Context(), h.inventory, &req)
	if err != nil {
		handlers.RespondError(c, err)
		return nil, nil, false
	}
	if len(inv) == 0 {
		common.LogWarn("recipe requested with an empty inventory", zap.String("request_id", requestID))
	}
	return &req, inv, true
}
