package handlers

import (
	"net/http"

	"recipe-recommender/internal/core/ai/service"

	"github.com/gin-gonic/gin"
)

// AIHandler 生成服務狀態處理器
type AIHandler struct {
	aiService *service.Service
}

// NewAIHandler 創建 AI 處理器
func NewAIHandler(aiService *service.Service) *AIHandler {
	return &AIHandler{
		aiService: aiService,
	}
}

// Status 回傳目前模型、併發隊列與快取統計
func (h *AIHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"model": h.aiService.GetModel(),
		"queue": h.aiService.QueueStatus(),
		"cache": h.aiService.CacheStats(),
	})
}
