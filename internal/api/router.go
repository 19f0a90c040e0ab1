package api

import (
	"fmt"
	"time"

	"recipe-recommender/internal/api/handlers"
	"recipe-recommender/internal/api/handlers/health"
	inventoryHandler "recipe-recommender/internal/api/handlers/inventory"
	recipeHandler "recipe-recommender/internal/api/handlers/recipe"
	"recipe-recommender/internal/api/middleware"
	"recipe-recommender/internal/core/ai/service"
	"recipe-recommender/internal/core/inventory"
	recipeService "recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由需要的服務，AI 與 Deduplicator 可為 nil
type Dependencies struct {
	Recipes      *recipeService.Service
	Inventory    inventory.Store
	AI           *service.Service
	Deduplicator *middleware.Deduplicator
	Checks       map[string]health.Check
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if deps.Recipes == nil {
		return nil, fmt.Errorf("recipe service is required")
	}
	if deps.Inventory == nil {
		return nil, fmt.Errorf("inventory store is required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.Server.MaxBodyBytes > 0 {
		router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	}
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	var status health.StatusSource
	if deps.AI != nil {
		status = deps.AI
	}
	healthHandler := health.NewHandler(cfg.App.Version, status, deps.Checks)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled && cfg.RateLimit.Requests > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		api.Use(middleware.RateLimit(limiter, cfg.RateLimit.Window))
	}
	{
		inv := inventoryHandler.NewHandler(deps.Inventory)
		api.GET("/inventory", inv.List)
		api.POST("/inventory", inv.Add)
		api.DELETE("/inventory", inv.Remove)

		recipes := recipeHandler.NewHandler(deps.Recipes, deps.Inventory)
		recipeGroup := api.Group("/recipe")
		if deps.Deduplicator != nil {
			recipeGroup.Use(deps.Deduplicator.Handler())
		}
		{
			recipeGroup.POST("/recommend", recipes.HandleRecommend)
			recipeGroup.POST("/generate", recipes.HandleGenerate)
		}

		if deps.AI != nil {
			api.GET("/generation/status", handlers.NewAIHandler(deps.AI).Status)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Bool("dedup_enabled", deps.Deduplicator != nil),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
		zap.Int("readiness_checks", len(deps.Checks)),
	)

	return router, nil
}
