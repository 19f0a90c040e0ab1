package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-recommender/internal/api"
	"recipe-recommender/internal/api/handlers/health"
	"recipe-recommender/internal/api/middleware"
	"recipe-recommender/internal/core/ai/cache"
	"recipe-recommender/internal/core/ai/embedding"
	"recipe-recommender/internal/core/ai/huggingface"
	"recipe-recommender/internal/core/ai/openrouter"
	"recipe-recommender/internal/core/ai/provider"
	"recipe-recommender/internal/core/ai/queue"
	"recipe-recommender/internal/core/ai/service"
	"recipe-recommender/internal/core/corpus"
	"recipe-recommender/internal/core/inventory"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const startupTimeout = 2 * time.Minute

func main() {
	// 載入設定（包含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	startCtx, cancelStart := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStart()

	// 句向量模型與語料庫在啟動時載入一次，失敗即終止
	encoder := embedding.NewClient(embedding.Config{
		Provider:  cfg.Embedding.Provider,
		BaseURL:   cfg.Embedding.BaseURL,
		Model:     cfg.Embedding.Model,
		Dimension: cfg.Embedding.Dimension,
		Timeout:   cfg.Embedding.Timeout,
	})
	if err := encoder.Warmup(startCtx); err != nil {
		common.LogFatal("Failed to warm up embedding model", zap.Error(err))
	}

	backend, err := corpus.Load(startCtx, cfg.Corpus, encoder.Dimension())
	if err != nil {
		common.LogFatal("Failed to load recipe corpus", zap.Error(err))
	}
	defer backend.Close()

	var rdb *redis.Client
	if cfg.Inventory.Backend == "redis" || (cfg.Cache.Enabled && cfg.Cache.Backend == "redis") {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
	}

	store, err := newInventoryStore(startCtx, cfg, rdb)
	if err != nil {
		common.LogFatal("Failed to initialize inventory store", zap.Error(err))
	}

	cacheStore, err := cache.New(cfg.Cache, rdb)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}

	aiService := service.NewService(newProvider(cfg.Generation), cacheStore, queue.NewManager(cfg.Queue))
	defer aiService.Close()

	recipes := recipe.NewService(encoder, backend, aiService, recipe.Options{
		TopK: cfg.Recommend.TopK,
		Weights: recipe.Weights{
			Ingredient: cfg.Recommend.Weights.Ingredient,
			Preference: cfg.Recommend.Weights.Preference,
			Similarity: cfg.Recommend.Weights.Similarity,
		},
		NoteWidth:   cfg.Recommend.NoteWidth,
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: cfg.Generation.Temperature,
	})

	dedup := middleware.NewDeduplicator(cfg.DedupWindow)
	defer dedup.Close()

	encoderReady := func(ctx context.Context) error {
		if !encoder.Ready() {
			return errors.New("embedding model not warmed up")
		}
		return nil
	}

	router, err := api.SetupRouter(cfg, api.Dependencies{
		Recipes:      recipes,
		Inventory:    store,
		AI:           aiService,
		Deduplicator: dedup,
		Checks: map[string]health.Check{
			"corpus":    backend.Ready,
			"encoder":   encoderReady,
			"inventory": store.Ping,
		},
	})
	if err != nil {
		common.LogFatal("Failed to setup router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("application started",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.String("generation_provider", cfg.Generation.Provider),
			zap.String("generation_model", cfg.Generation.Model),
			zap.String("corpus_backend", cfg.Corpus.Backend),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}

// newProvider 依設定建立生成模型提供者
func newProvider(cfg config.GenerationConfig) provider.Provider {
	pc := provider.Config{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
		BaseURL: cfg.BaseURL,
	}
	if cfg.Provider == "openrouter" {
		return openrouter.NewClient(pc)
	}
	return huggingface.NewClient(pc)
}

// newInventoryStore 依設定建立冰箱庫存
func newInventoryStore(ctx context.Context, cfg *config.Config, rdb *redis.Client) (inventory.Store, error) {
	if cfg.Inventory.Backend != "redis" {
		return inventory.NewMemoryStore(), nil
	}
	store := inventory.NewRedisStore(rdb, cfg.Inventory.Key)
	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("redis inventory unreachable: %w", err)
	}
	return store, nil
}
