package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-recommender/internal/core/ai/cache"
	"recipe-recommender/internal/core/ai/provider"
	"recipe-recommender/internal/core/ai/queue"
	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 生成服務：快取、併發限制與提供者呼叫
type Service struct {
	provider provider.Provider
	cache    cache.Store
	queue    *queue.Manager
}

// NewService 創建生成服務，cache 與 queue 可為 nil
func NewService(p provider.Provider, store cache.Store, q *queue.Manager) *Service {
	return &Service{
		provider: p,
		cache:    store,
		queue:    q,
	}
}

// ProcessRequest 統一對外方法
func (s *Service) ProcessRequest(ctx context.Context, prompt string, params provider.Params) (*provider.Result, error) {
	model := s.provider.GetModel()
	key := cacheKey(model, prompt, params)

	if s.cache != nil {
		val, err := s.cache.Get(ctx, key)
		if err == nil {
			return &provider.Result{Content: val, Model: model, CacheHit: true}, nil
		}
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("cache lookup failed", zap.Error(err))
		}
	}

	if s.queue != nil {
		release, err := s.queue.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	if timeout := s.provider.GetTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.provider.Generate(ctx, provider.UserPrompt(prompt, params))
	common.LogAICall(model, len(prompt), time.Since(start), err)
	if err != nil {
		if _, ok := common.AsCustomError(err); ok {
			return nil, err
		}
		return nil, provider.ClassifyTransportError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp.Content); err != nil {
			common.LogWarn("failed to store generation in cache", zap.Error(err))
		}
	}

	if resp.Model != "" {
		model = resp.Model
	}
	return &provider.Result{
		Content: resp.Content,
		Model:   model,
		Usage:   resp.Usage,
	}, nil
}

// GetModel 當前模型名稱
func (s *Service) GetModel() string {
	return s.provider.GetModel()
}

// QueueStatus 併發限制狀態
func (s *Service) QueueStatus() *queue.Status {
	if s.queue == nil {
		return nil
	}
	return s.queue.GetQueueStatus()
}

// CacheStats 快取統計
func (s *Service) CacheStats() map[string]interface{} {
	if s.cache == nil {
		return map[string]interface{}{"enabled": false}
	}
	return s.cache.GetStats()
}

// Close 釋放提供者、快取與隊列
func (s *Service) Close() error {
	if s.queue != nil {
		s.queue.Close()
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			return err
		}
	}
	return s.provider.Close()
}

// cacheKey 以模型、參數與 prompt 雜湊組成快取鍵
func cacheKey(model, prompt string, params provider.Params) string {
	return fmt.Sprintf("%s:%d:%g:%s", model, params.MaxTokens, params.Temperature, common.HashString(prompt))
}
