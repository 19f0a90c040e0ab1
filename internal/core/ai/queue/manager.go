package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	Active         int `json:"active"`
	ProcessedCount int `json:"processed_count"`
	RejectedCount  int `json:"rejected_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Manager 限制同時進行的生成請求數量，超過 Workers 的請求排隊等待，排隊數超過 MaxSize 直接拒絕
type Manager struct {
	cfg       config.QueueConfig
	slots     chan struct{}
	done      chan struct{}
	once      sync.Once
	waiting   int64
	active    int64
	processed int64
	rejected  int64
}

// NewManager 創建新的隊列管理器
func NewManager(cfg config.QueueConfig) *Manager {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Manager{
		cfg:   cfg,
		slots: make(chan struct{}, cfg.Workers),
		done:  make(chan struct{}),
	}
}

// Acquire 取得一個生成名額，完成後必須呼叫 release
func (m *Manager) Acquire(ctx context.Context) (func(), error) {
	if n := atomic.AddInt64(&m.waiting, 1); n > int64(m.cfg.MaxSize) {
		atomic.AddInt64(&m.waiting, -1)
		atomic.AddInt64(&m.rejected, 1)
		common.LogWarn("generation queue is full",
			zap.Int64("queue_length", n-1),
			zap.Int("max_queue_size", m.cfg.MaxSize),
		)
		return nil, common.WrapError(common.ErrTooManyRequests, fmt.Errorf("queue is full"))
	}
	defer atomic.AddInt64(&m.waiting, -1)

	select {
	case m.slots <- struct{}{}:
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, common.WrapError(common.ErrGenerationTimeout, ctx.Err())
		}
		return nil, ctx.Err()
	case <-m.done:
		return nil, common.WrapError(common.ErrServiceUnavailable, fmt.Errorf("queue manager is closed"))
	}

	atomic.AddInt64(&m.active, 1)
	var released int32
	return func() {
		if !atomic.CompareAndSwapInt32(&released, 0, 1) {
			return
		}
		atomic.AddInt64(&m.active, -1)
		atomic.AddInt64(&m.processed, 1)
		<-m.slots
	}, nil
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    int(atomic.LoadInt64(&m.waiting)),
		Active:         int(atomic.LoadInt64(&m.active)),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		RejectedCount:  int(atomic.LoadInt64(&m.rejected)),
		MaxQueueSize:   m.cfg.MaxSize,
		Workers:        m.cfg.Workers,
	}
}

// Close 關閉隊列管理器，等待中的請求會收到錯誤
func (m *Manager) Close() {
	m.once.Do(func() { close(m.done) })
}
