package queue

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrQueueFull 等待中的請求已達上限
var ErrQueueFull = common.NewError("QUEUE_FULL", "AI 請求佇列已滿", http.StatusServiceUnavailable, nil)

// Status 隊列狀態
type Status struct {
	Active         int   `json:"active"`
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	RejectedCount  int64 `json:"rejected_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 限制同時進行的 AI 請求數，超過 workers 的請求排隊等待
type Manager struct {
	slots     chan struct{}
	maxSize   int
	waiting   int64
	processed int64
	rejected  int64
}

// NewManager 創建新的隊列管理器
func NewManager(cfg config.QueueConfig) *Manager {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Manager{
		slots:   make(chan struct{}, workers),
		maxSize: cfg.MaxSize,
	}
}

// Acquire 取得執行名額，回傳的 release 必須呼叫一次
func (m *Manager) Acquire(ctx context.Context) (release func(), err error) {
	select {
	case m.slots <- struct{}{}:
		return m.releaseFunc(), nil
	default:
	}

	if atomic.AddInt64(&m.waiting, 1) > int64(m.maxSize) {
		atomic.AddInt64(&m.waiting, -1)
		atomic.AddInt64(&m.rejected, 1)
		common.LogWarn("AI request rejected, queue is full",
			zap.Int("max_queue_size", m.maxSize),
		)
		return nil, ErrQueueFull
	}
	defer atomic.AddInt64(&m.waiting, -1)

	select {
	case m.slots <- struct{}{}:
		return m.releaseFunc(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) releaseFunc() func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			<-m.slots
			atomic.AddInt64(&m.processed, 1)
		})
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		Active:         len(m.slots),
		QueueLength:    int(atomic.LoadInt64(&m.waiting)),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		RejectedCount:  atomic.LoadInt64(&m.rejected),
		MaxQueueSize:   m.maxSize,
		Workers:        cap(m.slots),
	}
}
