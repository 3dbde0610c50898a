package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"meal-planner/internal/core/ai/queue"
	"meal-planner/internal/infrastructure/cache"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// pingTimeout 資料庫 ping 的期限
const pingTimeout = 2 * time.Second

// Pinger 可檢查連線的依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

// QueueReporter 回報 AI 隊列狀態
type QueueReporter interface {
	QueueStatus() *queue.Status
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Database  string                 `json:"database"`
	Runtime   map[string]interface{} `json:"runtime"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
	Queue     *queue.Status          `json:"queue,omitempty"`
}

// Handler 健康檢查處理器
type Handler struct {
	version string
	db      Pinger
	cache   cache.Store
	ai      QueueReporter
}

// NewHandler 創建健康檢查處理器，cache 與 ai 可為 nil
func NewHandler(version string, db Pinger, store cache.Store, ai QueueReporter) *Handler {
	return &Handler{version: version, db: db, cache: store, ai: ai}
}

func (h *Handler) ping(c *gin.Context) error {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()
	return h.db.Ping(ctx)
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Database:  "ok",
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	status := http.StatusOK
	if err := h.ping(c); err != nil {
		common.LogError("Database ping failed", zap.Error(err))
		response.Status = "degraded"
		response.Database = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		response.Cache = h.cache.Stats()
	}
	if h.ai != nil {
		response.Queue = h.ai.QueueStatus()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(status, response)
}

// ReadinessCheck 就緒檢查：資料庫可連線才就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if err := h.ping(c); err != nil {
		common.LogWarn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
