package cache

import (
	"context"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// New 依設定選擇快取後端。
//
// 快取停用時回傳 nil；Redis 無法連線時退回記憶體快取。
func New(ctx context.Context, cfg *config.Config) Store {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil
	}

	if cfg.Redis.Enabled {
		store, err := NewRedisStore(ctx, cfg.Redis, cfg.Cache)
		if err == nil {
			return store
		}
		common.LogWarn("Redis 無法連線，改用記憶體快取",
			zap.Error(err),
			zap.String("addr", cfg.Redis.Addr),
		)
	}

	return NewMemoryStore(cfg.Cache)
}
