package mealplan

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"meal-planner/internal/infrastructure/cache"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// CachedRepository 計畫讀取走快取，更新與刪除時失效
type CachedRepository struct {
	Repository
	store cache.Store
	ttl   time.Duration
}

// NewCachedRepository 包裝 Repository；store 為 nil 時直接回傳原 Repository
func NewCachedRepository(repo Repository, store cache.Store, ttl time.Duration) Repository {
	if store == nil {
		return repo
	}
	return &CachedRepository{Repository: repo, store: store, ttl: ttl}
}

func planCacheKey(userID, planID string) string {
	return "mealplan:" + userID + ":" + planID
}

// GetMealPlan 先查快取，未命中時讀取資料庫並回填
func (r *CachedRepository) GetMealPlan(ctx context.Context, userID, planID string) (*MealPlan, error) {
	key := planCacheKey(userID, planID)

	data, err := r.store.Get(ctx, key)
	if err == nil {
		var plan MealPlan
		if err := json.Unmarshal(data, &plan); err == nil {
			return &plan, nil
		}
		common.LogWarn("Discarding undecodable cached meal plan", zap.String("key", key))
		_ = r.store.Delete(ctx, key)
	} else if !errors.Is(err, common.ErrCacheMiss) {
		common.LogWarn("Meal plan cache lookup failed", zap.Error(err))
	}

	plan, err := r.Repository.GetMealPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(plan); err == nil {
		if err := r.store.Set(ctx, key, data, r.ttl); err != nil {
			common.LogWarn("Meal plan cache store failed", zap.Error(err))
		}
	}
	return plan, nil
}

// UpdateMealPlanDays 更新後讓快取失效
func (r *CachedRepository) UpdateMealPlanDays(ctx context.Context, userID, planID string, days []Day) error {
	err := r.Repository.UpdateMealPlanDays(ctx, userID, planID, days)
	r.invalidate(ctx, userID, planID)
	return err
}

// DeleteMealPlan 刪除後讓快取失效
func (r *CachedRepository) DeleteMealPlan(ctx context.Context, userID, planID string) error {
	err := r.Repository.DeleteMealPlan(ctx, userID, planID)
	r.invalidate(ctx, userID, planID)
	return err
}

func (r *CachedRepository) invalidate(ctx context.Context, userID, planID string) {
	if err := r.store.Delete(ctx, planCacheKey(userID, planID)); err != nil {
		common.LogWarn("Meal plan cache invalidation failed",
			zap.Error(err),
			zap.String("meal_plan_id", planID),
		)
	}
}
