package mealplan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// PlanTypeWeekly 目前唯一的計畫類型
const PlanTypeWeekly = "weekly"

// Repository 餐點計畫持久化，找不到時回傳 common.ErrPlanNotFound
type Repository interface {
	CreateMealPlan(ctx context.Context, plan *MealPlan) error
	ListMealPlans(ctx context.Context, userID string) ([]MealPlan, error)
	GetMealPlan(ctx context.Context, userID, planID string) (*MealPlan, error)
	UpdateMealPlanDays(ctx context.Context, userID, planID string, days []Day) error
	DeleteMealPlan(ctx context.Context, userID, planID string) error
}

// Generator 由偏好產生一週的餐點
type Generator interface {
	GenerateWeek(ctx context.Context, prefs Preferences) ([]Day, error)
}

// Preferences 產生計畫時使用的偏好
type Preferences struct {
	Goal               string
	DietaryPreferences []string
	CookingMethods     []string
	Allergies          []string
}

// CreateInput 建立計畫的輸入
type CreateInput struct {
	Goal               string   `json:"goal"`
	DietaryPreferences []string `json:"dietary_preferences"`
	CookingMethods     []string `json:"cooking_methods"`
	Allergies          []string `json:"allergies"`
	GenerateWithAI     bool     `json:"generate_with_ai"`
}

// UpdateInput 更新計畫的輸入
type UpdateInput struct {
	Days []Day `json:"days" binding:"required"`
}

// Service 餐點計畫服務
type Service struct {
	repo      Repository
	generator Generator
	now       func() time.Time
}

// NewService 創建餐點計畫服務，generator 可為 nil
func NewService(repo Repository, generator Generator) *Service {
	return &Service{
		repo:      repo,
		generator: generator,
		now:       time.Now,
	}
}

// Create 建立一週計畫；要求 AI 產生但失敗時仍建立空白計畫
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*MealPlan, error) {
	start := s.now()
	plan := &MealPlan{
		ID:                 common.GenerateUUID(),
		UserID:             userID,
		PlanType:           PlanTypeWeekly,
		Goal:               input.Goal,
		StartDate:          common.FormatTime(start),
		EndDate:            common.FormatTime(start.AddDate(0, 0, 7)),
		Days:               NewWeek(),
		DietaryPreferences: nonNil(input.DietaryPreferences),
		CookingMethods:     nonNil(input.CookingMethods),
		CreatedAt:          common.FormatTime(start),
	}

	if input.GenerateWithAI {
		s.fillWithAI(ctx, plan, input)
	}

	if err := s.repo.CreateMealPlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create meal plan: %w", err)
	}

	common.LogInfo("Meal plan created",
		zap.String("meal_plan_id", plan.ID),
		zap.String("user_id", userID),
		zap.Bool("generate_with_ai", input.GenerateWithAI),
	)
	return plan, nil
}

func (s *Service) fillWithAI(ctx context.Context, plan *MealPlan, input CreateInput) {
	if s.generator == nil {
		common.LogWarn("AI generation requested but no generator is configured",
			zap.String("meal_plan_id", plan.ID),
		)
		return
	}

	days, err := s.generator.GenerateWeek(ctx, Preferences{
		Goal:               input.Goal,
		DietaryPreferences: input.DietaryPreferences,
		CookingMethods:     input.CookingMethods,
		Allergies:          input.Allergies,
	})
	if err != nil {
		common.LogError("AI meal plan generation failed",
			zap.Error(err),
			zap.String("meal_plan_id", plan.ID),
		)
		return
	}

	// AI 回覆依序套用到週一至週日
	for i := range plan.Days {
		if i >= len(days) {
			break
		}
		days[i].Day = plan.Days[i].Day
		plan.Days[i] = normalizeDay(days[i])
	}
}

// List 列出使用者的計畫
func (s *Service) List(ctx context.Context, userID string) ([]MealPlan, error) {
	return s.repo.ListMealPlans(ctx, userID)
}

// Get 取得單一計畫
func (s *Service) Get(ctx context.Context, userID, planID string) (*MealPlan, error) {
	return s.repo.GetMealPlan(ctx, userID, planID)
}

// UpdateDays 取代計畫的所有日期並回傳更新後的計畫
func (s *Service) UpdateDays(ctx context.Context, userID, planID string, days []Day) (*MealPlan, error) {
	if err := ValidateDays(days); err != nil {
		return nil, err
	}

	normalized := make([]Day, len(days))
	for i, d := range days {
		normalized[i] = normalizeDay(d)
	}

	if err := s.repo.UpdateMealPlanDays(ctx, userID, planID, normalized); err != nil {
		return nil, err
	}
	return s.repo.GetMealPlan(ctx, userID, planID)
}

// Delete 刪除計畫及其購物清單
func (s *Service) Delete(ctx context.Context, userID, planID string) error {
	if err := s.repo.DeleteMealPlan(ctx, userID, planID); err != nil {
		return err
	}
	common.LogInfo("Meal plan deleted",
		zap.String("meal_plan_id", planID),
		zap.String("user_id", userID),
	)
	return nil
}

// NewWeek 週一到週日的空白計畫
func NewWeek() []Day {
	days := make([]Day, len(WeekDays))
	for i, name := range WeekDays {
		days[i] = NewEmptyDay(name)
	}
	return days
}

// ValidateDays 檢查日期名稱與餐別
func ValidateDays(days []Day) error {
	if len(days) == 0 {
		return common.NewValidationError("days must not be empty")
	}
	for i, d := range days {
		if strings.TrimSpace(d.Day) == "" {
			return common.NewValidationError(fmt.Sprintf("days[%d].day is required", i))
		}
		for _, m := range []map[string]bool{slotKeys(d.Meals), slotKeys(d.Recipes), slotKeys(d.IsLeftover)} {
			for slot := range m {
				if !isSlot(slot) {
					return common.NewValidationError(fmt.Sprintf("days[%d]: unknown meal slot %q", i, slot))
				}
			}
		}
	}
	return nil
}

// normalizeDay 補齊 nil map 與四個餐別的 key
func normalizeDay(d Day) Day {
	if d.Meals == nil {
		d.Meals = make(map[string]*string, len(Slots))
	}
	for _, slot := range Slots {
		if _, ok := d.Meals[slot]; !ok {
			d.Meals[slot] = nil
		}
	}
	if d.Instructions == nil {
		d.Instructions = map[string]string{}
	}
	if d.Recipes == nil {
		d.Recipes = map[string]Recipe{}
	}
	if d.IsLeftover == nil {
		d.IsLeftover = map[string]bool{}
	}
	return d
}

func slotKeys[V any](m map[string]V) map[string]bool {
	keys := make(map[string]bool, len(m))
	for k := range m {
		keys[k] = true
	}
	return keys
}

func isSlot(s string) bool {
	for _, slot := range Slots {
		if slot == s {
			return true
		}
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
