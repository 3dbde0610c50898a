package shopping

import (
	"context"
	"fmt"

	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/pantry"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// PlanReader 讀取使用者的餐點計畫，找不到時回傳 common.ErrPlanNotFound
type PlanReader interface {
	GetMealPlan(ctx context.Context, userID, planID string) (*mealplan.MealPlan, error)
}

// PantryReader 讀取使用者的庫存快照
type PantryReader interface {
	ListPantryItems(ctx context.Context, userID string) ([]pantry.Item, error)
}

// ListStore 購物清單持久化
type ListStore interface {
	CreateShoppingList(ctx context.Context, list *ShoppingList) error
	ListShoppingLists(ctx context.Context, userID string) ([]ShoppingList, error)
	GetShoppingList(ctx context.Context, userID, listID string) (*ShoppingList, error)
	SetItemChecked(ctx context.Context, userID, listID string, index int, checked bool) (*ShoppingList, error)
	DeleteShoppingList(ctx context.Context, userID, listID string) error
}

// Service 購物清單服務
type Service struct {
	plans  PlanReader
	pantry PantryReader
	lists  ListStore
}

// NewService 創建購物清單服務
func NewService(plans PlanReader, pantryReader PantryReader, lists ListStore) *Service {
	return &Service{
		plans:  plans,
		pantry: pantryReader,
		lists:  lists,
	}
}

// Generate 由餐點計畫產生並儲存購物清單。
//
// 計畫不存在時回傳 common.ErrPlanNotFound 且不建立任何清單。
// 讀取庫存失敗只記錄警告並略過扣除。
func (s *Service) Generate(ctx context.Context, userID, planID string, subtractPantry bool) (*ShoppingList, error) {
	plan, err := s.plans.GetMealPlan(ctx, userID, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}

	var pantryItems []pantry.Item
	if subtractPantry {
		pantryItems, err = s.pantry.ListPantryItems(ctx, userID)
		if err != nil {
			common.LogWarn("Pantry fetch failed, skipping reconciliation",
				zap.Error(err),
				zap.String("user_id", userID),
				zap.String("meal_plan_id", planID),
			)
			pantryItems = nil
		}
	}

	items := Build(plan.Days, pantryItems, subtractPantry)

	// 請求已取消時不寫入任何資料
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	list := &ShoppingList{
		ID:         common.GenerateUUID(),
		UserID:     userID,
		MealPlanID: plan.ID,
		Items:      items,
		CreatedAt:  common.NowISO(),
	}
	if err := s.lists.CreateShoppingList(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to persist shopping list: %w", err)
	}

	common.LogInfo("Shopping list generated",
		zap.String("shopping_list_id", list.ID),
		zap.String("meal_plan_id", plan.ID),
		zap.Int("items", len(items)),
		zap.Int("pantry_items", len(pantryItems)),
		zap.Bool("subtract_pantry", subtractPantry),
	)

	return list, nil
}

// List 列出使用者的購物清單
func (s *Service) List(ctx context.Context, userID string) ([]ShoppingList, error) {
	return s.lists.ListShoppingLists(ctx, userID)
}

// Get 取得單一購物清單
func (s *Service) Get(ctx context.Context, userID, listID string) (*ShoppingList, error) {
	return s.lists.GetShoppingList(ctx, userID, listID)
}

// SetChecked 切換單一項目的勾選狀態
func (s *Service) SetChecked(ctx context.Context, userID, listID string, index int, checked bool) (*ShoppingList, error) {
	if index < 0 {
		return nil, common.ErrInvalidItemIndex
	}
	return s.lists.SetItemChecked(ctx, userID, listID, index, checked)
}

// Delete 刪除購物清單
func (s *Service) Delete(ctx context.Context, userID, listID string) error {
	return s.lists.DeleteShoppingList(ctx, userID, listID)
}
