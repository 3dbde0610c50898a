package pantry

import (
	"context"
	"fmt"
	"math"
	"strings"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Repository 庫存持久化，找不到時回傳 common.ErrPantryItemNotFound
type Repository interface {
	ListPantryItems(ctx context.Context, userID string) ([]Item, error)
	GetPantryItem(ctx context.Context, userID, itemID string) (*Item, error)
	CreatePantryItem(ctx context.Context, item *Item) error
	UpdatePantryItem(ctx context.Context, item *Item) error
	DeletePantryItem(ctx context.Context, userID, itemID string) error
}

// Service 庫存服務
type Service struct {
	repo       Repository
	categorize func(name string) string
}

// NewService 創建庫存服務；categorize 用於補上未填的分類
func NewService(repo Repository, categorize func(name string) string) *Service {
	return &Service{repo: repo, categorize: categorize}
}

// List 依分類、名稱排序列出庫存
func (s *Service) List(ctx context.Context, userID string) ([]Item, error) {
	return s.repo.ListPantryItems(ctx, userID)
}

// LowStock 列出低於門檻的項目
func (s *Service) LowStock(ctx context.Context, userID string) ([]Item, error) {
	items, err := s.repo.ListPantryItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	low := make([]Item, 0)
	for _, item := range items {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}

// Create 新增庫存項目
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*Item, error) {
	now := common.NowISO()
	item := &Item{
		ID:                common.GenerateUUID(),
		UserID:            userID,
		Name:              strings.TrimSpace(input.Name),
		Quantity:          input.Quantity,
		Unit:              strings.TrimSpace(input.Unit),
		Category:          strings.TrimSpace(input.Category),
		LowStockThreshold: input.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.prepare(item); err != nil {
		return nil, err
	}

	if err := s.repo.CreatePantryItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create pantry item: %w", err)
	}

	common.LogDebug("Pantry item created",
		zap.String("pantry_item_id", item.ID),
		zap.String("name", item.Name),
	)
	return item, nil
}

// Update 部分更新庫存項目
func (s *Service) Update(ctx context.Context, userID, itemID string, input UpdateInput) (*Item, error) {
	item, err := s.repo.GetPantryItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
		// 改名且未指定分類時重新分類
		if input.Category == nil {
			item.Category = ""
		}
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.Unit != nil {
		item.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.Category != nil {
		item.Category = strings.TrimSpace(*input.Category)
	}
	switch {
	case input.ClearLowStockThreshold && input.LowStockThreshold != nil:
		return nil, common.NewValidationError("low_stock_threshold and clear_low_stock_threshold are mutually exclusive")
	case input.ClearLowStockThreshold:
		item.LowStockThreshold = nil
	case input.LowStockThreshold != nil:
		item.LowStockThreshold = input.LowStockThreshold
	}
	if err := s.prepare(item); err != nil {
		return nil, err
	}
	item.UpdatedAt = common.NowISO()

	if err := s.repo.UpdatePantryItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete 刪除庫存項目
func (s *Service) Delete(ctx context.Context, userID, itemID string) error {
	return s.repo.DeletePantryItem(ctx, userID, itemID)
}

// prepare 驗證並補上預設分類
func (s *Service) prepare(item *Item) error {
	if item.Name == "" {
		return common.NewValidationError("name is required")
	}
	if item.Unit == "" {
		return common.NewValidationError("unit is required")
	}
	if item.Quantity < 0 || math.IsNaN(item.Quantity) || math.IsInf(item.Quantity, 0) {
		return common.NewValidationError("quantity must be a non-negative number")
	}
	if t := item.LowStockThreshold; t != nil && (*t < 0 || math.IsNaN(*t) || math.IsInf(*t, 0)) {
		return common.NewValidationError("low_stock_threshold must be a non-negative number")
	}
	if item.Category == "" && s.categorize != nil {
		item.Category = s.categorize(item.Name)
	}
	return nil
}
