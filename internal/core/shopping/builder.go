package shopping

import (
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/pantry"
	"meal-planner/internal/pkg/common"
)

// Build 由計畫與庫存快照產生最終的購物項目（不含持久化）。
//
// 保留數量大於 0 的項目，以及已在庫存中、數量為 0 的項目（顯示為已勾選）。
func Build(days []mealplan.Day, pantryItems []pantry.Item, subtractPantry bool) []Item {
	set := Aggregate(days)
	if subtractPantry && len(pantryItems) > 0 {
		Reconcile(set, pantryItems)
	}

	items := make([]Item, 0, set.Len())
	for _, item := range set.Items() {
		// 先以未四捨五入的數量篩選，極小用量（如 0.001 tsp）仍保留
		if item.Quantity <= 0 && !item.InPantry {
			continue
		}
		item.Quantity = common.Round2(item.Quantity)
		item.PantryHas = common.Round2(item.PantryHas)
		items = append(items, item)
	}
	return items
}
