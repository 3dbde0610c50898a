package shopping

import (
	"strings"

	"meal-planner/internal/core/pantry"
)

// Reconcile 以庫存扣除需求量，直接修改並回傳同一個 ItemSet。
//
// 比對方式為貪婪且無排序：依庫存清單順序，對每個購物項目檢查
// 名稱互為子字串、單位相同或互為子字串（皆不分大小寫）。
// 一個庫存項目可扣除多個購物項目，反之亦然。
func Reconcile(set *ItemSet, items []pantry.Item) *ItemSet {
	for _, p := range items {
		pantryName := strings.ToLower(strings.TrimSpace(p.Name))
		if pantryName == "" {
			continue
		}
		pantryUnit := strings.ToLower(strings.TrimSpace(p.Unit))
		if pantryUnit == "" {
			pantryUnit = DefaultUnit
		}

		set.each(func(item *Item) {
			if !namesMatch(strings.ToLower(item.Name), pantryName) ||
				!unitsMatch(strings.ToLower(item.Unit), pantryUnit) {
				return
			}
			item.InPantry = true
			item.PantryHas = p.Quantity
			item.Quantity -= p.Quantity
			if item.Quantity <= 0 {
				item.Quantity = 0
				item.Checked = true
			}
		})
	}
	return set
}

func namesMatch(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func unitsMatch(a, b string) bool {
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}
