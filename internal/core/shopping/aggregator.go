package shopping

import (
	"strings"

	"meal-planner/internal/core/mealplan"
)

// aggregationKey 小寫名稱 + "_" + 單位
func aggregationKey(name, unit string) string {
	return strings.ToLower(name) + "_" + unit
}

// ItemSet 以彙整鍵索引的購物項目，保留鍵第一次出現的順序。
// 每次產生清單時各自建立，不在請求之間共用。
type ItemSet struct {
	keys  []string
	items map[string]*Item
}

// NewItemSet 建立空的 ItemSet
func NewItemSet() *ItemSet {
	return &ItemSet{items: make(map[string]*Item)}
}

// Add 加入一項解析後的食材；鍵已存在時累加數量（不做單位換算）
func (s *ItemSet) Add(p ParsedIngredient) {
	key := p.Key()
	if existing, ok := s.items[key]; ok {
		existing.Quantity += p.Quantity
		return
	}
	s.keys = append(s.keys, key)
	s.items[key] = &Item{
		Name:     p.Name,
		Quantity: p.Quantity,
		Unit:     p.Unit,
		Category: p.Category,
	}
}

// Get 依鍵取得項目
func (s *ItemSet) Get(key string) (*Item, bool) {
	item, ok := s.items[key]
	return item, ok
}

// Keys 依插入順序回傳所有鍵
func (s *ItemSet) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len 項目數量
func (s *ItemSet) Len() int {
	return len(s.keys)
}

// Items 依插入順序回傳項目副本
func (s *ItemSet) Items() []Item {
	out := make([]Item, 0, len(s.keys))
	for _, key := range s.keys {
		out = append(out, *s.items[key])
	}
	return out
}

// each 依插入順序走訪可修改的項目
func (s *ItemSet) each(fn func(item *Item)) {
	for _, key := range s.keys {
		fn(s.items[key])
	}
}

// Aggregate 彙整整份計畫的食材。
// 依日期陣列順序，再依 breakfast→lunch→dinner→snack 走訪，跳過標記為剩菜的餐別。
func Aggregate(days []mealplan.Day) *ItemSet {
	set := NewItemSet()
	for _, day := range days {
		for _, slot := range mealplan.Slots {
			if day.IsLeftover[slot] {
				continue
			}
			recipe, ok := day.Recipes[slot]
			if !ok {
				continue
			}
			for _, raw := range recipe.Ingredients {
				set.Add(ParseRaw(raw))
			}
		}
	}
	return set
}
