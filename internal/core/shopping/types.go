package shopping

// DefaultUnit 無法辨識單位時的預設值
const DefaultUnit = "unit"

// UnknownName 無法辨識食材時使用的名稱
const UnknownName = "Unknown"

// ParsedIngredient 解析後的食材
type ParsedIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

// Key 彙整鍵：小寫名稱 + "_" + 單位
func (p ParsedIngredient) Key() string {
	return aggregationKey(p.Name, p.Unit)
}

// Item 購物清單項目
type Item struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Category  string  `json:"category"`
	Checked   bool    `json:"checked"`
	InPantry  bool    `json:"in_pantry"`
	PantryHas float64 `json:"pantry_has"`
}

// ShoppingList 購物清單
type ShoppingList struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	MealPlanID string `json:"meal_plan_id"`
	Items      []Item `json:"items"`
	CreatedAt  string `json:"created_at"`
}
