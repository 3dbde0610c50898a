package mealplan

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// 餐別
const (
	SlotBreakfast = "breakfast"
	SlotLunch     = "lunch"
	SlotDinner    = "dinner"
	SlotSnack     = "snack"
)

// Slots 固定的餐別順序，彙整食材時依此順序走訪
var Slots = []string{SlotBreakfast, SlotLunch, SlotDinner, SlotSnack}

// WeekDays 週計畫的日期名稱
var WeekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// MealPlan 餐點計畫
type MealPlan struct {
	ID                 string   `json:"id"`
	UserID             string   `json:"user_id"`
	PlanType           string   `json:"plan_type"`
	Goal               string   `json:"goal,omitempty"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	Days               []Day    `json:"days"`
	DietaryPreferences []string `json:"dietary_preferences"`
	CookingMethods     []string `json:"cooking_methods"`
	CreatedAt          string   `json:"created_at"`
}

// Day 單日計畫
type Day struct {
	Day          string             `json:"day"`
	Meals        map[string]*string `json:"meals"`
	Instructions map[string]string  `json:"instructions,omitempty"`
	Recipes      map[string]Recipe  `json:"recipes,omitempty"`
	IsLeftover   map[string]bool    `json:"is_leftover,omitempty"`
	Locked       bool               `json:"locked"`
}

// Recipe 餐別對應的食譜
type Recipe struct {
	Ingredients  []RawIngredient `json:"ingredients"`
	Instructions string          `json:"instructions"`
	PrepTime     *int            `json:"prep_time,omitempty"`
	CookTime     *int            `json:"cook_time,omitempty"`
	Servings     *int            `json:"servings,omitempty"`
}

// NewEmptyDay 建立四個餐別皆為空的單日計畫
func NewEmptyDay(name string) Day {
	meals := make(map[string]*string, len(Slots))
	for _, slot := range Slots {
		meals[slot] = nil
	}
	return Day{
		Day:          name,
		Meals:        meals,
		Instructions: map[string]string{},
		Recipes:      map[string]Recipe{},
		IsLeftover:   map[string]bool{},
	}
}

// IngredientRecord 已結構化的食材
type IngredientRecord struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category,omitempty"`
}

// RawIngredient 食譜中的原始食材：自由文字、結構化紀錄，或無法辨識的內容
type RawIngredient struct {
	Text   string
	Record *IngredientRecord
	// Malformed 表示既非字串也非可用的結構化紀錄
	Malformed bool
}

// TextIngredient 建立自由文字食材
func TextIngredient(s string) RawIngredient {
	return RawIngredient{Text: s}
}

// RecordIngredient 建立結構化食材
func RecordIngredient(name string, quantity float64, unit, category string) RawIngredient {
	return RawIngredient{Record: &IngredientRecord{Name: name, Quantity: quantity, Unit: unit, Category: category}}
}

// MarshalJSON 字串食材輸出為字串，結構化食材輸出為物件
func (r RawIngredient) MarshalJSON() ([]byte, error) {
	switch {
	case r.Record != nil:
		return json.Marshal(r.Record)
	case r.Malformed:
		return []byte("null"), nil
	default:
		return json.Marshal(r.Text)
	}
}

// UnmarshalJSON 接受字串或物件；其他型別標記為 Malformed 而不回傳錯誤，
// 讓單一壞掉的食材不會使整份計畫無法解析
func (r *RawIngredient) UnmarshalJSON(data []byte) error {
	*r = RawIngredient{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		r.Malformed = true
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			r.Malformed = true
			return nil
		}
		r.Text = s
		return nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			r.Malformed = true
			return nil
		}
		rec, ok := decodeRecord(fields)
		if !ok {
			r.Malformed = true
			return nil
		}
		r.Record = rec
		return nil
	default:
		r.Malformed = true
		return nil
	}
}

// decodeRecord 寬鬆解析結構化食材；name 必須為非空字串
func decodeRecord(fields map[string]json.RawMessage) (*IngredientRecord, bool) {
	var name string
	if err := json.Unmarshal(fields["name"], &name); err != nil || strings.TrimSpace(name) == "" {
		return nil, false
	}

	rec := &IngredientRecord{Name: name}
	rec.Quantity = decodeQuantity(fields["quantity"])
	_ = json.Unmarshal(fields["unit"], &rec.Unit)
	_ = json.Unmarshal(fields["category"], &rec.Category)
	return rec, true
}

// decodeQuantity 接受數字或數字字串，無法解析時回傳 0 由呼叫端套用預設值
func decodeQuantity(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}
	return 0
}
