package mealplan

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"meal-planner/internal/pkg/common"
)

const systemPrompt = "You are a professional nutritionist and meal planning expert. " +
	"Generate practical, healthy meal suggestions with cooking instructions."

// goalContext 健康目標對應的提示
var goalContext = map[string]string{
	"lose_weight":       "focused on calorie deficit, high protein, lower carbs for weight loss",
	"gain_weight":       "calorie surplus with nutrient-dense foods for healthy weight gain",
	"gain_muscle":       "high protein (1g per lb bodyweight), balanced carbs and fats for muscle building",
	"eat_healthy":       "balanced nutrition, whole foods, variety of nutrients",
	"increase_energy":   "complex carbs, B vitamins, sustained energy foods",
	"improve_digestion": "fiber-rich, probiotic foods, gentle on stomach",
}

// Completer 文字生成
type Completer interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// AIGenerator 以 LLM 產生一週餐點
type AIGenerator struct {
	completer Completer
}

// NewAIGenerator 創建 AI 計畫產生器
func NewAIGenerator(c Completer) *AIGenerator {
	return &AIGenerator{completer: c}
}

// aiWeek 模型回覆格式
type aiWeek struct {
	Days []aiDay `json:"days"`
}

type aiDay struct {
	Day             string    `json:"day"`
	Breakfast       string    `json:"breakfast"`
	BreakfastRecipe *aiRecipe `json:"breakfast_recipe"`
	Lunch           string    `json:"lunch"`
	LunchRecipe     *aiRecipe `json:"lunch_recipe"`
	Dinner          string    `json:"dinner"`
	DinnerRecipe    *aiRecipe `json:"dinner_recipe"`
	Snack           string    `json:"snack"`
}

type aiRecipe struct {
	Ingredients  []RawIngredient `json:"ingredients"`
	Instructions string          `json:"instructions"`
	PrepTime     looseInt        `json:"prep_time"`
	CookTime     looseInt        `json:"cook_time"`
	Servings     looseInt        `json:"servings"`
}

// looseInt 接受整數、小數（四捨五入）或數字字串；其他內容視為未提供，不讓整份回覆解析失敗
type looseInt struct {
	value *int
}

func (l *looseInt) UnmarshalJSON(data []byte) error {
	l.value = nil
	if strings.TrimSpace(string(data)) == "null" {
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		var s string
		if json.Unmarshal(data, &s) != nil {
			return nil
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return nil
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	v := int(math.Round(f))
	l.value = &v
	return nil
}

// GenerateWeek 產生並解析一週計畫
func (g *AIGenerator) GenerateWeek(ctx context.Context, prefs Preferences) ([]Day, error) {
	content, err := g.completer.Complete(ctx, systemPrompt, BuildPrompt(prefs))
	if err != nil {
		return nil, err
	}
	return ParseWeek(content)
}

// BuildPrompt 組合產生計畫的提示
func BuildPrompt(prefs Preferences) string {
	var b strings.Builder
	b.WriteString("Generate a complete 7-day weekly meal plan with DETAILED recipes.\n\n")

	if prefs.Goal != "" {
		hint, ok := goalContext[prefs.Goal]
		if !ok {
			hint = "balanced nutrition"
		}
		fmt.Fprintf(&b, "Goal: %s\n", hint)
	}
	if len(prefs.Allergies) > 0 {
		fmt.Fprintf(&b, "ALLERGIES/RESTRICTIONS: Avoid %s\n", strings.Join(prefs.Allergies, ", "))
	}
	fmt.Fprintf(&b, "Dietary preferences: %s\n", common.StringSliceToString(prefs.DietaryPreferences, "None"))
	fmt.Fprintf(&b, "Cooking methods available: %s\n\n", common.StringSliceToString(prefs.CookingMethods, "Any"))

	b.WriteString(`For each day (Monday through Sunday), provide breakfast, lunch and dinner with a FULL recipe, and a simple snack.
Each recipe MUST include every ingredient with an exact quantity (e.g. "2 cups spinach", "1 tbsp olive oil"),
step-by-step instructions, prep_time and cook_time in minutes, and servings.

Respond ONLY with valid JSON in this format:
{"days":[{"day":"Monday","breakfast":"Meal name","breakfast_recipe":{"ingredients":["2 large eggs","1 cup spinach"],"instructions":"1. ...","prep_time":5,"cook_time":10,"servings":1},"lunch":"Meal name","lunch_recipe":{...},"dinner":"Meal name","dinner_recipe":{...},"snack":"Snack name"}]}`)
	return b.String()
}

// ParseWeek 取出回覆中第一個 { 到最後一個 } 之間的 JSON 並轉為計畫日期
func ParseWeek(content string) ([]Day, error) {
	raw, ok := common.ExtractJSONObject(content)
	if !ok {
		return nil, fmt.Errorf("no JSON object in AI response")
	}

	var week aiWeek
	if err := common.ParseJSON(raw, &week); err != nil {
		// 模型偶爾回傳未加引號的鍵
		week = aiWeek{}
		if retryErr := common.ParseJSON(common.QuoteJSONKeys(raw), &week); retryErr != nil {
			return nil, fmt.Errorf("failed to parse AI response: %w", err)
		}
	}
	if len(week.Days) == 0 {
		return nil, fmt.Errorf("AI response contains no days")
	}

	days := make([]Day, 0, len(week.Days))
	for _, d := range week.Days {
		day := NewEmptyDay(d.Day)
		setMeal(day.Meals, SlotBreakfast, d.Breakfast)
		setMeal(day.Meals, SlotLunch, d.Lunch)
		setMeal(day.Meals, SlotDinner, d.Dinner)
		setMeal(day.Meals, SlotSnack, d.Snack)

		for slot, r := range map[string]*aiRecipe{
			SlotBreakfast: d.BreakfastRecipe,
			SlotLunch:     d.LunchRecipe,
			SlotDinner:    d.DinnerRecipe,
		} {
			if r == nil {
				continue
			}
			day.Recipes[slot] = Recipe{
				Ingredients:  r.Ingredients,
				Instructions: r.Instructions,
				PrepTime:     r.PrepTime.value,
				CookTime:     r.CookTime.value,
				Servings:     r.Servings.value,
			}
			day.Instructions[slot] = fmt.Sprintf("Prep: %s min | Cook: %s min", minutes(r.PrepTime.value), minutes(r.CookTime.value))
		}
		days = append(days, day)
	}
	return days, nil
}

func setMeal(meals map[string]*string, slot, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	meals[slot] = &name
}

func minutes(v *int) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *v)
}
