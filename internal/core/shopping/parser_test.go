package shopping

import (
	"encoding/json"
	"fmt"
	"testing"

	"meal-planner/internal/core/mealplan"
)

func TestParseIngredient(t *testing.T) {
	tests := []struct {
		raw      string
		name     string
		quantity float64
		unit     string
	}{
		{"2 cups spinach", "spinach", 2, "cups"},
		{"1 cup spinach", "spinach", 1, "cups"},
		{"1 tbsp olive oil", "olive oil", 1, "tbsp"},
		{"1/2 cup sugar", "sugar", 0.5, "cups"},
		{"1 1/2 cups flour", "flour", 1.5, "cups"},
		{"1/4 cup feta cheese", "feta cheese", 0.25, "cups"},
		{"0.5 kg chicken breast", "chicken breast", 0.5, "kg"},
		{"3 Cloves garlic", "garlic", 3, "cloves"},
		{"2 large eggs", "large eggs", 2, "unit"},
		{"2 lbs ground beef", "ground beef", 2, "lb"},
		{"salt", "salt", 1, "unit"},
		{"Salt and pepper to taste", "Salt and pepper to taste", 1, "unit"},
		{"  4   slices  whole wheat bread ", "whole wheat bread", 4, "slices"},
		{"2", "2", 1, "unit"},
		{"2 cups", "2 cups", 1, "unit"},
		{"0 cups rice", "rice", 1, "cups"},
		{"1/0 cup milk", "milk", 1, "cups"},
		{"1/2/3 cup milk", "milk", 1, "cups"},
		{"2-3 cloves garlic", "2-3 cloves garlic", 1, "unit"},
		{"can tomatoes", "can tomatoes", 1, "unit"},
		{"200g chicken breast", "chicken breast", 200, "g"},
		{"2tbsp olive oil", "olive oil", 2, "tbsp"},
		{"1/2cup sugar", "sugar", 0.5, "cups"},
		{"1 1/2cups flour", "flour", 1.5, "cups"},
		{"2 garlic", "garlic", 2, "unit"},
		{"2garlic", "2garlic", 1, "unit"},
		{"200g", "200g", 1, "unit"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseIngredient(tt.raw)
			if got.Name != tt.name {
				t.Errorf("name = %q, want %q", got.Name, tt.name)
			}
			if got.Quantity != tt.quantity {
				t.Errorf("quantity = %v, want %v", got.Quantity, tt.quantity)
			}
			if got.Unit != tt.unit {
				t.Errorf("unit = %q, want %q", got.Unit, tt.unit)
			}
		})
	}
}

func TestParseIngredientIntegerUnitName(t *testing.T) {
	units := []string{"cups", "tbsp", "tsp", "oz", "lb", "g", "kg", "ml", "l", "bunch",
		"cloves", "pieces", "slices", "cans", "bottles", "packages", "stalks"}

	for n := 1; n <= 25; n++ {
		for _, unit := range units {
			raw := fmt.Sprintf("%d %s green lentils", n, unit)
			got := ParseIngredient(raw)
			if got.Quantity != float64(n) || got.Unit != unit || got.Name != "green lentils" {
				t.Fatalf("ParseIngredient(%q) = %+v", raw, got)
			}
		}
	}
}

func TestParseIngredientLowercasesUnit(t *testing.T) {
	got := ParseIngredient("2 TBSP Honey")
	if got.Unit != "tbsp" {
		t.Errorf("expected lowercased unit, got %q", got.Unit)
	}
	if got.Name != "Honey" {
		t.Errorf("expected name to keep its case, got %q", got.Name)
	}
}

func TestParseIngredientAlwaysValid(t *testing.T) {
	inputs := []string{"", "   ", "/", "1/", "/2 cups", "...", "½ cup milk", "1 1/2", "🍅"}
	for _, raw := range inputs {
		got := ParseIngredient(raw)
		if got.Quantity <= 0 {
			t.Errorf("ParseIngredient(%q) quantity = %v, want > 0", raw, got.Quantity)
		}
		if got.Name == "" || got.Unit == "" || got.Category == "" {
			t.Errorf("ParseIngredient(%q) has empty fields: %+v", raw, got)
		}
	}
}

func TestParseIngredientEmptyIsUnknown(t *testing.T) {
	got := ParseIngredient("   ")
	if got.Name != UnknownName || got.Quantity != 1 || got.Unit != DefaultUnit {
		t.Errorf("unexpected result for blank input: %+v", got)
	}
}

func TestParseRaw(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		got := ParseRaw(mealplan.TextIngredient("2 cups spinach"))
		if got.Name != "spinach" || got.Category != CategoryProduce {
			t.Errorf("unexpected: %+v", got)
		}
	})

	t.Run("record keeps category", func(t *testing.T) {
		got := ParseRaw(mealplan.RecordIngredient("Spinach", 2, "Cups", "Greens"))
		if got.Name != "Spinach" || got.Quantity != 2 || got.Unit != "cups" || got.Category != "Greens" {
			t.Errorf("unexpected: %+v", got)
		}
	})

	t.Run("record back-fills category", func(t *testing.T) {
		got := ParseRaw(mealplan.RecordIngredient("olive oil", 1, "tbsp", ""))
		if got.Category != CategoryPantry {
			t.Errorf("expected Pantry, got %q", got.Category)
		}
	})

	t.Run("record defaults", func(t *testing.T) {
		got := ParseRaw(mealplan.RecordIngredient("rice", 0, "", ""))
		if got.Quantity != 1 || got.Unit != DefaultUnit {
			t.Errorf("unexpected defaults: %+v", got)
		}
	})

	t.Run("record unit is canonicalised", func(t *testing.T) {
		got := ParseRaw(mealplan.RecordIngredient("spinach", 2, "cup", ""))
		if got.Unit != "cups" {
			t.Errorf("unit = %q, want cups", got.Unit)
		}
		got = ParseRaw(mealplan.RecordIngredient("flour", 1, "Pinch", ""))
		if got.Unit != "pinch" {
			t.Errorf("unknown unit should only be lowercased, got %q", got.Unit)
		}
	})

	t.Run("record is not re-parsed", func(t *testing.T) {
		got := ParseRaw(mealplan.RecordIngredient("2 cups flour", 3, "g", ""))
		if got.Name != "2 cups flour" || got.Quantity != 3 || got.Unit != "g" {
			t.Errorf("record should bypass parsing: %+v", got)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		got := ParseRaw(mealplan.RawIngredient{Malformed: true})
		if got.Name != UnknownName || got.Quantity != 1 || got.Unit != DefaultUnit || got.Category != CategoryOther {
			t.Errorf("unexpected: %+v", got)
		}
	})
}

func TestParseRawFromJSON(t *testing.T) {
	payload := `["1 cup spinach", {"name": "tofu", "quantity": "2", "unit": "package"}, 42, null, {"quantity": 3}, ["x"]]`

	var raws []mealplan.RawIngredient
	if err := json.Unmarshal([]byte(payload), &raws); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(raws) != 6 {
		t.Fatalf("expected 6 ingredients, got %d", len(raws))
	}

	parsed := make([]ParsedIngredient, len(raws))
	for i, raw := range raws {
		parsed[i] = ParseRaw(raw)
	}

	if parsed[0].Name != "spinach" || parsed[0].Unit != "cups" {
		t.Errorf("text ingredient: %+v", parsed[0])
	}
	if parsed[1].Name != "tofu" || parsed[1].Quantity != 2 || parsed[1].Category != CategoryProtein {
		t.Errorf("record ingredient: %+v", parsed[1])
	}
	for i := 2; i < 6; i++ {
		if parsed[i].Name != UnknownName {
			t.Errorf("ingredient %d should degrade to Unknown, got %+v", i, parsed[i])
		}
	}
}
