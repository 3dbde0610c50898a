package shopping

import (
	"math"
	"strconv"
	"strings"

	"meal-planner/internal/core/mealplan"
)

// unitAliases 單位詞彙表，鍵為小寫輸入，值為標準寫法
var unitAliases = map[string]string{
	"cup":      "cups",
	"cups":     "cups",
	"tbsp":     "tbsp",
	"tsp":      "tsp",
	"oz":       "oz",
	"lb":       "lb",
	"lbs":      "lb",
	"g":        "g",
	"kg":       "kg",
	"ml":       "ml",
	"l":        "l",
	"bunch":    "bunch",
	"bunches":  "bunch",
	"clove":    "cloves",
	"cloves":   "cloves",
	"piece":    "pieces",
	"pieces":   "pieces",
	"slice":    "slices",
	"slices":   "slices",
	"can":      "cans",
	"cans":     "cans",
	"bottle":   "bottles",
	"bottles":  "bottles",
	"package":  "packages",
	"packages": "packages",
	"stalk":    "stalks",
	"stalks":   "stalks",
}

// tokens 將一行食材切分為數量、單位與名稱三段
type tokens struct {
	quantity string // 空字串表示沒有數量
	unit     string // 空字串表示沒有單位
	name     string
}

// tokenize 依序讀取前導數量、可選單位，其餘為名稱
func tokenize(raw string) tokens {
	fields := strings.Fields(raw)

	i := 0
	var qty []string
	for i < len(fields) && isQuantityToken(fields[i]) {
		qty = append(qty, fields[i])
		i++
	}
	// 數量與單位相連，例如 "200g"、"1/2cup"
	if i < len(fields) {
		if q, unit, ok := splitQuantityUnit(fields[i]); ok {
			qty = append(qty, q)
			return tokens{
				quantity: strings.Join(qty, " "),
				unit:     unit,
				name:     strings.Join(fields[i+1:], " "),
			}
		}
	}
	if len(qty) == 0 {
		return tokens{name: strings.TrimSpace(raw)}
	}

	t := tokens{quantity: strings.Join(qty, " ")}
	if i < len(fields) {
		if unit, ok := unitAliases[strings.ToLower(fields[i])]; ok {
			t.unit = unit
			i++
		}
	}
	t.name = strings.Join(fields[i:], " ")
	return t
}

// splitQuantityUnit 拆開數量後直接接單位的 token；後半必須是完整的單位詞
func splitQuantityUnit(tok string) (quantity, unit string, ok bool) {
	end := 0
	for end < len(tok) && (tok[end] >= '0' && tok[end] <= '9' || tok[end] == '.' || tok[end] == '/') {
		end++
	}
	if end == 0 || end == len(tok) || !isQuantityToken(tok[:end]) {
		return "", "", false
	}
	unit, ok = unitAliases[strings.ToLower(tok[end:])]
	if !ok {
		return "", "", false
	}
	return tok[:end], unit, true
}

// isQuantityToken 只由數字、小數點、斜線組成且至少含一個數字
func isQuantityToken(s string) bool {
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '.' || r == '/':
		default:
			return false
		}
	}
	return hasDigit
}

// parseQuantity 解析數量；含分數時把每一段相加（"1 1/2" = 1.5），
// 任何失敗或非正數都回傳 1
func parseQuantity(s string) float64 {
	var total float64
	if strings.Contains(s, "/") {
		for _, part := range strings.Fields(s) {
			v, ok := parsePart(part)
			if !ok {
				return 1
			}
			total += v
		}
	} else {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 1
		}
		total = v
	}

	if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
		return 1
	}
	return total
}

func parsePart(part string) (float64, bool) {
	if !strings.Contains(part, "/") {
		v, err := strconv.ParseFloat(part, 64)
		return v, err == nil
	}
	pieces := strings.Split(part, "/")
	if len(pieces) != 2 {
		return 0, false
	}
	num, err := strconv.ParseFloat(pieces[0], 64)
	if err != nil {
		return 0, false
	}
	den, err := strconv.ParseFloat(pieces[1], 64)
	if err != nil || den == 0 {
		return 0, false
	}
	return num / den, true
}

// ParseIngredient 將一行自由文字食材轉為 ParsedIngredient。
// 永不失敗：無法辨識的部分一律套用預設值。
func ParseIngredient(raw string) ParsedIngredient {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return unknownIngredient()
	}

	t := tokenize(trimmed)
	if t.quantity == "" || t.name == "" {
		// 沒有數量，或只有數量沒有名稱：整行視為名稱
		return ParsedIngredient{
			Name:     trimmed,
			Quantity: 1,
			Unit:     DefaultUnit,
			Category: Categorize(trimmed),
		}
	}

	unit := t.unit
	if unit == "" {
		unit = DefaultUnit
	}
	return ParsedIngredient{
		Name:     t.name,
		Quantity: parseQuantity(t.quantity),
		Unit:     unit,
		Category: Categorize(t.name),
	}
}

// ParseRaw 解析任一形式的原始食材。結構化紀錄不經文字解析，只補上缺少的分類。
func ParseRaw(raw mealplan.RawIngredient) ParsedIngredient {
	switch {
	case raw.Record != nil:
		return fromRecord(*raw.Record)
	case raw.Malformed:
		return unknownIngredient()
	default:
		return ParseIngredient(raw.Text)
	}
}

func fromRecord(rec mealplan.IngredientRecord) ParsedIngredient {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return unknownIngredient()
	}

	quantity := rec.Quantity
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity <= 0 {
		quantity = 1
	}

	unit := strings.ToLower(strings.TrimSpace(rec.Unit))
	if canonical, ok := unitAliases[unit]; ok {
		unit = canonical
	}
	if unit == "" {
		unit = DefaultUnit
	}

	category := rec.Category
	if category == "" {
		category = Categorize(name)
	}

	return ParsedIngredient{
		Name:     name,
		Quantity: quantity,
		Unit:     unit,
		Category: category,
	}
}

func unknownIngredient() ParsedIngredient {
	return ParsedIngredient{
		Name:     UnknownName,
		Quantity: 1,
		Unit:     DefaultUnit,
		Category: Categorize(UnknownName),
	}
}
