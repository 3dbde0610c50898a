package shopping

import "strings"

// 購物分類
const (
	CategoryProtein = "Protein"
	CategoryDairy   = "Dairy"
	CategoryProduce = "Produce"
	CategoryGrains  = "Grains & Bread"
	CategoryPantry  = "Pantry"
	CategoryNuts    = "Nuts & Seeds"
	CategoryOther   = "Other"
)

// categoryRule 一組 (判斷式, 分類)
type categoryRule struct {
	match    func(name string) bool
	category string
}

// keywordRule 名稱（已小寫）包含任一關鍵字即成立
func keywordRule(category string, keywords ...string) categoryRule {
	return categoryRule{
		category: category,
		match: func(name string) bool {
			for _, kw := range keywords {
				if strings.Contains(name, kw) {
					return true
				}
			}
			return false
		},
	}
}

// categoryRules 依註冊順序比對，第一個成立者勝出。
// 部分關鍵字互為子字串，順序不可任意調整。
var categoryRules = []categoryRule{
	keywordRule(CategoryProtein,
		"chicken", "beef", "pork", "turkey", "lamb", "bacon", "sausage",
		"salmon", "tuna", "shrimp", "fish", "cod", "tofu", "tempeh", "egg", "eggs",
	),
	keywordRule(CategoryDairy,
		"milk", "cheese", "yogurt", "butter", "cream", "feta", "parmesan", "mozzarella", "cheddar",
	),
	keywordRule(CategoryProduce,
		"spinach", "lettuce", "kale", "arugula", "tomato", "onion", "garlic", "bell pepper",
		"carrot", "broccoli", "cauliflower", "zucchini", "cucumber", "celery", "mushroom",
		"potato", "avocado", "lemon", "lime", "apple", "banana", "berries", "berry",
		"ginger", "cilantro", "parsley", "basil",
	),
	keywordRule(CategoryGrains,
		"bread", "rice", "pasta", "noodle", "quinoa", "oats", "oat", "flour",
		"tortilla", "couscous", "barley",
	),
	keywordRule(CategoryPantry,
		"oil", "vinegar", "salt", "pepper", "sugar", "honey", "sauce", "broth", "stock",
		"spice", "cumin", "paprika", "cinnamon", "beans", "lentils", "chickpeas",
	),
	keywordRule(CategoryNuts,
		"almond", "walnut", "cashew", "pecan", "peanut", "nut", "seed", "chia", "flax",
	),
}

// Categorize 以關鍵字判斷食材分類，無符合者回傳 "Other"。
// 純函式：相同輸入永遠得到相同結果。
func Categorize(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		if rule.match(lower) {
			return rule.category
		}
	}
	return CategoryOther
}
