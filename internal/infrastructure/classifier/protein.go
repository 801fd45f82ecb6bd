// Package classifier implements the staged scheduler's rule-based
// lookups: which protein source a main dish is built around, which
// staple type a staple dish is, and which staples/proteins pair with
// which flavor profile. All of it is grounded on
// original_source/.../domain/services/meal_scheduler.py.
package classifier

import (
	"strings"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
)

// ProteinSource is the dominant protein-bearing ingredient category a main
// dish is built around.
type ProteinSource string

const (
	Meat   ProteinSource = "meat"
	Fish   ProteinSource = "fish"
	Egg    ProteinSource = "egg"
	Dairy  ProteinSource = "dairy"
	Legume ProteinSource = "legume"
)

// proteinCategoryLabels maps a ProteinSource to the ingredient category
// label used in the seed catalog.
var proteinCategoryLabels = map[ProteinSource]string{
	Meat:   "肉類",
	Fish:   "魚介類",
	Egg:    "卵類",
	Dairy:  "乳類",
	Legume: "豆類",
}

// RotationOrder is the fixed protein-rotation cycle staged Phase 2 walks
// through: meat, fish, egg, legume, meat, fish, dairy.
var RotationOrder = []ProteinSource{Meat, Fish, Egg, Legume, Meat, Fish, Dairy}

// IngredientCategoryIndex maps an ingredient's food id to its category
// label. It is built once at startup from the catalog and passed
// explicitly into ProteinClassifier — never held as package state — so
// that concurrent plan requests against different catalogs never collide
// (spec.md §9 "no process-wide mutable state").
type IngredientCategoryIndex struct {
	byFoodID map[int]string
}

// LoadIngredientCategories builds an IngredientCategoryIndex from
// (food id, category label) pairs, mirroring
// meal_scheduler.load_ingredient_categories.
func LoadIngredientCategories(pairs map[int]string) *IngredientCategoryIndex {
	idx := &IngredientCategoryIndex{byFoodID: make(map[int]string, len(pairs))}
	for id, cat := range pairs {
		idx.byFoodID[id] = cat
	}
	return idx
}

func (idx *IngredientCategoryIndex) categoryOf(foodID int) (string, bool) {
	if idx == nil {
		return "", false
	}
	cat, ok := idx.byFoodID[foodID]
	return cat, ok
}

// ingredientCategoryKeywords lists, in priority order, the name substrings
// that identify each protein category, mirroring
// PuLPSolver._estimate_ingredient_category.
var ingredientCategoryKeywords = []struct {
	label    string
	keywords []string
}{
	{"乳類", []string{"牛乳", "チーズ", "ヨーグルト", "バター", "クリーム", "乳"}},
	{"肉類", []string{"鶏", "豚", "牛", "肉", "ベーコン", "ハム", "ウインナー", "ソーセージ", "ひき肉", "ささみ"}},
	{"魚介類", []string{"鮭", "サバ", "さば", "鯖", "魚", "えび", "いか", "たこ", "貝", "ツナ", "しらす", "ちりめん", "あじ", "ぶり", "まぐろ", "かつお"}},
	{"卵類", []string{"卵", "たまご", "玉子"}},
	{"豆類", []string{"豆腐", "納豆", "大豆", "厚揚げ", "油揚げ", "豆", "あずき", "枝豆"}},
}

// EstimateIngredientCategory derives a protein-category label from an
// ingredient's name, for catalogs that don't carry an explicit category
// column. Returns "" when no keyword matches.
func EstimateIngredientCategory(name string) string {
	for _, entry := range ingredientCategoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(name, kw) {
				return entry.label
			}
		}
	}
	return ""
}

// BuildCategoryIndex derives an IngredientCategoryIndex from a dish
// catalog's own ingredient names via EstimateIngredientCategory, so the
// orchestrator never needs a separate ingredient-category data source.
func BuildCategoryIndex(dishes []dish.Dish) *IngredientCategoryIndex {
	pairs := make(map[int]string)
	for _, d := range dishes {
		for _, ing := range d.Ingredients {
			if _, seen := pairs[ing.FoodID]; seen {
				continue
			}
			name := ing.BasicName
			if name == "" {
				name = ing.FoodName
			}
			if cat := EstimateIngredientCategory(name); cat != "" {
				pairs[ing.FoodID] = cat
			}
		}
	}
	return LoadIngredientCategories(pairs)
}

// ProteinClassifier estimates a dish's dominant protein source from its
// ingredient list. It is a thin value wrapping an IngredientCategoryIndex;
// callers construct one per request (or reuse one across requests against
// the same catalog) and pass it explicitly to the staged scheduler.
type ProteinClassifier struct {
	categories *IngredientCategoryIndex
}

// NewProteinClassifier builds a classifier over the given index.
func NewProteinClassifier(categories *IngredientCategoryIndex) ProteinClassifier {
	return ProteinClassifier{categories: categories}
}

// Classify returns the dish's dominant protein source: the category whose
// ingredients contribute the most combined gram weight, mirroring
// get_protein_source. ok is false when no ingredient maps to a known
// protein category.
func (c ProteinClassifier) Classify(d dish.Dish) (ProteinSource, bool) {
	amounts := make(map[ProteinSource]float64, len(proteinCategoryLabels))
	for _, ing := range d.Ingredients {
		label, ok := c.categories.categoryOf(ing.FoodID)
		if !ok {
			continue
		}
		for source, catLabel := range proteinCategoryLabels {
			if label == catLabel {
				amounts[source] += ing.AmountGrams
				break
			}
		}
	}
	if len(amounts) == 0 {
		return "", false
	}
	var best ProteinSource
	var bestAmount float64
	first := true
	for source, amount := range amounts {
		if first || amount > bestAmount {
			best, bestAmount, first = source, amount, false
		}
	}
	return best, true
}

// StapleType is the carbohydrate-delivery form of a staple dish.
type StapleType string

const (
	Rice   StapleType = "rice"
	Bread  StapleType = "bread"
	Noodle StapleType = "noodle"
)

// stapleKeywords lists the name substrings that identify each StapleType,
// checked in this order (rice, bread, noodle) — the first match wins,
// mirroring STAPLE_TYPE_KEYWORDS / get_staple_type.
var stapleKeywords = []struct {
	typ      StapleType
	keywords []string
}{
	{Rice, []string{"ご飯", "ライス", "丼", "おにぎり", "チャーハン", "カレー", "ハヤシ", "オムライス", "玄米"}},
	{Bread, []string{"パン", "トースト", "オートミール"}},
	{Noodle, []string{"麺", "パスタ", "うどん", "そば", "ラーメン", "焼きそば", "ナポリタン", "ペペロンチーノ", "カルボナーラ"}},
}

// ClassifyStaple returns a staple dish's StapleType, defaulting to Rice
// when no keyword matches (mirroring get_staple_type's default).
func ClassifyStaple(d dish.Dish) StapleType {
	for _, entry := range stapleKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(d.Name, kw) {
				return entry.typ
			}
		}
	}
	return Rice
}

// FlavorCompatibility maps a StapleType to the flavor profiles that pair
// well with it (mirrors FLAVOR_COMPATIBILITY): rice pairs with Japanese or
// Chinese, bread only with Western, noodle with any of the three.
var FlavorCompatibility = map[StapleType][]dish.FlavorProfile{
	Rice:   {dish.Japanese, dish.Chinese},
	Bread:  {dish.Western},
	Noodle: {dish.Japanese, dish.Chinese, dish.Western},
}

// oneDishMealKeywords names dishes that stand alone as a full meal
// (a rice bowl, a curry, fried rice, ramen...), preferred for single-person
// households (mirrors the inline keyword list in
// _select_staple_for_meal / _select_main_with_rotation's household_type
// handling).
var oneDishMealKeywords = []string{
	"丼", "カレー", "ハヤシ", "オムライス", "チャーハン", "ラーメン", "パスタ",
}

// IsOneDishMeal reports whether the dish's name matches a one-dish-meal
// keyword, used by the staged scheduler's single-household preference.
func IsOneDishMeal(d dish.Dish) bool {
	for _, kw := range oneDishMealKeywords {
		if strings.Contains(d.Name, kw) {
			return true
		}
	}
	return false
}

// breakfastMainKeywords names dishes suited to a light breakfast main
// (egg dishes, natto, bacon...), mirroring _select_breakfast_main.
var breakfastMainKeywords = []string{
	"卵", "納豆", "ベーコン", "ウインナー", "ハム", "目玉焼き", "スクランブル", "オムレツ",
}

// IsBreakfastMain reports whether the dish's name matches a breakfast-main
// keyword.
func IsBreakfastMain(d dish.Dish) bool {
	for _, kw := range breakfastMainKeywords {
		if strings.Contains(d.Name, kw) {
			return true
		}
	}
	return false
}
