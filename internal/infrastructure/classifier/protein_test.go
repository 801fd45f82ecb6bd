package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
)

func TestEstimateIngredientCategoryMatchesFirstKeyword(t *testing.T) {
	assert.Equal(t, "肉類", EstimateIngredientCategory("鶏もも肉"))
	assert.Equal(t, "魚介類", EstimateIngredientCategory("鮭の切り身"))
	assert.Equal(t, "卵類", EstimateIngredientCategory("卵"))
	assert.Equal(t, "乳類", EstimateIngredientCategory("牛乳"))
	assert.Equal(t, "豆類", EstimateIngredientCategory("豆腐"))
	assert.Equal(t, "", EstimateIngredientCategory("にんじん"))
}

func TestBuildCategoryIndexDerivesFromDishIngredients(t *testing.T) {
	dishes := []dish.Dish{{
		ID: 1,
		Ingredients: []dish.Ingredient{
			{FoodID: 1, FoodName: "鶏もも肉"},
			{FoodID: 2, FoodName: "にんじん"}, // no category match
		},
	}}
	idx := BuildCategoryIndex(dishes)
	cat, ok := idx.categoryOf(1)
	assert.True(t, ok)
	assert.Equal(t, "肉類", cat)

	_, ok = idx.categoryOf(2)
	assert.False(t, ok)
}

func TestProteinClassifierPicksDominantGramWeight(t *testing.T) {
	idx := LoadIngredientCategories(map[int]string{
		1: "肉類",
		2: "魚介類",
	})
	classifier := NewProteinClassifier(idx)

	d := dish.Dish{Ingredients: []dish.Ingredient{
		{FoodID: 1, AmountGrams: 50},
		{FoodID: 2, AmountGrams: 150},
	}}
	source, ok := classifier.Classify(d)
	assert.True(t, ok)
	assert.Equal(t, Fish, source)
}

func TestProteinClassifierNoMatchReturnsFalse(t *testing.T) {
	idx := LoadIngredientCategories(nil)
	classifier := NewProteinClassifier(idx)
	d := dish.Dish{Ingredients: []dish.Ingredient{{FoodID: 99, AmountGrams: 10}}}
	_, ok := classifier.Classify(d)
	assert.False(t, ok)
}

func TestClassifyStapleDefaultsToRice(t *testing.T) {
	assert.Equal(t, Rice, ClassifyStaple(dish.Dish{Name: "白ご飯"}))
	assert.Equal(t, Bread, ClassifyStaple(dish.Dish{Name: "トースト"}))
	assert.Equal(t, Noodle, ClassifyStaple(dish.Dish{Name: "醤油ラーメン"}))
	assert.Equal(t, Rice, ClassifyStaple(dish.Dish{Name: "謎の主食"}))
}

func TestFlavorCompatibilityTable(t *testing.T) {
	assert.ElementsMatch(t, []dish.FlavorProfile{dish.Japanese, dish.Chinese}, FlavorCompatibility[Rice])
	assert.ElementsMatch(t, []dish.FlavorProfile{dish.Western}, FlavorCompatibility[Bread])
	assert.Len(t, FlavorCompatibility[Noodle], 3)
}

func TestIsOneDishMealAndIsBreakfastMain(t *testing.T) {
	assert.True(t, IsOneDishMeal(dish.Dish{Name: "親子丼"}))
	assert.False(t, IsOneDishMeal(dish.Dish{Name: "焼き魚定食"}))

	assert.True(t, IsBreakfastMain(dish.Dish{Name: "目玉焼き"}))
	assert.False(t, IsBreakfastMain(dish.Dish{Name: "ステーキ"}))
}
