package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
)

func TestBuildShoppingListFoldsAcrossTasksByBasicIdentity(t *testing.T) {
	basicID := 9
	chicken := dish.Ingredient{FoodID: 1, FoodName: "raw chicken thigh", BasicID: &basicID, BasicName: "chicken", AmountGrams: 150}
	chickenAgain := dish.Ingredient{FoodID: 2, FoodName: "chicken breast", BasicID: &basicID, BasicName: "chicken", AmountGrams: 100}

	tasks := []mealplan.CookingTask{
		{CookDay: 1, Servings: 2, Dish: dish.Dish{ID: 1, Name: "chicken teriyaki", Ingredients: []dish.Ingredient{chicken}}},
		{CookDay: 2, Servings: 1, Dish: dish.Dish{ID: 2, Name: "chicken soup", Ingredients: []dish.Ingredient{chickenAgain}}},
	}

	list := BuildShoppingList(tasks, nil)
	require.Len(t, list, 1)
	assert.Equal(t, "chicken", list[0].FoodName)
	// 150*2 + 100*1 = 400g
	assert.Equal(t, 400.0, list[0].TotalAmountG)
	assert.Equal(t, "g", list[0].Unit)
}

func TestBuildShoppingListCrossesKilogramThreshold(t *testing.T) {
	tasks := []mealplan.CookingTask{
		{CookDay: 1, Servings: 10, Dish: dish.Dish{ID: 1, Ingredients: []dish.Ingredient{
			{FoodID: 1, FoodName: "rice", AmountGrams: 200},
		}}},
	}
	list := BuildShoppingList(tasks, nil)
	require.Len(t, list, 1)
	assert.Equal(t, "kg", list[0].Unit)
	assert.Equal(t, "2.00", list[0].DisplayAmount)
}

func TestBuildShoppingListSortsByName(t *testing.T) {
	tasks := []mealplan.CookingTask{
		{CookDay: 1, Servings: 1, Dish: dish.Dish{ID: 1, Ingredients: []dish.Ingredient{
			{FoodID: 1, FoodName: "zucchini", AmountGrams: 50},
			{FoodID: 2, FoodName: "apple", AmountGrams: 50},
		}}},
	}
	list := BuildShoppingList(tasks, nil)
	require.Len(t, list, 2)
	assert.Equal(t, "apple", list[0].FoodName)
	assert.Equal(t, "zucchini", list[1].FoodName)
}

func TestBuildShoppingListMarksOwnedWhenPreferred(t *testing.T) {
	tasks := []mealplan.CookingTask{
		{CookDay: 1, Servings: 1, Dish: dish.Dish{ID: 1, Ingredients: []dish.Ingredient{
			{FoodID: 5, FoodName: "soy sauce", AmountGrams: 20},
		}}},
	}
	owned := BuildShoppingList(tasks, map[int]bool{5: true})
	require.Len(t, owned, 1)
	assert.True(t, owned[0].IsOwned)

	notOwned := BuildShoppingList(tasks, map[int]bool{99: true})
	require.Len(t, notOwned, 1)
	assert.False(t, notOwned[0].IsOwned)
}

func TestBuildShoppingListEmptyTasksYieldsEmptyList(t *testing.T) {
	list := BuildShoppingList(nil, nil)
	assert.Empty(t, list)
}
