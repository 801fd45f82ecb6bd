package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
)

func TestExtractClassicPlanReadsBatchAcrossShelfLife(t *testing.T) {
	curry := dish.Dish{
		ID:          1,
		Name:        "curry",
		Category:    dish.MainCategory,
		MealTypes:   []dish.MealType{dish.Lunch},
		ServingSize: 1,
		StorageDays: 1,
		MinServings: 1,
		MaxServings: 4,
	}

	sol := outbound.Solution{
		Status: outbound.Optimal,
		Values: map[string]float64{
			cookVar(curry.ID, 1):                    1,
			servingsVar(curry.ID, 1):                2,
			portionVar(curry.ID, 1, 1, dish.Lunch):   1,
			portionVar(curry.ID, 1, 2, dish.Lunch):   1,
		},
	}

	req := mealplan.Request{Days: 2, People: 1}
	assignments, tasks := ExtractClassicPlan(sol, req, []dish.Dish{curry})

	require.Len(t, assignments[1][dish.Lunch], 1)
	assert.Equal(t, 1, assignments[1][dish.Lunch][0].Servings)
	require.Len(t, assignments[2][dish.Lunch], 1)
	assert.Equal(t, 1, assignments[2][dish.Lunch][0].Servings)

	require.Len(t, tasks, 1)
	assert.Equal(t, 1, tasks[0].CookDay)
	assert.Equal(t, 2, tasks[0].Servings)
	assert.Equal(t, []int{1, 2}, tasks[0].ConsumeDays)
}

func TestExtractClassicPlanSkipsUncookedDishes(t *testing.T) {
	d := dish.Dish{ID: 1, Name: "rice", Category: dish.StapleCategory, MealTypes: []dish.MealType{dish.Lunch}, MaxServings: 2, MinServings: 1}
	sol := outbound.Solution{Status: outbound.Optimal, Values: map[string]float64{}}
	req := mealplan.Request{Days: 1, People: 1}

	assignments, tasks := ExtractClassicPlan(sol, req, []dish.Dish{d})
	assert.Empty(t, tasks)
	assert.Empty(t, assignments[1][dish.Lunch])
}

func TestExtractClassicPlanIgnoresIneligibleMeals(t *testing.T) {
	d := dish.Dish{ID: 1, Name: "breakfast toast", Category: dish.StapleCategory, MealTypes: []dish.MealType{dish.Breakfast}, MaxServings: 2, MinServings: 1}
	sol := outbound.Solution{
		Status: outbound.Optimal,
		Values: map[string]float64{
			cookVar(d.ID, 1):     1,
			servingsVar(d.ID, 1): 1,
			// a lunch portion variable would never be set by a correct
			// builder since the dish isn't eligible for lunch, but the
			// extractor should not read it as a match regardless.
			portionVar(d.ID, 1, 1, dish.Lunch): 1,
			portionVar(d.ID, 1, 1, dish.Breakfast): 1,
		},
	}
	req := mealplan.Request{Days: 1, People: 1}
	assignments, _ := ExtractClassicPlan(sol, req, []dish.Dish{d})

	assert.Empty(t, assignments[1][dish.Lunch])
	require.Len(t, assignments[1][dish.Breakfast], 1)
}

func TestDedupSortedInts(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, dedupSortedInts([]int{3, 1, 2, 1, 3}))
	assert.Nil(t, dedupSortedInts(nil))
}

func TestRoundToIntHandlesNegativeAndFractional(t *testing.T) {
	assert.Equal(t, 2, roundToInt(1.6))
	assert.Equal(t, 0, roundToInt(0.4))
	assert.Equal(t, -1, roundToInt(-0.6))
}
