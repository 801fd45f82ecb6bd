package mealplan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrient"
)

func validRequest() Request {
	return Request{
		Days:         1,
		People:       1,
		Target:       dish.DefaultNutrientTarget(),
		MealSettings: dish.DefaultMealSettings(),
	}
}

func TestRequestValidateDaysAndPeopleBounds(t *testing.T) {
	r := validRequest()
	assert.NoError(t, r.Validate())

	tooManyDays := r
	tooManyDays.Days = 8
	assert.ErrorIs(t, tooManyDays.Validate(), ErrInvalidDays)

	zeroDays := r
	zeroDays.Days = 0
	assert.ErrorIs(t, zeroDays.Validate(), ErrInvalidDays)

	tooManyPeople := r
	tooManyPeople.People = 7
	assert.ErrorIs(t, tooManyPeople.Validate(), ErrInvalidPeople)
}

func TestEnabledMealsRespectsSettingAndOrder(t *testing.T) {
	r := validRequest()
	settings := dish.DefaultMealSettings()
	bs := settings[dish.Breakfast]
	bs.Enabled = false
	settings[dish.Breakfast] = bs
	r.MealSettings = settings

	meals := r.EnabledMeals()
	assert.Equal(t, []dish.MealType{dish.Lunch, dish.Dinner}, meals)
}

func TestEnabledNutrientSetDefaultsToAll(t *testing.T) {
	r := validRequest()
	set := r.EnabledNutrientSet()
	assert.Len(t, set, len(nutrient.All))
	assert.True(t, set[nutrient.Sodium])
}

func TestEnabledNutrientSetHonorsExplicitSubset(t *testing.T) {
	r := validRequest()
	r.EnabledNutrients = []nutrient.ID{nutrient.Calories, nutrient.Protein}
	set := r.EnabledNutrientSet()
	assert.Len(t, set, 2)
	assert.True(t, set[nutrient.Calories])
	assert.False(t, set[nutrient.Sodium])
}
