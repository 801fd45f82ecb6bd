package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
)

func classicRiceDish() dish.Dish {
	return dish.Dish{
		ID:          1,
		Name:        "plain rice",
		Category:    dish.StapleCategory,
		MealTypes:   []dish.MealType{dish.Lunch},
		ServingSize: 1,
		StorageDays: 2,
		MinServings: 1,
		MaxServings: 4,
		Nutrients:   dish.NutrientVector{"calories": 200},
	}
}

func TestBuildClassicProblemRegistersCookAndServingsVarsPerDay(t *testing.T) {
	req := mealplan.Request{
		Days:         2,
		People:       1,
		Target:       dish.DefaultNutrientTarget(),
		MealSettings: lunchOnlyMealSettings(),
	}
	p := BuildClassicProblem(req, []dish.Dish{classicRiceDish()})

	for day := 1; day <= 2; day++ {
		x := cookVar(1, day)
		s := servingsVar(1, day)
		xv, ok := p.Variables[x]
		require.True(t, ok, "missing %s", x)
		assert.Equal(t, outbound.Binary, xv.Kind)
		sv, ok := p.Variables[s]
		require.True(t, ok, "missing %s", s)
		assert.Equal(t, outbound.Integer, sv.Kind)
		assert.Equal(t, 4.0, sv.Upper)
	}
}

func TestBuildClassicProblemConsumeWindowRespectsStorageDays(t *testing.T) {
	req := mealplan.Request{
		Days:         3,
		People:       1,
		Target:       dish.DefaultNutrientTarget(),
		MealSettings: lunchOnlyMealSettings(),
	}
	d := classicRiceDish()
	d.StorageDays = 1 // cooked on day 1, consumable on days 1-2
	p := BuildClassicProblem(req, []dish.Dish{d})

	// Consume variables for day 3 from a day-1 batch should not exist.
	_, ok := p.Variables[consumeVar(1, 1, 3, dish.Lunch)]
	assert.False(t, ok)
	_, ok = p.Variables[consumeVar(1, 1, 2, dish.Lunch)]
	assert.True(t, ok)
	_, ok = p.Variables[consumeVar(1, 1, 1, dish.Lunch)]
	assert.True(t, ok)
}

func TestBuildClassicProblemKeepDishForcesExactlyOneCookDay(t *testing.T) {
	req := mealplan.Request{
		Days:         2,
		People:       1,
		Target:       dish.DefaultNutrientTarget(),
		MealSettings: lunchOnlyMealSettings(),
		KeepDishIDs:  map[int]bool{1: true},
	}
	p := BuildClassicProblem(req, []dish.Dish{classicRiceDish()})

	var sumXConstraint *outbound.Constraint
	for i := range p.Constraints {
		c := &p.Constraints[i]
		if _, has1 := c.Coeffs[cookVar(1, 1)]; has1 {
			if _, has2 := c.Coeffs[cookVar(1, 2)]; has2 && len(c.Coeffs) == 2 {
				sumXConstraint = c
				break
			}
		}
	}
	require.NotNil(t, sumXConstraint, "expected a sum-of-x constraint across both cook days")
	assert.Equal(t, outbound.EQ, sumXConstraint.Op)
	assert.Equal(t, 1.0, sumXConstraint.RHS)
}

func TestBuildClassicProblemNonKeepDishAllowsZeroCooks(t *testing.T) {
	req := mealplan.Request{
		Days:         1,
		People:       1,
		Target:       dish.DefaultNutrientTarget(),
		MealSettings: lunchOnlyMealSettings(),
	}
	p := BuildClassicProblem(req, []dish.Dish{classicRiceDish()})

	var sumXConstraint *outbound.Constraint
	for i := range p.Constraints {
		c := &p.Constraints[i]
		if _, has1 := c.Coeffs[cookVar(1, 1)]; has1 && len(c.Coeffs) == 1 {
			sumXConstraint = c
			break
		}
	}
	require.NotNil(t, sumXConstraint)
	assert.Equal(t, outbound.LE, sumXConstraint.Op)
	assert.Equal(t, 1.0, sumXConstraint.RHS)
}

func TestBuildClassicProblemSkipsDishIneligibleForAnyEnabledMeal(t *testing.T) {
	req := mealplan.Request{
		Days:         1,
		People:       1,
		Target:       dish.DefaultNutrientTarget(),
		MealSettings: lunchOnlyMealSettings(),
	}
	d := classicRiceDish()
	d.MealTypes = []dish.MealType{dish.Breakfast} // not eligible for lunch
	p := BuildClassicProblem(req, []dish.Dish{d})

	_, ok := p.Variables[cookVar(1, 1)]
	assert.False(t, ok, "dish ineligible for every enabled meal should contribute no variables")
}

func TestBuildClassicProblemPreferredDishGetsObjectiveBonus(t *testing.T) {
	req := mealplan.Request{
		Days:            1,
		People:          1,
		Target:          dish.DefaultNutrientTarget(),
		MealSettings:    lunchOnlyMealSettings(),
		PreferredDishIDs: map[int]bool{1: true},
	}
	p := BuildClassicProblem(req, []dish.Dish{classicRiceDish()})
	assert.Equal(t, -preferredDishBonus, p.Objective[cookVar(1, 1)])
}

func TestBuildClassicProblemLargeVarietyCapsDishToOneAppearance(t *testing.T) {
	req := mealplan.Request{
		Days:         3,
		People:       1,
		Target:       dish.DefaultNutrientTarget(),
		MealSettings: lunchOnlyMealSettings(),
		VarietyLevel: dish.LevelLarge,
	}
	d := classicRiceDish()
	d.StorageDays = 2
	p := BuildClassicProblem(req, []dish.Dish{d})

	var found bool
	for _, c := range p.Constraints {
		if c.Op != outbound.LE || c.RHS != 1 {
			continue
		}
		if _, has := c.Coeffs[consumeVar(1, 1, 1, dish.Lunch)]; !has {
			continue
		}
		if _, has := c.Coeffs[consumeVar(1, 1, 3, dish.Lunch)]; has {
			found = true
			break
		}
	}
	assert.True(t, found, "expected a single constraint spanning every consume-var for the dish")
}

func TestBuildClassicProblemSmallVarietyAddsNoExtraConstraints(t *testing.T) {
	req := mealplan.Request{
		Days:         3,
		People:       1,
		Target:       dish.DefaultNutrientTarget(),
		MealSettings: lunchOnlyMealSettings(),
		VarietyLevel: dish.LevelSmall,
	}
	d := classicRiceDish()
	d.StorageDays = 2
	p := BuildClassicProblem(req, []dish.Dish{d})

	for _, c := range p.Constraints {
		_, has1 := c.Coeffs[consumeVar(1, 1, 1, dish.Lunch)]
		_, has3 := c.Coeffs[consumeVar(1, 1, 3, dish.Lunch)]
		assert.False(t, has1 && has3 && c.RHS == 1 && c.Op == outbound.LE && len(c.Coeffs) == 2,
			"small variety must not constrain repeated consumption of the same dish")
	}
}

func TestIntersectMealsReturnsOnlyEligibleSubset(t *testing.T) {
	d := classicRiceDish()
	d.MealTypes = []dish.MealType{dish.Lunch, dish.Dinner}
	got := intersectMeals(d, []dish.MealType{dish.Breakfast, dish.Lunch, dish.Dinner})
	assert.Equal(t, []dish.MealType{dish.Lunch, dish.Dinner}, got)
}
