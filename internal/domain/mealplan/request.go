// Package mealplan holds the request and result value objects the planner
// core exchanges with its caller: Request in, MultiDayMenuPlan out.
package mealplan

import (
	"github.com/go-playground/validator/v10"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrient"
)

// validate is a single shared validator instance, the same package-level
// reuse the teacher's request-binding layer relies on (struct validators
// cache their reflection metadata per type on first use).
var validate = validator.New()

// Request bundles everything optimize_multi_day / refine consume
// (spec.md §3 "Request parameters").
type Request struct {
	Days   int `validate:"min=1,max=7"`
	People int `validate:"min=1,max=6"`
	Target dish.NutrientTarget

	ExcludedDishIDs        map[int]bool
	ExcludedIngredientIDs  map[int]bool
	KeepDishIDs            map[int]bool
	PreferredIngredientIDs map[int]bool
	PreferredDishIDs       map[int]bool
	ExcludedAllergens      []dish.Allergen

	BatchCookingLevel dish.Level
	VolumeLevel       dish.Level
	VarietyLevel      dish.Level

	MealSettings map[dish.MealType]dish.MealSetting

	EnabledNutrients []nutrient.ID

	SchedulingMode dish.SchedulingMode
	HouseholdType  dish.HouseholdType

	// RandomSeed seeds the staged scheduler's PRNG. The orchestrator uses
	// it as given, zero included, and never reads time.Now() itself, so
	// tests stay deterministic end to end (spec.md §9 "Determinism");
	// cmd/planner substitutes a clock-derived seed when its -seed is 0.
	RandomSeed int64
}

// EnabledNutrientSet returns the active nutrient set as a lookup set,
// defaulting to all 24 when the request leaves EnabledNutrients empty.
func (r Request) EnabledNutrientSet() map[nutrient.ID]bool {
	if len(r.EnabledNutrients) == 0 {
		out := make(map[nutrient.ID]bool, len(nutrient.All))
		for _, n := range nutrient.All {
			out[n] = true
		}
		return out
	}
	out := make(map[nutrient.ID]bool, len(r.EnabledNutrients))
	for _, n := range r.EnabledNutrients {
		out[n] = true
	}
	return out
}

// EnabledMeals returns the meal types whose MealSetting.Enabled is true, in
// a stable serving order.
func (r Request) EnabledMeals() []dish.MealType {
	var out []dish.MealType
	for _, m := range dish.AllMealTypes {
		if s, ok := r.MealSettings[m]; ok && s.Enabled {
			out = append(out, m)
		}
	}
	return out
}

// Validate checks the request-level invariants from spec.md §3. Field-range
// checks run through go-playground/validator (the teacher's request-binding
// library); the two checks a caller is likely to special-case are also
// exposed as sentinel errors so they can be distinguished without a type
// switch on validator.ValidationErrors.
func (r Request) Validate() error {
	if r.Days < 1 || r.Days > 7 {
		return ErrInvalidDays
	}
	if r.People < 1 || r.People > 6 {
		return ErrInvalidPeople
	}
	return validate.Struct(r)
}
