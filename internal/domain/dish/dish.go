package dish

import (
	"fmt"

	"github.com/alchemorsel/mealplanner/internal/domain/nutrient"
)

// NutrientVector holds per-serving nutrient amounts keyed by nutrient id.
// A missing key is treated as zero.
type NutrientVector map[nutrient.ID]float64

// Get returns the vector's value for n, or 0 if absent.
func (v NutrientVector) Get(n nutrient.ID) float64 {
	return v[n]
}

// Scale returns a new vector with every value multiplied by factor, used
// when projecting a per-serving vector across a serving count.
func (v NutrientVector) Scale(factor float64) NutrientVector {
	out := make(NutrientVector, len(v))
	for n, val := range v {
		out[n] = val * factor
	}
	return out
}

// Add accumulates other into a copy of v.
func (v NutrientVector) Add(other NutrientVector) NutrientVector {
	out := make(NutrientVector, len(v)+len(other))
	for n, val := range v {
		out[n] = val
	}
	for n, val := range other {
		out[n] += val
	}
	return out
}

// BasicIngredientID normalizes ingredient identity for shopping-list
// aggregation (spec.md §4.8). It prefers the linked basic-ingredient id
// and falls back to the normalized name; the raw food id is not used as
// a key.
type BasicIngredientID struct {
	FoodID       int
	BasicID      *int
	NormalizedName string
}

// Key returns the map key the shopping-list generator folds amounts under.
func (b BasicIngredientID) Key() string {
	if b.BasicID != nil {
		return fmt.Sprintf("basic:%d", *b.BasicID)
	}
	return fmt.Sprintf("name:%s", b.NormalizedName)
}

// Ingredient is one line item inside a Dish.
type Ingredient struct {
	FoodID          int
	FoodName        string
	BasicID         *int
	BasicName       string
	AmountGrams     float64
	DisplayAmount   string
	Unit            string
	CookingMethod   CookingMethod
}

// Identity returns the normalized identity used for shopping aggregation.
func (i Ingredient) Identity() BasicIngredientID {
	name := i.BasicName
	if name == "" {
		name = i.FoodName
	}
	return BasicIngredientID{FoodID: i.FoodID, BasicID: i.BasicID, NormalizedName: name}
}

// Dish is an immutable value object produced by a DishRepository. Callers
// must never mutate a Dish instance (spec.md §5): treat every field as
// read-only once the repository returns it.
type Dish struct {
	ID            int
	Name          string
	Category      Category
	MealTypes     []MealType
	ServingSize   float64
	StorageDays   int
	MinServings   int
	MaxServings   int
	FlavorProfile FlavorProfile
	Nutrients     NutrientVector
	Ingredients   []Ingredient
	Allergens     []Allergen
}

// Validate checks the invariants spec.md §3 requires of every Dish.
func (d Dish) Validate() error {
	if len(d.MealTypes) == 0 {
		return fmt.Errorf("dish %d (%s): meal_types must be non-empty", d.ID, d.Name)
	}
	if d.ServingSize < 0.1 {
		return fmt.Errorf("dish %d (%s): serving_size must be >= 0.1", d.ID, d.Name)
	}
	if d.StorageDays < 0 {
		return fmt.Errorf("dish %d (%s): storage_days must be >= 0", d.ID, d.Name)
	}
	if d.MinServings < 1 {
		return fmt.Errorf("dish %d (%s): min_servings must be >= 1", d.ID, d.Name)
	}
	if d.MaxServings < d.MinServings {
		return fmt.Errorf("dish %d (%s): max_servings must be >= min_servings", d.ID, d.Name)
	}
	for n, val := range d.Nutrients {
		if val < 0 {
			return fmt.Errorf("dish %d (%s): nutrient %s is negative", d.ID, d.Name, n)
		}
	}
	return nil
}

// EligibleFor reports whether the dish may be served at the given meal.
func (d Dish) EligibleFor(m MealType) bool {
	for _, mt := range d.MealTypes {
		if mt == m {
			return true
		}
	}
	return false
}

// HasAllergen reports whether the dish carries the given allergen label.
func (d Dish) HasAllergen(a Allergen) bool {
	for _, al := range d.Allergens {
		if al == a {
			return true
		}
	}
	return false
}

// ContainsIngredientID reports whether any ingredient line references the
// given food id (used by the ingredient-exclusion filter).
func (d Dish) ContainsIngredientID(foodID int) bool {
	for _, ing := range d.Ingredients {
		if ing.FoodID == foodID {
			return true
		}
	}
	return false
}

// PreferredIngredientScore implements
// preferred_ingredient_score(d) = 0.5 * |{ing : ing.food_id in preferred}|
// from spec.md §4.2.
func (d Dish) PreferredIngredientScore(preferred map[int]bool) float64 {
	if len(preferred) == 0 {
		return 0
	}
	count := 0
	for _, ing := range d.Ingredients {
		if preferred[ing.FoodID] {
			count++
		}
	}
	return 0.5 * float64(count)
}

// MaxConsumeDay returns the last day a batch cooked on cookDay may still be
// served, clamped to the plan horizon.
func (d Dish) MaxConsumeDay(cookDay, horizonDays int) int {
	last := cookDay + d.StorageDays
	if last > horizonDays {
		return horizonDays
	}
	return last
}
