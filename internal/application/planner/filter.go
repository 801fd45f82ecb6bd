package planner

import "github.com/alchemorsel/mealplanner/internal/domain/dish"

// FilterExcluded drops dishes the request rules out before any strategy
// ever sees them: explicit dish ids, and dishes containing a disliked
// ingredient, per excludedIngredientIDs (spec.md §2 component #10).
// Grounded on pulp_solver.py's solve_multi_day pre-filtering
// (excluded_dish_ids / _filter_dishes_by_excluded_ingredients).
func FilterExcluded(dishes []dish.Dish, excludedDishIDs map[int]bool, excludedIngredientIDs map[int]bool) []dish.Dish {
	out := make([]dish.Dish, 0, len(dishes))
	for _, d := range dishes {
		if excludedDishIDs[d.ID] {
			continue
		}
		if containsExcludedIngredient(d, excludedIngredientIDs) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func containsExcludedIngredient(d dish.Dish, excludedIngredientIDs map[int]bool) bool {
	if len(excludedIngredientIDs) == 0 {
		return false
	}
	for _, ing := range d.Ingredients {
		if excludedIngredientIDs[ing.FoodID] {
			return true
		}
	}
	return false
}
