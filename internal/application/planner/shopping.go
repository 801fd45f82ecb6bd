package planner

import (
	"fmt"
	"sort"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
)

type shoppingEntry struct {
	name    string
	amount  float64
	foodIDs map[int]bool
}

// BuildShoppingList folds every cooking task's ingredients by
// Ingredient.Identity(), scaling each line's per-serving amount by the
// task's total servings, then reports which folded ingredients the caller
// already has on hand via preferredIngredientIDs (spec.md §4.8). Grounded
// on pulp_solver.py's _generate_shopping_list.
func BuildShoppingList(tasks []mealplan.CookingTask, preferredIngredientIDs map[int]bool) []mealplan.ShoppingListItem {
	folded := make(map[string]*shoppingEntry)

	for _, task := range tasks {
		for _, ing := range task.Dish.Ingredients {
			key := ing.Identity().Key()
			entry, ok := folded[key]
			if !ok {
				name := ing.FoodName
				if ing.BasicName != "" {
					name = ing.BasicName
				}
				entry = &shoppingEntry{name: name, foodIDs: map[int]bool{}}
				folded[key] = entry
			}
			entry.amount += ing.AmountGrams * float64(task.Servings)
			entry.foodIDs[ing.FoodID] = true
		}
	}

	keys := make([]string, 0, len(folded))
	for k := range folded {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return folded[keys[i]].name < folded[keys[j]].name })

	items := make([]mealplan.ShoppingListItem, 0, len(keys))
	for _, k := range keys {
		e := folded[k]
		display, unit := displayUnit(e.amount)
		items = append(items, mealplan.ShoppingListItem{
			FoodName:      e.name,
			TotalAmountG:  round1Amount(e.amount),
			DisplayAmount: display,
			Unit:          unit,
			IsOwned:       anyOwned(e.foodIDs, preferredIngredientIDs),
		})
	}
	return items
}

func anyOwned(foodIDs, owned map[int]bool) bool {
	for id := range foodIDs {
		if owned[id] {
			return true
		}
	}
	return false
}

// displayUnit converts a gram amount into a coarser household unit once it
// crosses 1000g, mirroring UnitConverter.convert_to_display_unit's
// kilogram rounding without needing the original's per-ingredient unit
// table (out of scope: no per-food display-unit catalog exists in the
// retrieval pack).
func displayUnit(grams float64) (string, string) {
	if grams >= 1000 {
		return fmt.Sprintf("%.2f", grams/1000), "kg"
	}
	return fmt.Sprintf("%.0f", grams), "g"
}

func round1Amount(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
