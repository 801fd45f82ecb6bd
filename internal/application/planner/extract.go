package planner

import (
	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
)

// roundToInt rounds a solver's floating-point relaxation artifact back to
// the nearest integer; local-search solutions can land a hair off an
// integral value even for variables declared Binary/Integer.
func roundToInt(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

// ExtractClassicPlan reads a solved classic Problem's Solution back into
// per-day meal assignments and the cooking-task list (spec.md §4.6).
func ExtractClassicPlan(sol outbound.Solution, req mealplan.Request, dishes []dish.Dish) (map[int]map[dish.MealType][]mealplan.DishServing, []mealplan.CookingTask) {
	byID := make(map[int]dish.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID] = d
	}

	assignments := make(map[int]map[dish.MealType][]mealplan.DishServing)
	for day := 1; day <= req.Days; day++ {
		assignments[day] = make(map[dish.MealType][]mealplan.DishServing)
	}

	var tasks []mealplan.CookingTask

	for _, d := range dishes {
		for cookDay := 1; cookDay <= req.Days; cookDay++ {
			x := roundToInt(sol.Value(cookVar(d.ID, cookDay)))
			if x == 0 {
				continue
			}
			var consumeDays []int
			maxConsume := d.MaxConsumeDay(cookDay, req.Days)
			servings := roundToInt(sol.Value(servingsVar(d.ID, cookDay)))

			for consumeDay := cookDay; consumeDay <= maxConsume; consumeDay++ {
				for _, m := range dish.AllMealTypes {
					if !d.EligibleFor(m) {
						continue
					}
					q := roundToInt(sol.Value(portionVar(d.ID, cookDay, consumeDay, m)))
					if q <= 0 {
						continue
					}
					assignments[consumeDay][m] = append(assignments[consumeDay][m], mealplan.DishServing{Dish: d, Servings: q})
					consumeDays = append(consumeDays, consumeDay)
				}
			}
			if servings > 0 {
				tasks = append(tasks, mealplan.CookingTask{CookDay: cookDay, Dish: d, Servings: servings, ConsumeDays: dedupSortedInts(consumeDays)})
			}
		}
	}

	return assignments, tasks
}

func dedupSortedInts(in []int) []int {
	seen := make(map[int]bool, len(in))
	var out []int
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
