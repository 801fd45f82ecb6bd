package planner

import (
	"context"
	"fmt"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrient"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
)

// buildMealProblem assembles a single (day, meal) MIP: pick which
// available dishes to serve and how many servings each gets, penalizing
// deviation from that meal's share of the daily target (MEAL_RATIOS).
// Grounded on pulp_solver.py's optimize_meal, the building block the
// reference solver falls back to one meal at a time when the full
// multi-day MIP can't be solved.
func buildMealProblem(meal dish.MealType, target dish.NutrientTarget, available []dish.Dish, settings dish.MealSetting, enabled []nutrientAndRatio) *outbound.Problem {
	p := outbound.NewProblem()
	ratio := dish.MealCalorieRatio[meal]

	byCategory := make(map[dish.Category][]string)
	for _, d := range available {
		y := fmt.Sprintf("meal_y_%d", d.ID)
		s := fmt.Sprintf("meal_s_%d", d.ID)
		p.AddVar(outbound.Variable{Name: y, Kind: outbound.Binary, Lower: 0, Upper: 1})
		maxServ := 2.0
		minServ := 0.5
		p.AddVar(outbound.Variable{Name: s, Kind: outbound.Continuous, Lower: 0, Upper: maxServ})
		p.AddConstraint(outbound.Constraint{Coeffs: map[string]float64{s: 1, y: -maxServ}, Op: outbound.LE, RHS: 0})
		p.AddConstraint(outbound.Constraint{Coeffs: map[string]float64{s: 1, y: -minServ}, Op: outbound.GE, RHS: 0})
		byCategory[d.Category] = append(byCategory[d.Category], y)
	}

	for _, nr := range enabled {
		devPos := fmt.Sprintf("meal_devpos_%s", nr.id)
		devNeg := fmt.Sprintf("meal_devneg_%s", nr.id)
		p.AddVar(outbound.Variable{Name: devPos, Kind: outbound.Continuous, Lower: 0, Upper: 1e9})
		p.AddVar(outbound.Variable{Name: devNeg, Kind: outbound.Continuous, Lower: 0, Upper: 1e9})
		p.AddObjectiveTerm(devPos, nr.weight)
		p.AddObjectiveTerm(devNeg, nr.weight*10)

		coeffs := map[string]float64{devPos: -1, devNeg: 1}
		for _, d := range available {
			s := fmt.Sprintf("meal_s_%d", d.ID)
			coeffs[s] = d.Nutrients.Get(nutrient.ID(nr.id))
		}
		mealTarget := nr.perPersonTarget * ratio
		p.AddConstraint(outbound.Constraint{Coeffs: cloneCoeffs(coeffs), Op: outbound.EQ, RHS: mealTarget})
	}

	calorieCoeffs := map[string]float64{}
	for _, d := range available {
		calorieCoeffs[fmt.Sprintf("meal_s_%d", d.ID)] = d.Nutrients.Get("calories")
	}
	if len(calorieCoeffs) > 0 {
		p.AddConstraint(outbound.Constraint{Coeffs: cloneCoeffs(calorieCoeffs), Op: outbound.GE, RHS: target.Min["calories"] * ratio * 0.8})
		p.AddConstraint(outbound.Constraint{Coeffs: cloneCoeffs(calorieCoeffs), Op: outbound.LE, RHS: target.Max["calories"] * ratio * 1.2})
	}

	for cat, rng := range settings.Categories {
		vars, ok := byCategory[cat]
		if !ok || len(vars) == 0 {
			continue
		}
		coeffs := make(map[string]float64, len(vars))
		for _, v := range vars {
			coeffs[v] = 1
		}
		p.AddConstraint(outbound.Constraint{Coeffs: cloneCoeffs(coeffs), Op: outbound.GE, RHS: float64(rng.Min)})
		p.AddConstraint(outbound.Constraint{Coeffs: cloneCoeffs(coeffs), Op: outbound.LE, RHS: float64(rng.Max)})
	}

	return p
}

type nutrientAndRatio struct {
	id              string
	weight          float64
	perPersonTarget float64
}

// GreedyFallback solves the plan one day, one meal at a time (spec.md
// §4.5): a dish used on an earlier day or meal is not offered again, so
// each meal competes for what's left; a meal with no solution from what's
// left is retried once with every eligible, non-excluded dish, used ones
// included. Used when the classic
// multi-day MIP and the staged scheduler both fail to produce a usable
// solution. Grounded on pulp_solver.py's _fallback_multi_day.
func GreedyFallback(ctx context.Context, req mealplan.Request, dishes []dish.Dish, solver outbound.SolverBackend) (map[int]map[dish.MealType][]mealplan.DishServing, []mealplan.CookingTask) {
	used := map[int]bool{}
	for id := range req.ExcludedDishIDs {
		used[id] = true
	}

	assignments := make(map[int]map[dish.MealType][]mealplan.DishServing, req.Days)
	var tasks []mealplan.CookingTask

	for day := 1; day <= req.Days; day++ {
		assignments[day] = make(map[dish.MealType][]mealplan.DishServing)
		for _, m := range req.EnabledMeals() {
			settings, ok := req.MealSettings[m]
			if !ok {
				settings = dish.MealSetting{Enabled: true, Categories: dish.DefaultMealCategoryConstraints(m)}
			}

			var available []dish.Dish
			for _, d := range dishes {
				if !used[d.ID] && d.EligibleFor(m) {
					available = append(available, d)
				}
			}

			servings, newlyUsed, ok := solveGreedyMeal(ctx, solver, m, req, available, settings)
			if !ok {
				// spec.md §4.9: retry this meal only, without the
				// already-used-dish exclusion (request exclusions still
				// apply), before giving up on it.
				var allEligible []dish.Dish
				for _, d := range dishes {
					if d.EligibleFor(m) && !req.ExcludedDishIDs[d.ID] {
						allEligible = append(allEligible, d)
					}
				}
				servings, newlyUsed, ok = solveGreedyMeal(ctx, solver, m, req, allEligible, settings)
				if !ok {
					continue
				}
			}

			for id := range newlyUsed {
				used[id] = true
			}
			for _, ds := range servings {
				tasks = append(tasks, mealplan.CookingTask{CookDay: day, Dish: ds.Dish, Servings: ds.Servings, ConsumeDays: []int{day}})
			}
			assignments[day][m] = servings
		}
	}

	return assignments, tasks
}

// solveGreedyMeal solves a single (day, meal) MIP over the given candidate
// set and returns the servings it picked plus the dish ids it consumed, or
// ok=false if the candidate set is empty or the solve didn't produce a
// usable incumbent.
func solveGreedyMeal(ctx context.Context, solver outbound.SolverBackend, m dish.MealType, req mealplan.Request, available []dish.Dish, settings dish.MealSetting) ([]mealplan.DishServing, map[int]bool, bool) {
	if len(available) == 0 {
		return nil, nil, false
	}
	problem := buildMealProblem(m, req.Target, available, settings, greedyNutrientTargets(req))
	sol, err := solver.Solve(ctx, problem, outbound.Options{})
	if err != nil || !sol.Status.Usable() {
		return nil, nil, false
	}

	var servings []mealplan.DishServing
	newlyUsed := map[int]bool{}
	for _, d := range available {
		y := roundToInt(sol.Value(fmt.Sprintf("meal_y_%d", d.ID)))
		if y == 0 {
			continue
		}
		servings = append(servings, mealplan.DishServing{Dish: d, Servings: req.People})
		newlyUsed[d.ID] = true
	}
	return servings, newlyUsed, true
}

func greedyNutrientTargets(req mealplan.Request) []nutrientAndRatio {
	var out []nutrientAndRatio
	for n := range req.EnabledNutrientSet() {
		if n == "calories" {
			continue
		}
		out = append(out, nutrientAndRatio{id: string(n), weight: 1.0, perPersonTarget: req.Target.Min[n]})
	}
	return out
}
