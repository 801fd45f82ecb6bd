package planner

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrient"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/classifier"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
)

// minAchievementPct is the Phase 4 retry threshold (spec.md §4.3): a
// staged plan whose worst-achieved nutrient falls below this triggers one
// main-dish reroll before the result is accepted as-is.
const minAchievementPct = 85.0

// buildSideProblem assembles the Phase 3 reduced MIP: staples and mains
// are already fixed by Phase 1/2, so only side/soup/dessert placement
// remains, grounded on
// original_source/.../pulp_solver.py's _optimize_sides_staged.
func buildSideProblem(req mealplan.Request, sideDishes []dish.Dish, staples, mains scheduleGrid) *outbound.Problem {
	p := outbound.NewProblem()
	meals := req.EnabledMeals()
	enabledNutrients := enabledNutrientSlice(req)
	addDeviationVars(p, req.Days, enabledNutrients, req.Target)

	type dayMeal struct {
		day  int
		meal dish.MealType
	}
	categoryVars := make(map[dayMeal]map[dish.CategorySlot][]string)
	fixedIntake := make(map[int]map[nutrient.ID]float64)
	dayNutrientCoeffs := make(map[int]map[nutrient.ID]map[string]float64)

	for day := 1; day <= req.Days; day++ {
		fixedIntake[day] = make(map[nutrient.ID]float64)
		dayNutrientCoeffs[day] = make(map[nutrient.ID]map[string]float64)
		for _, n := range enabledNutrients {
			dayNutrientCoeffs[day][n] = make(map[string]float64)
		}
		for _, m := range meals {
			categoryVars[dayMeal{day, m}] = make(map[dish.CategorySlot][]string)
			for _, fixed := range []*dish.Dish{staples[day][m], mains[day][m]} {
				if fixed == nil {
					continue
				}
				for _, n := range enabledNutrients {
					fixedIntake[day][n] += fixed.Nutrients.Get(n)
				}
			}
		}
	}

	for _, d := range sideDishes {
		for day := 1; day <= req.Days; day++ {
			for _, m := range meals {
				if !d.EligibleFor(m) {
					continue
				}
				v := sideVar(d.ID, day, m)
				p.AddVar(outbound.Variable{Name: v, Kind: outbound.Binary, Lower: 0, Upper: 1})

				var slot dish.CategorySlot
				for _, s := range []dish.CategorySlot{dish.SideSlot, dish.SoupSlot, dish.DessertSlot} {
					if d.Category.CountsAs(s) {
						slot = s
						break
					}
				}
				categoryVars[dayMeal{day, m}][slot] = append(categoryVars[dayMeal{day, m}][slot], v)

				for _, n := range enabledNutrients {
					dayNutrientCoeffs[day][n][v] += d.Nutrients.Get(n)
				}

				score := d.PreferredIngredientScore(req.PreferredIngredientIDs)
				if req.PreferredDishIDs[d.ID] {
					score += preferredDishBonus
				}
				if score > 0 {
					p.AddObjectiveTerm(v, -score)
				}
			}
		}
	}

	for day := 1; day <= req.Days; day++ {
		for _, m := range meals {
			settings, ok := req.MealSettings[m]
			if !ok {
				settings = dish.MealSetting{Enabled: true, Categories: dish.DefaultMealCategoryConstraints(m)}
			}
			addCategoryCountConstraints(p, day, m, settings, categoryVars[dayMeal{day, m}])
		}
		for _, n := range enabledNutrients {
			addNutrientConstraintWithOffset(p, day, n, req.Target, dayNutrientCoeffs[day][n], fixedIntake[day][n])
		}
	}

	return p
}

// extractSidePlan merges the fixed staple/main grids with the Phase 3
// solution's side placements into per-day meal assignments (every item
// assumed to contribute exactly one serving per person, per the reduced
// model's simplification).
func extractSidePlan(sol outbound.Solution, req mealplan.Request, sideDishes []dish.Dish, staples, mains scheduleGrid) map[int]map[dish.MealType][]mealplan.DishServing {
	out := make(map[int]map[dish.MealType][]mealplan.DishServing, req.Days)
	for day := 1; day <= req.Days; day++ {
		out[day] = make(map[dish.MealType][]mealplan.DishServing)
		for _, m := range req.EnabledMeals() {
			var servings []mealplan.DishServing
			if s := staples[day][m]; s != nil {
				servings = append(servings, mealplan.DishServing{Dish: *s, Servings: req.People})
			}
			if mn := mains[day][m]; mn != nil {
				servings = append(servings, mealplan.DishServing{Dish: *mn, Servings: req.People})
			}
			for _, d := range sideDishes {
				if !d.EligibleFor(m) {
					continue
				}
				if roundToInt(sol.Value(sideVar(d.ID, day, m))) == 1 {
					servings = append(servings, mealplan.DishServing{Dish: d, Servings: req.People})
				}
			}
			out[day][m] = servings
		}
	}
	return out
}

// StagedPlanInput bundles everything RunStaged needs so callers don't have
// to thread a dozen positional parameters through the orchestrator.
type StagedPlanInput struct {
	Request    mealplan.Request
	Dishes     []dish.Dish
	Classifier classifier.ProteinClassifier
	Solver     outbound.SolverBackend
	Logger     *zap.Logger
}

// RunStaged executes the full staged pipeline (spec.md §4.3, Phases 0-4):
// pre-place keep_dish_ids, rule-based staples, protein-rotation mains,
// a reduced MIP for sides/soup/dessert, and a one-shot main-dish reroll
// if the worst-achieved nutrient misses minAchievementPct. It returns nil
// when the Phase 3 side-dish solve errors or reports an unusable status
// (the caller falls back to the classic/greedy path); with no side dishes
// in the catalog the staple/main grids alone always become the plan.
func RunStaged(ctx context.Context, in StagedPlanInput) (map[int]map[dish.MealType][]mealplan.DishServing, error) {
	req := in.Request
	seed := req.RandomSeed
	rng := rand.New(rand.NewSource(seed))
	meals := req.EnabledMeals()

	fixedStaples, fixedMains := PhaseZero(in.Dishes, req.KeepDishIDs, req.Days, meals)

	staples := SchedulePhase1Staples(rng, in.Dishes, req.Days, meals, req.HouseholdType, fixedStaples)
	mains := SchedulePhase2Mains(rng, in.Dishes, req.Days, meals, staples, in.Classifier, req.HouseholdType, req.ExcludedDishIDs, req.VarietyLevel, fixedMains)

	var sideDishes []dish.Dish
	for _, d := range in.Dishes {
		if d.Category == dish.SideCategory || d.Category == dish.SoupCategory || d.Category == dish.DessertCategory {
			sideDishes = append(sideDishes, d)
		}
	}

	plan, err := solveSides(ctx, in, req, sideDishes, staples, mains)
	if err != nil {
		return nil, err
	}

	calc := mealplan.NewCalculator()
	worst := worstAchievement(calc, req, plan)
	if worst >= minAchievementPct {
		return plan, nil
	}

	in.Logger.Info("staged phase 4 retry: achievement below threshold", zap.Float64("worst_pct", worst))
	usedMainIDs := map[int]bool{}
	for day := range mains {
		for _, m := range meals {
			if d := mains[day][m]; d != nil && !req.KeepDishIDs[d.ID] {
				usedMainIDs[d.ID] = true
			}
		}
	}
	excludedRetry := mergeExclusions(req.ExcludedDishIDs, usedMainIDs)
	mainsRetry := SchedulePhase2Mains(rng, in.Dishes, req.Days, meals, staples, in.Classifier, req.HouseholdType, excludedRetry, req.VarietyLevel, fixedMains)

	retryPlan, err := solveSides(ctx, in, req, sideDishes, staples, mainsRetry)
	if err != nil || retryPlan == nil {
		return plan, nil
	}
	retryWorst := worstAchievement(calc, req, retryPlan)
	if retryWorst > worst {
		return retryPlan, nil
	}
	return plan, nil
}

func solveSides(ctx context.Context, in StagedPlanInput, req mealplan.Request, sideDishes []dish.Dish, staples, mains scheduleGrid) (map[int]map[dish.MealType][]mealplan.DishServing, error) {
	if len(sideDishes) == 0 {
		return extractSidePlan(outbound.Solution{Values: map[string]float64{}}, req, sideDishes, staples, mains), nil
	}
	problem := buildSideProblem(req, sideDishes, staples, mains)
	sol, err := in.Solver.Solve(ctx, problem, outbound.Options{TimeLimit: 0, GapRel: 0})
	if err != nil {
		return nil, err
	}
	if !sol.Status.Usable() {
		return nil, nil
	}
	return extractSidePlan(sol, req, sideDishes, staples, mains), nil
}

func worstAchievement(calc mealplan.Calculator, req mealplan.Request, plan map[int]map[dish.MealType][]mealplan.DishServing) float64 {
	worst := 100.0
	for day := 1; day <= req.Days; day++ {
		meals := make(map[dish.MealType]mealplan.MealAssignment)
		for m, servings := range plan[day] {
			meals[m] = mealplan.MealAssignment{Meal: m, Dishes: servings}
		}
		// DailyNutrients totals household servings; the target is
		// per-person, so scale down before scoring achievement.
		perPerson := calc.DailyNutrients(meals).Scale(1 / float64(req.People))
		achievement := calc.AchievementRate(perPerson, req.Target)
		for _, n := range enabledNutrientSlice(req) {
			if v := achievement.Get(n); v < worst {
				worst = v
			}
		}
	}
	return worst
}

func mergeExclusions(base map[int]bool, extra map[int]bool) map[int]bool {
	out := make(map[int]bool, len(base)+len(extra))
	for k := range base {
		out[k] = true
	}
	for k := range extra {
		out[k] = true
	}
	return out
}
