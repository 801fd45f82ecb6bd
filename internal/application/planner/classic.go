package planner

import (
	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrient"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
)

// preferredDishBonus is the constant objective credit for cooking a
// request's preferred_dish_ids at least once (spec.md §4.2); preferred
// ingredients instead score continuously via Dish.PreferredIngredientScore.
const preferredDishBonus = 2.0

// dishMeal keys the per-(dish,meal) consumption bookkeeping the C6
// variety constraints need.
type dishMeal struct {
	dishID int
	meal   dish.MealType
}

// BuildClassicProblem assembles the full multi-day MIP (spec.md §4.2):
// x[dish,cookDay] chooses whether a dish is batch-cooked on a day,
// s[dish,cookDay] how many servings that batch makes, and
// c/q[dish,cookDay,consumeDay,meal] how the batch's servings are spread
// across the meals it can still cover within its storage window. Each
// dish is cooked at most once across the whole horizon — a deliberate
// simplification over the reference solver's design (see DESIGN.md) that
// keeps the variable space linear in |dishes|*days instead of quadratic,
// while still modeling batch cooking through the storage-window
// consumption variables.
func BuildClassicProblem(req mealplan.Request, dishes []dish.Dish) *outbound.Problem {
	p := outbound.NewProblem()
	meals := req.EnabledMeals()
	enabledNutrients := enabledNutrientSlice(req)

	addDeviationVars(p, req.Days, enabledNutrients, req.Target)

	// category[day][meal][slot] accumulates the occupancy expression
	// (sum over cook days of c) for every dish that can fill that slot.
	type dayMeal struct {
		day  int
		meal dish.MealType
	}
	categoryVars := make(map[dayMeal]map[dish.CategorySlot][]string)
	for day := 1; day <= req.Days; day++ {
		for _, m := range meals {
			categoryVars[dayMeal{day, m}] = make(map[dish.CategorySlot][]string)
		}
	}

	// dayNutrientCoeffs[day][nutrient] accumulates q-variable coefficients
	// (per-person nutrient contribution) for the day's constraint.
	dayNutrientCoeffs := make(map[int]map[nutrient.ID]map[string]float64)
	for day := 1; day <= req.Days; day++ {
		dayNutrientCoeffs[day] = make(map[nutrient.ID]map[string]float64)
		for _, n := range enabledNutrients {
			dayNutrientCoeffs[day][n] = make(map[string]float64)
		}
	}

	// varietyVars[dishID][meal][consumeDay] collects every c-var that
	// serves that dish at that meal on that day, across all cook days
	// whose storage window still reaches it — the bookkeeping C6 needs
	// (spec.md §4.2).
	varietyVars := make(map[dishMeal]map[int][]string)

	for _, d := range dishes {
		eligibleMeals := intersectMeals(d, meals)
		if len(eligibleMeals) == 0 {
			continue
		}

		var xVarsForDish []string
		for cookDay := 1; cookDay <= req.Days; cookDay++ {
			x := cookVar(d.ID, cookDay)
			s := servingsVar(d.ID, cookDay)
			p.AddVar(outbound.Variable{Name: x, Kind: outbound.Binary, Lower: 0, Upper: 1})
			p.AddVar(outbound.Variable{Name: s, Kind: outbound.Integer, Lower: 0, Upper: float64(d.MaxServings)})
			xVarsForDish = append(xVarsForDish, x)

			p.AddConstraint(outbound.Constraint{Coeffs: map[string]float64{s: 1, x: -float64(d.MaxServings)}, Op: outbound.LE, RHS: 0})
			p.AddConstraint(outbound.Constraint{Coeffs: map[string]float64{s: 1, x: -float64(d.MinServings)}, Op: outbound.GE, RHS: 0})

			score := d.PreferredIngredientScore(req.PreferredIngredientIDs)
			if req.PreferredDishIDs[d.ID] {
				score += preferredDishBonus
			}
			if score > 0 {
				p.AddObjectiveTerm(x, -score)
			}

			maxConsume := d.MaxConsumeDay(cookDay, req.Days)
			sumConsumeCoeffs := map[string]float64{s: -1}

			for consumeDay := cookDay; consumeDay <= maxConsume; consumeDay++ {
				for _, m := range eligibleMeals {
					c := consumeVar(d.ID, cookDay, consumeDay, m)
					q := portionVar(d.ID, cookDay, consumeDay, m)
					p.AddVar(outbound.Variable{Name: c, Kind: outbound.Binary, Lower: 0, Upper: 1})
					p.AddVar(outbound.Variable{Name: q, Kind: outbound.Integer, Lower: 0, Upper: float64(d.MaxServings)})

					p.AddConstraint(outbound.Constraint{Coeffs: map[string]float64{q: 1, c: -float64(d.MaxServings)}, Op: outbound.LE, RHS: 0})
					p.AddConstraint(outbound.Constraint{Coeffs: map[string]float64{c: 1, x: -1}, Op: outbound.LE, RHS: 0})

					sumConsumeCoeffs[q] = 1

					dm := dayMeal{consumeDay, m}
					var slot dish.CategorySlot
					for _, s2 := range []dish.CategorySlot{dish.StapleSlot, dish.MainSlot, dish.SideSlot, dish.SoupSlot, dish.DessertSlot} {
						if d.Category.CountsAs(s2) {
							slot = s2
							break
						}
					}
					categoryVars[dm][slot] = append(categoryVars[dm][slot], c)

					key := dishMeal{d.ID, m}
					if varietyVars[key] == nil {
						varietyVars[key] = make(map[int][]string)
					}
					varietyVars[key][consumeDay] = append(varietyVars[key][consumeDay], c)

					for _, n := range enabledNutrients {
						dayNutrientCoeffs[consumeDay][n][q] += d.Nutrients.Get(n) / float64(req.People)
					}
				}
			}
			// every serving cooked must eventually be consumed
			p.AddConstraint(outbound.Constraint{Coeffs: cloneCoeffs(sumConsumeCoeffs), Op: outbound.EQ, RHS: 0})
		}

		sumX := make(map[string]float64, len(xVarsForDish))
		for _, x := range xVarsForDish {
			sumX[x] = 1
		}
		if req.KeepDishIDs[d.ID] {
			p.AddConstraint(outbound.Constraint{Coeffs: cloneCoeffs(sumX), Op: outbound.EQ, RHS: 1})
		} else {
			p.AddConstraint(outbound.Constraint{Coeffs: cloneCoeffs(sumX), Op: outbound.LE, RHS: 1})
		}
	}

	settingsByMeal := req.MealSettings

	for day := 1; day <= req.Days; day++ {
		for _, m := range meals {
			settings, ok := settingsByMeal[m]
			if !ok {
				settings = dish.MealSetting{Enabled: true, Categories: dish.DefaultMealCategoryConstraints(m)}
			}
			addCategoryCountConstraints(p, day, m, settings, categoryVars[dayMeal{day, m}])
		}
		for _, n := range enabledNutrients {
			addNutrientConstraint(p, day, n, req.Target, dayNutrientCoeffs[day][n])
		}
	}

	addVarietyConstraints(p, req.VarietyLevel, req.Days, varietyVars)

	return p
}

// addVarietyConstraints applies C6 (spec.md §4.2): "small" adds nothing;
// "normal" caps each dish to at most one appearance at a given meal
// across any adjacent day pair; "large" caps each dish to at most one
// appearance anywhere in the whole plan.
func addVarietyConstraints(p *outbound.Problem, variety dish.Level, days int, varietyVars map[dishMeal]map[int][]string) {
	switch variety {
	case dish.LevelLarge:
		byDish := map[int]map[string]float64{}
		for key, byDay := range varietyVars {
			coeffs, ok := byDish[key.dishID]
			if !ok {
				coeffs = map[string]float64{}
				byDish[key.dishID] = coeffs
			}
			for _, vars := range byDay {
				for _, v := range vars {
					coeffs[v] = 1
				}
			}
		}
		for _, coeffs := range byDish {
			if len(coeffs) > 0 {
				p.AddConstraint(outbound.Constraint{Coeffs: coeffs, Op: outbound.LE, RHS: 1})
			}
		}
	case dish.LevelNormal:
		for _, byDay := range varietyVars {
			for day := 1; day < days; day++ {
				coeffs := map[string]float64{}
				for _, v := range byDay[day] {
					coeffs[v] = 1
				}
				for _, v := range byDay[day+1] {
					coeffs[v] = 1
				}
				if len(coeffs) > 0 {
					p.AddConstraint(outbound.Constraint{Coeffs: coeffs, Op: outbound.LE, RHS: 1})
				}
			}
		}
	}
}

func enabledNutrientSlice(req mealplan.Request) []nutrient.ID {
	set := req.EnabledNutrientSet()
	out := make([]nutrient.ID, 0, len(set))
	for _, n := range nutrient.All {
		if set[n] {
			out = append(out, n)
		}
	}
	return out
}

func intersectMeals(d dish.Dish, enabled []dish.MealType) []dish.MealType {
	var out []dish.MealType
	for _, m := range enabled {
		if d.EligibleFor(m) {
			out = append(out, m)
		}
	}
	return out
}
