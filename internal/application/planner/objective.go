package planner

import (
	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrient"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
)

// addDeviationVars registers dev_pos/dev_neg continuous variables for
// every (day, nutrient) pair and adds each one's penalty term to p's
// objective, weighted by nutrient.Group (spec.md §4.1). Shared by the classic
// full-day model and the staged Phase 3 reduced model — both penalize
// deviation the same way, grounded on
// original_source/.../pulp_solver.py's per-group objective_terms loop.
func addDeviationVars(p *outbound.Problem, days int, enabled []nutrient.ID, target dish.NutrientTarget) {
	for day := 1; day <= days; day++ {
		for _, n := range enabled {
			p.AddVar(outbound.Variable{Name: devPosVar(day, n), Kind: outbound.Continuous, Lower: 0, Upper: 1e9})
			p.AddVar(outbound.Variable{Name: devNegVar(day, n), Kind: outbound.Continuous, Lower: 0, Upper: 1e9})

			weight := nutrient.Weight[n]
			normalizer := nutrient.Normalizer(target.Min[n])

			switch nutrient.GroupOf(n) {
			case nutrient.UpperTargetGroup:
				p.AddObjectiveTerm(devPosVar(day, n), weight*nutrient.UnderPenalty/normalizer)
			case nutrient.RangeGroup:
				p.AddObjectiveTerm(devNegVar(day, n), weight*nutrient.UnderPenalty/normalizer)
				p.AddObjectiveTerm(devPosVar(day, n), weight*nutrient.UnderPenalty/normalizer)
			default:
				p.AddObjectiveTerm(devNegVar(day, n), weight*nutrient.UnderPenalty/normalizer)
				if _, hasUL := nutrient.UpperLimitRatio[n]; hasUL {
					p.AddObjectiveTerm(devPosVar(day, n), weight*nutrient.UpperLimitPenalty/normalizer)
				} else {
					p.AddObjectiveTerm(devPosVar(day, n), weight*nutrient.OverPenalty/normalizer)
				}
			}
		}
	}
}

// addNutrientConstraint ties a day's total per-person intake expression
// (already expressed as coefficients over decision variables, scaled to
// per-person terms by the caller) to its deviation variables, per the
// same three-group logic as addDeviationVars.
func addNutrientConstraint(p *outbound.Problem, day int, n nutrient.ID, target dish.NutrientTarget, intake map[string]float64) {
	addNutrientConstraintWithOffset(p, day, n, target, intake, 0)
}

// addNutrientConstraintWithOffset is addNutrientConstraint plus a constant
// per-person intake already locked in (e.g. the staged scheduler's fixed
// staple/main choices), which shifts every RHS by -offset instead of
// adding a variable term.
func addNutrientConstraintWithOffset(p *outbound.Problem, day int, n nutrient.ID, target dish.NutrientTarget, intake map[string]float64, offset float64) {
	switch nutrient.GroupOf(n) {
	case nutrient.UpperTargetGroup:
		c := outbound.Constraint{Coeffs: cloneCoeffs(intake), Op: outbound.LE, RHS: target.Max[n] - offset}
		c.Coeffs[devPosVar(day, n)] = -1
		p.AddConstraint(c)

	case nutrient.RangeGroup:
		lower := outbound.Constraint{Coeffs: cloneCoeffs(intake), Op: outbound.GE, RHS: target.Min[n] - offset}
		lower.Coeffs[devNegVar(day, n)] = 1
		p.AddConstraint(lower)

		upper := outbound.Constraint{Coeffs: cloneCoeffs(intake), Op: outbound.LE, RHS: target.Max[n] - offset}
		upper.Coeffs[devPosVar(day, n)] = -1
		p.AddConstraint(upper)

	default:
		minVal := target.Min[n]
		lower := outbound.Constraint{Coeffs: cloneCoeffs(intake), Op: outbound.GE, RHS: minVal*nutrient.SaturationThreshold - offset}
		lower.Coeffs[devNegVar(day, n)] = 1
		p.AddConstraint(lower)

		if ratio, ok := nutrient.UpperLimitRatio[n]; ok {
			upper := outbound.Constraint{Coeffs: cloneCoeffs(intake), Op: outbound.LE, RHS: minVal*ratio - offset}
			upper.Coeffs[devPosVar(day, n)] = -1
			p.AddConstraint(upper)
		}
	}
}

func cloneCoeffs(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// addCategoryCountConstraints adds, for a single (day, meal), one
// LE/GE pair per category range in settings — the C5 meal-structure
// constraints, counted via Category.CountsAs so STAPLE_MAIN dishes count
// only toward the staple slot (spec.md §9).
func addCategoryCountConstraints(p *outbound.Problem, day int, meal dish.MealType, settings dish.MealSetting, varsByCategory map[dish.CategorySlot][]string) {
	slots := []dish.CategorySlot{dish.StapleSlot, dish.MainSlot, dish.SideSlot, dish.SoupSlot, dish.DessertSlot}
	for cat, rng := range settings.Categories {
		var slot dish.CategorySlot
		for _, s := range slots {
			if cat.CountsAs(s) {
				slot = s
				break
			}
		}
		if slot == "" {
			continue
		}
		vars := varsByCategory[slot]
		if len(vars) == 0 {
			// No candidate exists for this slot; the range is skipped
			// rather than handed to the solver as an unsatisfiable
			// constraint. The orchestrator reports CodeEmptyCandidates
			// only when the filtered catalog is empty as a whole.
			continue
		}
		coeffs := make(map[string]float64, len(vars))
		for _, v := range vars {
			coeffs[v] = 1
		}
		p.AddConstraint(outbound.Constraint{Coeffs: cloneCoeffs(coeffs), Op: outbound.GE, RHS: float64(rng.Min)})
		p.AddConstraint(outbound.Constraint{Coeffs: cloneCoeffs(coeffs), Op: outbound.LE, RHS: float64(rng.Max)})
	}
}
