package mealplan

import (
	"fmt"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrient"
)

// Calculator sums per-serving nutrients over dish portions and scores them
// against a target (spec.md §2 component #3, §4.7). It carries no state
// and can be shared across requests.
type Calculator struct {
	WarningThreshold float64
}

// NewCalculator builds a Calculator using the default 80% warning
// threshold (spec.md §4.7).
func NewCalculator() Calculator {
	return Calculator{WarningThreshold: 80.0}
}

// MealNutrients sums the per-serving nutrient vectors of a meal's dish
// servings, scaled by servings count.
func (c Calculator) MealNutrients(servings []DishServing) nutrient.ValueMap {
	totals := nutrient.NewValueMap(nutrient.All)
	for _, s := range servings {
		for _, n := range nutrient.All {
			totals[n] += s.Dish.Nutrients.Get(n) * float64(s.Servings)
		}
	}
	return totals
}

// DailyNutrients sums nutrients across every meal assignment in a day.
func (c Calculator) DailyNutrients(meals map[dish.MealType]MealAssignment) nutrient.ValueMap {
	totals := nutrient.NewValueMap(nutrient.All)
	for _, assignment := range meals {
		totals = totals.Add(c.MealNutrients(assignment.Dishes))
	}
	return totals
}

// AchievementRate computes the per-nutrient achievement percentage
// (spec.md §4.7): for sodium, target_max / max(intake,1) * 100 capped at
// 100; otherwise intake / min * 100 (100 when the target's min is 0,
// to avoid a meaningless divide).
func (c Calculator) AchievementRate(intake nutrient.ValueMap, target dish.NutrientTarget) nutrient.ValueMap {
	out := nutrient.NewValueMap(nutrient.All)
	for _, n := range nutrient.All {
		val := intake.Get(n)
		if n == nutrient.Sodium {
			maxVal := target.Max[n]
			if maxVal <= 0 {
				out[n] = 100
				continue
			}
			denom := val
			if denom < 1 {
				denom = 1
			}
			rate := maxVal / denom * 100
			if rate > 100 {
				rate = 100
			}
			out[n] = rate
			continue
		}
		minVal := target.Min[n]
		if minVal <= 0 {
			out[n] = 100
			continue
		}
		out[n] = val / minVal * 100
	}
	return out
}

// Warnings generates NutrientWarning entries for the "important" subset
// of nutrients whose achievement falls below threshold (spec.md §4.7).
func (c Calculator) Warnings(intake nutrient.ValueMap, target dish.NutrientTarget) []NutrientWarning {
	threshold := c.WarningThreshold
	if threshold <= 0 {
		threshold = 80.0
	}
	achievement := c.AchievementRate(intake, target)

	var warnings []NutrientWarning
	for _, n := range nutrient.ImportantForWarnings {
		rate := achievement.Get(n)
		if rate >= threshold {
			continue
		}
		targetVal := target.TargetValue(n)
		warnings = append(warnings, NutrientWarning{
			Nutrient:       n,
			Message:        fmt.Sprintf("%s is at %.0f%% of target", nutrient.DisplayName[n], rate),
			CurrentValue:   round1(intake.Get(n)),
			TargetValue:    round1(targetVal),
			DeficitPercent: round1(100 - rate),
		})
	}
	return warnings
}

func round1(v float64) float64 {
	return float64(int(v*10+sign(v)*0.5)) / 10
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
