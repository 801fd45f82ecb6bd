package dish

import "github.com/alchemorsel/mealplanner/internal/domain/nutrient"

// NutrientTarget is a per-person, per-day nutrient requirement. For most
// nutrients only Min is meaningful; calories/fat/carbohydrate carry both
// Min and Max (range group); sodium carries only Max (upper-target group).
type NutrientTarget struct {
	Min map[nutrient.ID]float64
	Max map[nutrient.ID]float64
}

// TargetValue returns the single reference value reported for a nutrient
// (NutrientWarning.TargetValue, spec.md §4.7 / §9): the midpoint of
// (min,max) for range-group nutrients, Max for sodium, Min otherwise.
// Calculator.AchievementRate does not use it; it compares intake against
// Min (Max for sodium).
func (t NutrientTarget) TargetValue(n nutrient.ID) float64 {
	switch nutrient.GroupOf(n) {
	case nutrient.RangeGroup:
		return (t.Min[n] + t.Max[n]) / 2
	case nutrient.UpperTargetGroup:
		return t.Max[n]
	default:
		return t.Min[n]
	}
}

// DefaultNutrientTarget reproduces the reference implementation's defaults,
// which follow Japan's 2020 Dietary Reference Intakes (averaged over the
// 18-64 adult male/female values). Reproduced verbatim from
// original_source/backend/app/domain/entities/food.py.
func DefaultNutrientTarget() NutrientTarget {
	t := NutrientTarget{
		Min: map[nutrient.ID]float64{},
		Max: map[nutrient.ID]float64{},
	}
	t.Min[nutrient.Calories] = 1800
	t.Max[nutrient.Calories] = 2200
	t.Min[nutrient.Protein] = 58
	t.Max[nutrient.Protein] = 100
	t.Min[nutrient.Fat] = 50
	t.Max[nutrient.Fat] = 80
	t.Min[nutrient.Carbohydrate] = 250
	t.Max[nutrient.Carbohydrate] = 350
	t.Min[nutrient.Fiber] = 20
	t.Max[nutrient.Sodium] = 2500
	t.Min[nutrient.Potassium] = 2500
	t.Min[nutrient.Calcium] = 700
	t.Min[nutrient.Magnesium] = 320
	t.Min[nutrient.Iron] = 9.0
	t.Min[nutrient.Zinc] = 10
	t.Min[nutrient.VitaminA] = 775
	t.Min[nutrient.VitaminD] = 8.5
	t.Min[nutrient.VitaminE] = 6.0
	t.Min[nutrient.VitaminK] = 150
	t.Min[nutrient.VitaminB1] = 1.2
	t.Min[nutrient.VitaminB2] = 1.4
	t.Min[nutrient.VitaminB6] = 1.3
	t.Min[nutrient.VitaminB12] = 2.4
	t.Min[nutrient.Niacin] = 13.5
	t.Min[nutrient.PantothenicAcid] = 5.5
	t.Min[nutrient.Biotin] = 50
	t.Min[nutrient.Folate] = 240
	t.Min[nutrient.VitaminC] = 100
	return t
}

// CategoryRange is an inclusive (min_count, max_count) meal-template entry.
type CategoryRange struct {
	Min int
	Max int
}

// MealSetting configures one of the three meals for a single request.
type MealSetting struct {
	Enabled    bool
	Categories map[Category]CategoryRange
}

// CategoryConstraintsByVolume reproduces
// original_source/.../domain/services/constants.py
// CATEGORY_CONSTRAINTS_BY_VOLUME's small/normal/large tiers (the legacy
// aliases the source kept for backward compatibility), the three tiers
// spec.md §3 references via the volume preset.
func CategoryConstraintsByVolume(level Level) map[Category]CategoryRange {
	switch level {
	case LevelSmall:
		return map[Category]CategoryRange{
			StapleCategory:  {1, 1},
			MainCategory:    {1, 1},
			SideCategory:    {0, 0},
			SoupCategory:    {0, 0},
			DessertCategory: {0, 0},
		}
	case LevelLarge:
		return map[Category]CategoryRange{
			StapleCategory:  {1, 1},
			MainCategory:    {1, 1},
			SideCategory:    {1, 2},
			SoupCategory:    {1, 1},
			DessertCategory: {0, 1},
		}
	default: // LevelNormal
		return map[Category]CategoryRange{
			StapleCategory:  {1, 1},
			MainCategory:    {1, 1},
			SideCategory:    {1, 1},
			SoupCategory:    {0, 1},
			DessertCategory: {0, 0},
		}
	}
}

// DefaultMealCategoryConstraints reproduces
// DEFAULT_MEAL_CATEGORY_CONSTRAINTS: a per-meal preset distinct from the
// volume-based one, used when meal_settings omits an explicit categories
// table for a given meal.
func DefaultMealCategoryConstraints(m MealType) map[Category]CategoryRange {
	switch m {
	case Breakfast:
		return map[Category]CategoryRange{
			StapleCategory:  {1, 1},
			MainCategory:    {0, 1},
			SideCategory:    {0, 1},
			SoupCategory:    {0, 0},
			DessertCategory: {0, 0},
		}
	case Lunch:
		return map[Category]CategoryRange{
			StapleCategory:  {1, 1},
			MainCategory:    {1, 1},
			SideCategory:    {0, 1},
			SoupCategory:    {0, 1},
			DessertCategory: {0, 0},
		}
	default: // Dinner
		return map[Category]CategoryRange{
			StapleCategory:  {1, 1},
			MainCategory:    {1, 1},
			SideCategory:    {1, 2},
			SoupCategory:    {0, 1},
			DessertCategory: {0, 0},
		}
	}
}

// DefaultMealSettings builds the three-meal settings table used when a
// request does not override meal_settings.
func DefaultMealSettings() map[MealType]MealSetting {
	out := make(map[MealType]MealSetting, len(AllMealTypes))
	for _, m := range AllMealTypes {
		out[m] = MealSetting{Enabled: true, Categories: DefaultMealCategoryConstraints(m)}
	}
	return out
}

// MealCalorieRatio apportions a daily calorie target across meals
// (reproduced from MEAL_RATIOS), used by the per-day greedy fallback when
// scoring a single meal.
var MealCalorieRatio = map[MealType]float64{
	Breakfast: 0.25,
	Lunch:     0.35,
	Dinner:    0.40,
}
