package planner

import (
	"time"

	"github.com/google/uuid"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrient"
)

// AssemblePlan turns the raw per-day/meal assignments any strategy produces
// into the core's sole result type, computing per-person totals,
// achievement, and warnings the way the teacher's entity-to-DTO mappers
// turn domain state into an outward-facing shape (spec.md §4.6, §4.7).
func AssemblePlan(req mealplan.Request, assignments map[int]map[dish.MealType][]mealplan.DishServing, tasks []mealplan.CookingTask) *mealplan.MultiDayMenuPlan {
	calc := mealplan.NewCalculator()

	dailyPlans := make([]mealplan.DailyPlan, 0, req.Days)
	overallTotal := nutrient.NewValueMap(nutrient.All)

	for day := 1; day <= req.Days; day++ {
		meals := make(map[dish.MealType]mealplan.MealAssignment)
		for _, m := range req.EnabledMeals() {
			meals[m] = mealplan.MealAssignment{Meal: m, Dishes: assignments[day][m]}
		}

		perPerson := calc.DailyNutrients(meals).Scale(1 / float64(req.People))
		achievement := calc.AchievementRate(perPerson, req.Target)

		dailyPlans = append(dailyPlans, mealplan.DailyPlan{
			Day:             day,
			Meals:           meals,
			TotalNutrients:  perPerson,
			AchievementRate: achievement,
		})

		overallTotal = overallTotal.Add(perPerson)
	}

	avgPerDay := overallTotal.Scale(1 / float64(req.Days))
	overallAchievement := calc.AchievementRate(avgPerDay, req.Target)
	warnings := calc.Warnings(avgPerDay, req.Target)

	return &mealplan.MultiDayMenuPlan{
		PlanID:             uuid.NewString(),
		Days:               req.Days,
		People:             req.People,
		DailyPlans:         dailyPlans,
		CookingTasks:       tasks,
		ShoppingList:       BuildShoppingList(tasks, req.PreferredIngredientIDs),
		OverallNutrients:   overallTotal,
		OverallAchievement: overallAchievement,
		Warnings:           warnings,
		GeneratedAt:        time.Now(),
	}
}
