package mealplan

import (
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrient"
	"github.com/alchemorsel/mealplanner/internal/domain/shared"
)

// DishServing pairs a dish with how many servings of it were assigned to a
// meal slot.
type DishServing struct {
	Dish     dish.Dish
	Servings int
}

// MealAssignment is the ordered list of dishes served at one meal on one
// day. It carries no nutrient totals; Calculator.MealNutrients derives them.
type MealAssignment struct {
	Meal  dish.MealType
	Dishes []DishServing
}

// DailyPlan is one day's worth of meal assignments and the achievement
// computed against it (spec.md §3, §4.6, §4.7).
type DailyPlan struct {
	Day                int
	Meals              map[dish.MealType]MealAssignment
	TotalNutrients     nutrient.ValueMap // per-person
	AchievementRate    nutrient.ValueMap // per-person, percent
}

// CookingTask records a single cooking action and its downstream
// consumption (spec.md §3, §4.6).
type CookingTask struct {
	CookDay     int
	Dish        dish.Dish
	Servings    int
	ConsumeDays []int // sorted ascending, non-empty
}

// ShoppingListItem is one folded ingredient row (spec.md §4.8).
type ShoppingListItem struct {
	FoodName      string
	TotalAmountG  float64
	DisplayAmount string
	Unit          string
	IsOwned       bool
}

// NutrientWarning flags a nutrient whose achievement fell below the
// warning threshold (spec.md §4.7).
type NutrientWarning struct {
	Nutrient       nutrient.ID
	Message        string
	CurrentValue   float64
	TargetValue    float64
	DeficitPercent float64
}

// MultiDayMenuPlan is the core's sole result type (spec.md §3, §6).
type MultiDayMenuPlan struct {
	PlanID string
	Days   int
	People int

	DailyPlans []DailyPlan

	CookingTasks []CookingTask
	ShoppingList []ShoppingListItem

	// OverallNutrients is the SUM of per-person per-day nutrients across
	// days (spec.md §9 Open Question) — a cumulative figure, not an
	// average. OverallAchievement, by contrast, is computed by averaging
	// per-person daily nutrients across days and comparing that average
	// to the per-day target, because targets are stated per day.
	OverallNutrients   nutrient.ValueMap
	OverallAchievement nutrient.ValueMap
	Warnings           []NutrientWarning

	GeneratedAt time.Time
}

// PlanGeneratedEvent is published when a fresh plan completes (mirrors the
// teacher's recipe.RecipeCreatedEvent pattern). Nothing subscribes to it
// in this core — plans are ephemeral (spec.md §3 Lifecycle) — but the
// hook lets a host application observe completions without the
// orchestrator importing any host-specific transport.
type PlanGeneratedEvent struct {
	PlanID      string
	Days        int
	Strategy    string
	occurredAt  time.Time
}

func NewPlanGeneratedEvent(planID string, days int, strategy string) PlanGeneratedEvent {
	return PlanGeneratedEvent{PlanID: planID, Days: days, Strategy: strategy, occurredAt: time.Now()}
}

func (e PlanGeneratedEvent) EventName() string     { return "plan.generated" }
func (e PlanGeneratedEvent) OccurredAt() time.Time  { return e.occurredAt }

var _ shared.DomainEvent = PlanGeneratedEvent{}
