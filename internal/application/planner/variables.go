package planner

import (
	"fmt"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrient"
)

// Variable-name builders shared by the classic and staged-Phase-3 model
// builders, so the solution extractors on both paths parse names the
// same way.

func cookVar(dishID, cookDay int) string {
	return fmt.Sprintf("x_%d_%d", dishID, cookDay)
}

func servingsVar(dishID, cookDay int) string {
	return fmt.Sprintf("s_%d_%d", dishID, cookDay)
}

func consumeVar(dishID, cookDay, consumeDay int, meal dish.MealType) string {
	return fmt.Sprintf("c_%d_%d_%d_%s", dishID, cookDay, consumeDay, meal)
}

func portionVar(dishID, cookDay, consumeDay int, meal dish.MealType) string {
	return fmt.Sprintf("q_%d_%d_%d_%s", dishID, cookDay, consumeDay, meal)
}

func devPosVar(day int, n nutrient.ID) string {
	return fmt.Sprintf("devpos_%d_%s", day, n)
}

func devNegVar(day int, n nutrient.ID) string {
	return fmt.Sprintf("devneg_%d_%s", day, n)
}

// sideVar names a staged Phase-3 side/soup/dessert placement variable.
func sideVar(dishID, day int, meal dish.MealType) string {
	return fmt.Sprintf("side_%d_%d_%s", dishID, day, meal)
}
