// Package inbound defines the interface a host application (an HTTP
// handler, a CLI command, a gRPC service) calls into; the application
// layer under internal/application/planner provides the implementation.
package inbound

import (
	"context"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
)

// RefineRequest carries a refine call's inputs (spec.md §6 "refine"). The
// planner.Service implementation uses only ExcludeDish; Plan, Day and Meal
// are carried for the caller's reference.
type RefineRequest struct {
	Plan        mealplan.MultiDayMenuPlan
	Day         int
	Meal        dish.MealType
	ExcludeDish int // dish id to avoid reusing in the replacement, 0 for none
}

// CandidateQuery narrows GetCandidateDishes (spec.md §6).
type CandidateQuery struct {
	Category *dish.Category
	Meal     *dish.MealType
	Skip     int
	Limit    int
}

// ComplexityEstimate reports the classic-vs-staged sizing heuristic
// (spec.md §6, SPEC_FULL.md §6): the orchestrator calls EstimateComplexity
// before committing to a strategy so a large request doesn't first burn its
// whole time budget attempting (and timing out on) the classic MIP.
type ComplexityEstimate struct {
	CandidateDishCount int
	Score              int64 // |D| * days * maxStorageDays * |enabled meals|
	PreferStaged       bool
}

// PlannerService is the core's single entry point (spec.md §6).
type PlannerService interface {
	// OptimizeMultiDay builds a full MultiDayMenuPlan for the request,
	// selecting classic MIP, staged scheduling, or a per-day greedy
	// fallback per spec.md §4.4.
	OptimizeMultiDay(ctx context.Context, req mealplan.Request) (*mealplan.MultiDayMenuPlan, error)

	// Refine re-plans the whole horizon for planReq with req.ExcludeDish
	// added to the exclusions; slots of the prior plan are not preserved.
	Refine(ctx context.Context, req RefineRequest, planReq mealplan.Request) (*mealplan.MultiDayMenuPlan, error)

	// GetCandidateDishes lists catalog dishes matching query, for a host
	// application's dish-picker UI.
	GetCandidateDishes(ctx context.Context, query CandidateQuery) ([]dish.Dish, error)

	// EstimateComplexity sizes a request against the catalog without
	// solving anything, so a caller can decide whether to force staged
	// mode or warn about a long-running classic solve.
	EstimateComplexity(ctx context.Context, req mealplan.Request) (ComplexityEstimate, error)
}
