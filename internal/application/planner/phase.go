package planner

import "time"

// Phase names the six solving-pipeline boundaries spec.md §5 allows a host
// to observe: FILTERING_NUTRIENTS, FILTERING_DISHES, BUILDING_MODEL,
// APPLYING_CONSTRAINTS, SOLVING, FINALIZING.
type Phase string

const (
	PhaseFilteringNutrients Phase = "FILTERING_NUTRIENTS"
	PhaseFilteringDishes    Phase = "FILTERING_DISHES"
	PhaseBuildingModel      Phase = "BUILDING_MODEL"
	PhaseApplyingConstraints Phase = "APPLYING_CONSTRAINTS"
	PhaseSolving            Phase = "SOLVING"
	PhaseFinalizing         Phase = "FINALIZING"
)

// PhaseObserver is invoked synchronously at each phase boundary (spec.md
// §5). It must not block for long: the planner is single-threaded per
// request and the observer runs inline on the solving goroutine. A nil
// observer is a no-op; Service.notify guards every call site so callers
// never need a null-object implementation.
type PhaseObserver func(phase Phase, elapsed time.Duration)
