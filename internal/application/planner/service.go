// Package planner implements inbound.PlannerService: it builds and solves
// the MIP/LP models for multi-day meal planning, orchestrates the
// classic/staged/greedy strategies, and assembles the final
// MultiDayMenuPlan. It depends only on domain types and the outbound
// ports — never on a concrete repository, solver, or transport.
package planner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/classifier"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/alchemorsel/mealplanner/pkg/errors"
)

// complexityStagedThreshold is the Score above which EstimateComplexity
// recommends staged scheduling over the classic full-horizon MIP (spec.md
// §6): the classic model's variable count grows with
// |dishes| * days * storage window * meals, and past this point a CBC/HiGHS
// solve in the reference implementation routinely blew its time budget.
const complexityStagedThreshold = 5_000

// defaultSolveTimeLimit bounds a single classic-MIP attempt before the
// orchestrator gives up and falls through to staged/greedy, mirroring the
// reference solver's time_limit=30s default.
const defaultSolveTimeLimit = 30 * time.Second

// Service implements inbound.PlannerService (spec.md §6), the single
// entry point a host application calls into.
type Service struct {
	repo      outbound.DishRepository
	solver    outbound.SolverBackend
	events    outbound.EventPublisher
	logger    *zap.Logger
	observer  PhaseObserver
}

// NewService wires a Service the way the teacher's NewRecipeService wires
// RecipeService: every outbound dependency passed in, never constructed
// internally.
func NewService(repo outbound.DishRepository, solver outbound.SolverBackend, events outbound.EventPublisher, logger *zap.Logger) *Service {
	return &Service{repo: repo, solver: solver, events: events, logger: logger.Named("planner-service")}
}

var _ inbound.PlannerService = (*Service)(nil)

// WithPhaseObserver attaches a phase-boundary callback (spec.md §5), used
// by the host's tracing/metrics wiring. Returns s for chaining at
// construction time.
func (s *Service) WithPhaseObserver(observer PhaseObserver) *Service {
	s.observer = observer
	return s
}

func (s *Service) notify(phase Phase, start time.Time) {
	if s.observer == nil {
		return
	}
	s.observer(phase, time.Since(start))
}

// loadCandidates fetches and filters the catalog dishes a request is
// allowed to use.
func (s *Service) loadCandidates(ctx context.Context, req mealplan.Request) ([]dish.Dish, error) {
	var dishes []dish.Dish
	var err error
	if len(req.ExcludedAllergens) > 0 {
		dishes, err = s.repo.FindExcludingAllergens(ctx, req.ExcludedAllergens)
	} else {
		dishes, err = s.repo.FindAll(ctx, nil, nil, 0, 0)
	}
	if err != nil {
		return nil, errors.Wrap(err, "load dish catalog")
	}
	return FilterExcluded(dishes, req.ExcludedDishIDs, req.ExcludedIngredientIDs), nil
}

// OptimizeMultiDay builds a full MultiDayMenuPlan, selecting classic MIP,
// staged scheduling, or a per-day greedy fallback (spec.md §4.4), mirroring
// solve_multi_day's own fallback chain.
func (s *Service) OptimizeMultiDay(ctx context.Context, req mealplan.Request) (*mealplan.MultiDayMenuPlan, error) {
	t0 := time.Now()
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid request")
	}
	s.notify(PhaseFilteringNutrients, t0)

	tFilter := time.Now()
	dishes, err := s.loadCandidates(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(dishes) == 0 {
		return nil, errors.NewEmptyCandidatesError("no dishes remain after applying exclusions")
	}
	s.notify(PhaseFilteringDishes, tFilter)

	// scheduling_mode is honored when the caller sets one explicitly
	// (spec.md §4.4 "Given scheduling_mode, try the requested mode").
	// Left unset, EstimateComplexity's |D|*days*maxStorage*|M| score picks
	// between classic and staged (SPEC_FULL.md §6).
	wantClassic := req.SchedulingMode == dish.ModeClassic
	wantStaged := req.SchedulingMode == dish.ModeStaged
	if !wantClassic && !wantStaged {
		wantClassic = !estimateComplexity(req, dishes).PreferStaged
		wantStaged = !wantClassic
	}

	strategy := "classic"
	var assignments map[int]map[dish.MealType][]mealplan.DishServing
	var tasks []mealplan.CookingTask
	classicAttempted := false

	tBuild := time.Now()
	s.notify(PhaseBuildingModel, tBuild)
	s.notify(PhaseApplyingConstraints, tBuild)

	tSolve := time.Now()
	if wantClassic {
		classicAttempted = true
		assignments, tasks, err = s.runClassic(ctx, req, dishes)
		if err != nil {
			s.logger.Warn("classic solve failed", zap.Error(err))
			assignments = nil
		}
	}

	if assignments == nil && (wantStaged || wantClassic) {
		strategy = "staged"
		idx := classifier.BuildCategoryIndex(dishes)
		pc := classifier.NewProteinClassifier(idx)
		staged, err := RunStaged(ctx, StagedPlanInput{Request: req, Dishes: dishes, Classifier: pc, Solver: s.solver, Logger: s.logger})
		if err != nil {
			s.logger.Warn("staged solve failed", zap.Error(err))
		}
		if staged != nil {
			assignments = staged
			tasks = cookingTasksFromAssignments(req, assignments)
		}
	}

	// spec.md §4.9: a staged Phase 3 infeasibility falls back to the
	// classic full MIP before greedy — not directly to greedy — so try
	// classic here whenever staged was the attempt that just failed and
	// classic hasn't already been ruled out above.
	if assignments == nil && !classicAttempted {
		strategy = "classic"
		classicAttempted = true
		assignments, tasks, err = s.runClassic(ctx, req, dishes)
		if err != nil {
			s.logger.Warn("classic solve failed", zap.Error(err))
			assignments = nil
		}
	}

	if assignments == nil {
		strategy = "greedy"
		assignments, tasks = GreedyFallback(ctx, req, dishes, s.solver)
	}
	s.notify(PhaseSolving, tSolve)

	if assignments == nil {
		return nil, errors.NewInfeasibleError("no strategy produced a usable plan")
	}

	tFinal := time.Now()
	plan := AssemblePlan(req, assignments, tasks)
	s.publish(ctx, mealplan.NewPlanGeneratedEvent(plan.PlanID, plan.Days, strategy))
	s.notify(PhaseFinalizing, tFinal)
	return plan, nil
}

func (s *Service) runClassic(ctx context.Context, req mealplan.Request, dishes []dish.Dish) (map[int]map[dish.MealType][]mealplan.DishServing, []mealplan.CookingTask, error) {
	problem := BuildClassicProblem(req, dishes)
	solveCtx, cancel := context.WithTimeout(ctx, defaultSolveTimeLimit)
	defer cancel()

	sol, err := s.solver.Solve(solveCtx, problem, outbound.Options{TimeLimit: defaultSolveTimeLimit, GapRel: 0.05})
	if err != nil {
		return nil, nil, errors.NewSolverFailureError(err)
	}
	if !sol.Status.Usable() {
		return nil, nil, nil
	}
	assignments, tasks := ExtractClassicPlan(sol, req, dishes)
	return assignments, tasks, nil
}

// cookingTasksFromAssignments derives a cooking-task list for the staged
// strategy's output, where every dish is a same-day cook with no
// multi-day batching (the staged scheduler fixes one dish per slot rather
// than spreading a batch across a storage window).
func cookingTasksFromAssignments(req mealplan.Request, assignments map[int]map[dish.MealType][]mealplan.DishServing) []mealplan.CookingTask {
	var tasks []mealplan.CookingTask
	for day := 1; day <= req.Days; day++ {
		for _, servings := range assignments[day] {
			for _, ds := range servings {
				tasks = append(tasks, mealplan.CookingTask{CookDay: day, Dish: ds.Dish, Servings: ds.Servings, ConsumeDays: []int{day}})
			}
		}
	}
	return tasks
}

// Refine re-runs OptimizeMultiDay over the whole horizon with planReq,
// adding req.ExcludeDish (when non-zero) to the excluded dishes, mirroring
// refine_plan's pass-through to solve_multi_day. req.Plan, req.Day and
// req.Meal are not consulted, so any slot of the result may differ from
// the prior plan.
func (s *Service) Refine(ctx context.Context, req inbound.RefineRequest, planReq mealplan.Request) (*mealplan.MultiDayMenuPlan, error) {
	if req.ExcludeDish != 0 {
		if planReq.ExcludedDishIDs == nil {
			planReq.ExcludedDishIDs = map[int]bool{}
		}
		planReq.ExcludedDishIDs[req.ExcludeDish] = true
	}
	return s.OptimizeMultiDay(ctx, planReq)
}

// GetCandidateDishes lists catalog dishes matching query, for a host
// application's dish-picker UI.
func (s *Service) GetCandidateDishes(ctx context.Context, query inbound.CandidateQuery) ([]dish.Dish, error) {
	dishes, err := s.repo.FindAll(ctx, query.Category, query.Meal, query.Skip, query.Limit)
	if err != nil {
		return nil, errors.Wrap(err, "list candidate dishes")
	}
	return dishes, nil
}

// EstimateComplexity sizes a request against the catalog without solving
// anything (spec.md §6).
func (s *Service) EstimateComplexity(ctx context.Context, req mealplan.Request) (inbound.ComplexityEstimate, error) {
	dishes, err := s.loadCandidates(ctx, req)
	if err != nil {
		return inbound.ComplexityEstimate{}, err
	}
	return estimateComplexity(req, dishes), nil
}

func estimateComplexity(req mealplan.Request, dishes []dish.Dish) inbound.ComplexityEstimate {
	maxStorage := 1
	for _, d := range dishes {
		if d.StorageDays > maxStorage {
			maxStorage = d.StorageDays
		}
	}
	score := int64(len(dishes)) * int64(req.Days) * int64(maxStorage) * int64(len(req.EnabledMeals()))
	return inbound.ComplexityEstimate{
		CandidateDishCount: len(dishes),
		Score:              score,
		PreferStaged:       score > complexityStagedThreshold,
	}
}

func (s *Service) publish(ctx context.Context, event mealplan.PlanGeneratedEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish plan.generated event", zap.Error(err))
	}
}
