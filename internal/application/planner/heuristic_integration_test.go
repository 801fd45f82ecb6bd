package planner

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/solver"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
)

// Every orchestration test in service_test.go substitutes a canned
// fixedSolver for outbound.SolverBackend, so none of them prove the real
// solver.Heuristic backend can actually satisfy BuildClassicProblem's hard
// equality constraints (e.g. classic.go's "every serving cooked must be
// consumed" balance per dish/cookDay). This exercises that backend
// directly against a small S1-like scenario: one staple eligible across a
// two-day storage window at a single meal.
func TestHeuristicSolvesSmallClassicProblemToFeasibility(t *testing.T) {
	req := mealplan.Request{
		Days:         2,
		People:       1,
		Target:       dish.DefaultNutrientTarget(),
		MealSettings: lunchOnlyMealSettings(),
	}
	d := classicRiceDish()
	d.StorageDays = 1

	problem := BuildClassicProblem(req, []dish.Dish{d})
	require.NotEmpty(t, problem.Variables)
	require.NotEmpty(t, problem.Constraints)

	h := solver.NewHeuristic(zap.NewNop())
	h.Restarts = 8

	sol, err := h.Solve(context.Background(), problem, outbound.Options{TimeLimit: 5 * time.Second, GapRel: 0.02})
	require.NoError(t, err)
	require.True(t, sol.Status.Usable(), "expected an Optimal or NotSolved incumbent, got %s", sol.Status)

	violation := totalViolation(problem, sol.Values)
	assert.InDelta(t, 0, violation, 1e-6, "real solver's incumbent must satisfy every hard constraint, not just minimize cost")
}

// totalViolation recomputes constraint violation directly from a
// Problem's own coefficients, independent of the solver package's
// unexported evaluate, so this test is a black-box check on the
// Solution the real backend returns.
func totalViolation(p *outbound.Problem, values map[string]float64) float64 {
	var total float64
	for _, c := range p.Constraints {
		lhs := 0.0
		for name, coeff := range c.Coeffs {
			lhs += coeff * values[name]
		}
		switch c.Op {
		case outbound.LE:
			if lhs > c.RHS {
				total += lhs - c.RHS
			}
		case outbound.GE:
			if lhs < c.RHS {
				total += c.RHS - lhs
			}
		case outbound.EQ:
			total += math.Abs(lhs - c.RHS)
		}
	}
	return total
}
