package solver

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
)

func TestSolveEmptyProblemReturnsOptimalWithNoVariables(t *testing.T) {
	h := NewHeuristic(zap.NewNop())
	sol, err := h.Solve(context.Background(), outbound.NewProblem(), outbound.Options{})
	require.NoError(t, err)
	assert.Equal(t, outbound.Optimal, sol.Status)
	assert.Empty(t, sol.Values)
}

func TestSolveCancelledContextStillReturnsAResult(t *testing.T) {
	p := outbound.NewProblem()
	p.AddVar(outbound.Variable{Name: "x", Kind: outbound.Binary, Lower: 0, Upper: 1})
	p.Objective["x"] = 1

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := NewHeuristic(zap.NewNop())
	sol, err := h.Solve(ctx, p, outbound.Options{})
	require.NoError(t, err)
	// With the context already cancelled, no restart runs and best stays
	// nil, so the backend reports Infeasible rather than blocking.
	assert.Equal(t, outbound.Infeasible, sol.Status)
}

func TestEvaluateComputesObjectiveAndNoViolationWhenSatisfied(t *testing.T) {
	h := &Heuristic{logger: zap.NewNop()}
	p := outbound.NewProblem()
	p.AddVar(outbound.Variable{Name: "x", Kind: outbound.Continuous, Lower: 0, Upper: 10})
	p.Objective["x"] = 2
	p.AddConstraint(outbound.Constraint{Coeffs: map[string]float64{"x": 1}, Op: outbound.LE, RHS: 5})

	cost, violation := h.evaluate(p, assignment{"x": 3})
	assert.Equal(t, 6.0, cost)
	assert.Equal(t, 0.0, violation)
}

func TestEvaluateAccumulatesViolationAcrossConstraintKinds(t *testing.T) {
	h := &Heuristic{logger: zap.NewNop()}
	p := outbound.NewProblem()
	p.AddConstraint(outbound.Constraint{Coeffs: map[string]float64{"x": 1}, Op: outbound.LE, RHS: 5})
	p.AddConstraint(outbound.Constraint{Coeffs: map[string]float64{"x": 1}, Op: outbound.GE, RHS: 20})
	p.AddConstraint(outbound.Constraint{Coeffs: map[string]float64{"x": 1}, Op: outbound.EQ, RHS: 0})

	_, violation := h.evaluate(p, assignment{"x": 10})
	// LE: 10 <= 5 violated by 5; GE: 10 >= 20 violated by 10; EQ: |10-0| = 10.
	assert.Equal(t, 25.0, violation)
}

func TestRandomValueRespectsVariableKindBounds(t *testing.T) {
	h := &Heuristic{logger: zap.NewNop()}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		v := h.randomValue(outbound.Variable{Kind: outbound.Binary}, rng)
		assert.Contains(t, []float64{0, 1}, v)
	}
	for i := 0; i < 200; i++ {
		v := h.randomValue(outbound.Variable{Kind: outbound.Integer, Lower: 2, Upper: 5}, rng)
		assert.GreaterOrEqual(t, v, 2.0)
		assert.LessOrEqual(t, v, 5.0)
		assert.Equal(t, v, float64(int(v)), "integer variable must land on an integral value")
	}
	for i := 0; i < 200; i++ {
		v := h.randomValue(outbound.Variable{Kind: outbound.Continuous, Lower: -1, Upper: 1}, rng)
		assert.GreaterOrEqual(t, v, -1.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestNeighborClampsWithinBoundsForEveryKind(t *testing.T) {
	h := &Heuristic{logger: zap.NewNop()}
	rng := rand.New(rand.NewSource(3))
	p := outbound.NewProblem()
	p.AddVar(outbound.Variable{Name: "bin", Kind: outbound.Binary, Lower: 0, Upper: 1})
	p.AddVar(outbound.Variable{Name: "int", Kind: outbound.Integer, Lower: 0, Upper: 1})
	p.AddVar(outbound.Variable{Name: "cont", Kind: outbound.Continuous, Lower: 0, Upper: 1})

	for i := 0; i < 100; i++ {
		next := h.neighbor(p, assignment{"bin": 0, "int": 0, "cont": 0.5}, "bin", rng)
		assert.Contains(t, []float64{0, 1}, next["bin"])

		next = h.neighbor(p, assignment{"bin": 0, "int": 1, "cont": 0.5}, "int", rng)
		assert.GreaterOrEqual(t, next["int"], 0.0)
		assert.LessOrEqual(t, next["int"], 1.0)

		next = h.neighbor(p, assignment{"bin": 0, "int": 0, "cont": 0.99}, "cont", rng)
		assert.GreaterOrEqual(t, next["cont"], 0.0)
		assert.LessOrEqual(t, next["cont"], 1.0)
	}
}

func TestCloneAssignmentIsAnIndependentCopy(t *testing.T) {
	original := assignment{"x": 1}
	clone := cloneAssignment(original)
	clone["x"] = 2
	assert.Equal(t, 1.0, original["x"])
}

func TestClampToKindRoundsAndClampsPerKind(t *testing.T) {
	assert.Equal(t, 1.0, clampToKind(outbound.Variable{Kind: outbound.Binary, Lower: 0, Upper: 1}, 0.6))
	assert.Equal(t, 0.0, clampToKind(outbound.Variable{Kind: outbound.Binary, Lower: 0, Upper: 1}, 0.4))
	assert.Equal(t, 3.0, clampToKind(outbound.Variable{Kind: outbound.Integer, Lower: 0, Upper: 5}, 2.6))
	assert.Equal(t, 5.0, clampToKind(outbound.Variable{Kind: outbound.Integer, Lower: 0, Upper: 5}, 9))
	assert.Equal(t, 0.0, clampToKind(outbound.Variable{Kind: outbound.Integer, Lower: 0, Upper: 5}, -3))
	assert.Equal(t, 2.5, clampToKind(outbound.Variable{Kind: outbound.Continuous, Lower: 0, Upper: 10}, 2.5))
}

// repairMove must resolve a single violated EQ constraint exactly when
// every other variable in it is held fixed, since it's solving that
// constraint in isolation for the one variable it picks.
func TestRepairMoveSatisfiesTheOnlyViolatedEqualityConstraint(t *testing.T) {
	h := &Heuristic{logger: zap.NewNop()}
	rng := rand.New(rand.NewSource(11))
	p := outbound.NewProblem()
	p.AddVar(outbound.Variable{Name: "s", Kind: outbound.Integer, Lower: 0, Upper: 4})
	p.AddVar(outbound.Variable{Name: "q", Kind: outbound.Integer, Lower: 0, Upper: 4})
	// "every serving cooked must be consumed": q - s == 0.
	p.AddConstraint(outbound.Constraint{Coeffs: map[string]float64{"q": 1, "s": -1}, Op: outbound.EQ, RHS: 0})

	current := assignment{"s": 3, "q": 0}
	for i := 0; i < 20; i++ {
		next := h.repairMove(p, current, rng)
		_, violation := h.evaluate(p, next)
		assert.Equal(t, 0.0, violation, "repairMove should close the single violated EQ constraint")
	}
}

func TestRepairMoveReturnsUnchangedAssignmentWhenNothingIsViolated(t *testing.T) {
	h := &Heuristic{logger: zap.NewNop()}
	rng := rand.New(rand.NewSource(5))
	p := outbound.NewProblem()
	p.AddVar(outbound.Variable{Name: "x", Kind: outbound.Binary, Lower: 0, Upper: 1})
	p.AddConstraint(outbound.Constraint{Coeffs: map[string]float64{"x": 1}, Op: outbound.LE, RHS: 1})

	current := assignment{"x": 1}
	next := h.repairMove(p, current, rng)
	assert.Equal(t, current, next)
}
