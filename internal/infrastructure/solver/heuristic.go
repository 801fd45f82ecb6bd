// Package solver implements outbound.SolverBackend with an anytime local
// search: no pure-Go MIP/LP backend (CBC, HiGHS, GLPK, OR-Tools) appears
// anywhere in the example corpus this module was grounded on, so rather
// than fabricate a binding to one, the solve itself is a from-scratch
// simulated-annealing-style neighborhood search over the problem's
// binary/integer/continuous variables, mixing single-variable neighbor
// moves with min-conflicts-style repairMove moves that target a violated
// constraint directly. gonum supplies the vector and running-statistics
// bookkeeping around that search, and golang.org/x/time rate-limits how
// often the anneal loop logs a progress tick during a long solve (see
// DESIGN.md).
package solver

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
)

// progressLogInterval bounds how often Solve emits a progress Debug log
// during a long anneal: iteration counts alone scale with problem size,
// so the limiter throttles by wall clock instead, keeping log volume flat
// whether the problem has ten variables or ten thousand.
const progressLogInterval = 250 * time.Millisecond

// bigM penalizes a unit of constraint violation heavily enough that any
// feasible neighbor is always preferred to an infeasible one at a
// comparable objective value.
const bigM = 1_000_000.0

// repairMoveProb is how often the anneal loop reaches for repairMove
// instead of neighbor. The classic model's hard EQ constraints (e.g. a
// dish's "servings cooked == servings consumed" balance) couple many
// variables together, so a single-variable neighbor move almost never
// fixes a violation it lands in; repairMove targets a violated
// constraint directly, the way a min-conflicts local search would.
const repairMoveProb = 0.3

// Heuristic is an anytime local-search SolverBackend. It holds no mutable
// state between Solve calls; a single instance is safe to reuse
// concurrently across requests.
type Heuristic struct {
	logger *zap.Logger
	// Restarts bounds how many independent random-restart search chains
	// run within the time budget; more restarts trade iteration depth for
	// a better chance of escaping a bad starting neighborhood.
	Restarts int
}

// NewHeuristic builds a Heuristic backend.
func NewHeuristic(logger *zap.Logger) *Heuristic {
	return &Heuristic{logger: logger.Named("solver-heuristic"), Restarts: 4}
}

var _ outbound.SolverBackend = (*Heuristic)(nil)

type assignment map[string]float64

// Solve anneals toward a low-penalty assignment within opts.TimeLimit,
// honoring ctx cancellation. It always returns a Solution — the caller
// interprets Status to decide whether to use it.
func (h *Heuristic) Solve(ctx context.Context, problem *outbound.Problem, opts outbound.Options) (outbound.Solution, error) {
	if len(problem.Variables) == 0 {
		return outbound.Solution{Status: outbound.Optimal, Values: assignment{}}, nil
	}

	deadline := time.Now().Add(opts.TimeLimit)
	if opts.TimeLimit <= 0 {
		deadline = time.Now().Add(10 * time.Second)
	}

	names := make([]string, 0, len(problem.Variables))
	for name := range problem.Variables {
		names = append(names, name)
	}

	rng := rand.New(rand.NewSource(1))
	progressLimiter := rate.NewLimiter(rate.Every(progressLogInterval), 1)

	var best assignment
	bestCost := math.Inf(1)
	var bestViolation float64
	costHistory := make([]float64, 0, 4096)

	restarts := h.Restarts
	if restarts < 1 {
		restarts = 1
	}

	for r := 0; r < restarts; r++ {
		if ctxDone(ctx) || time.Now().After(deadline) {
			break
		}
		current := h.randomStart(problem, rng)
		currentCost, currentViol := h.evaluate(problem, current)

		temp := 1.0
		const coolingRate = 0.995
		for iter := 0; ; iter++ {
			if iter%256 == 0 {
				if ctxDone(ctx) || time.Now().After(deadline) {
					break
				}
				if progressLimiter.Allow() {
					h.logger.Debug("heuristic solve in progress",
						zap.Int("restart", r),
						zap.Int("iteration", iter),
						zap.Float64("current_cost", currentCost),
						zap.Float64("current_violation", currentViol),
						zap.Float64("best_cost", bestCost),
					)
				}
			}
			var candidate assignment
			if currentViol > 0 && rng.Float64() < repairMoveProb {
				candidate = h.repairMove(problem, current, rng)
			} else {
				name := names[rng.Intn(len(names))]
				candidate = h.neighbor(problem, current, name, rng)
			}
			candCost, candViol := h.evaluate(problem, candidate)

			accept := candCost+bigM*candViol <= currentCost+bigM*currentViol
			if !accept {
				delta := (candCost + bigM*candViol) - (currentCost + bigM*currentViol)
				if rng.Float64() < math.Exp(-delta/math.Max(temp, 1e-9)) {
					accept = true
				}
			}
			if accept {
				current, currentCost, currentViol = candidate, candCost, candViol
			}
			costHistory = append(costHistory, currentCost+bigM*currentViol)
			temp *= coolingRate

			if currentViol == 0 && (best == nil || currentCost < bestCost) {
				best, bestCost, bestViolation = cloneAssignment(current), currentCost, currentViol
			}

			if opts.GapRel > 0 && best != nil && len(costHistory) > 512 {
				window := costHistory[len(costHistory)-512:]
				mean, sd := stat.MeanStdDev(window, nil)
				if sd/math.Max(math.Abs(mean), 1) < opts.GapRel {
					break
				}
			}
		}
	}

	if best == nil {
		return outbound.Solution{Status: outbound.Infeasible}, nil
	}

	status := outbound.Optimal
	if time.Now().After(deadline) {
		status = outbound.NotSolved
	}
	h.logger.Debug("heuristic solve finished",
		zap.String("status", status.String()),
		zap.Float64("objective", bestCost),
		zap.Float64("violation", bestViolation),
		zap.Int("history_len", len(costHistory)),
	)
	return outbound.Solution{Status: status, Values: best, Objective: bestCost}, nil
}

func ctxDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func cloneAssignment(a assignment) assignment {
	out := make(assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// randomStart seeds every variable at a random point in its domain.
func (h *Heuristic) randomStart(p *outbound.Problem, rng *rand.Rand) assignment {
	out := make(assignment, len(p.Variables))
	for name, v := range p.Variables {
		out[name] = h.randomValue(v, rng)
	}
	return out
}

func (h *Heuristic) randomValue(v outbound.Variable, rng *rand.Rand) float64 {
	switch v.Kind {
	case outbound.Binary:
		if rng.Float64() < 0.5 {
			return 0
		}
		return 1
	case outbound.Integer:
		lo, hi := int(v.Lower), int(v.Upper)
		if hi < lo {
			return v.Lower
		}
		return float64(lo + rng.Intn(hi-lo+1))
	default:
		return v.Lower + rng.Float64()*(v.Upper-v.Lower)
	}
}

// neighbor perturbs a single variable, keeping every other value fixed.
func (h *Heuristic) neighbor(p *outbound.Problem, current assignment, name string, rng *rand.Rand) assignment {
	out := cloneAssignment(current)
	v := p.Variables[name]
	switch v.Kind {
	case outbound.Binary:
		out[name] = 1 - out[name]
	case outbound.Integer:
		step := float64(1 - 2*rng.Intn(2))
		next := out[name] + step
		if next < v.Lower {
			next = v.Lower
		}
		if next > v.Upper {
			next = v.Upper
		}
		out[name] = next
	default:
		span := v.Upper - v.Lower
		if span <= 0 {
			span = 1
		}
		next := out[name] + (rng.Float64()-0.5)*span*0.2
		if next < v.Lower {
			next = v.Lower
		}
		if next > v.Upper {
			next = v.Upper
		}
		out[name] = next
	}
	return out
}

// repairMove picks a violated constraint at random, then a random nonzero
// coefficient within it, and resolves that one variable to the value
// which would satisfy the constraint in isolation (every other variable
// held fixed) — a min-conflicts move. This targets the specific way
// violations arise in the classic model, where a hard EQ constraint ties
// together a dish's cook-day servings and every consume-day portion that
// draws from that batch: flipping one random variable (neighbor) rarely
// lands on the value balancing such a constraint, while repairMove solves
// for it directly.
func (h *Heuristic) repairMove(p *outbound.Problem, current assignment, rng *rand.Rand) assignment {
	violated := make([]*outbound.Constraint, 0, len(p.Constraints))
	for i := range p.Constraints {
		c := &p.Constraints[i]
		lhs := 0.0
		for name, coeff := range c.Coeffs {
			lhs += coeff * current[name]
		}
		switch c.Op {
		case outbound.LE:
			if lhs > c.RHS {
				violated = append(violated, c)
			}
		case outbound.GE:
			if lhs < c.RHS {
				violated = append(violated, c)
			}
		case outbound.EQ:
			if lhs != c.RHS {
				violated = append(violated, c)
			}
		}
	}
	if len(violated) == 0 {
		return cloneAssignment(current)
	}
	c := violated[rng.Intn(len(violated))]

	names := make([]string, 0, len(c.Coeffs))
	for name, coeff := range c.Coeffs {
		if coeff != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return cloneAssignment(current)
	}
	name := names[rng.Intn(len(names))]
	coeff := c.Coeffs[name]

	rest := 0.0
	for n, cf := range c.Coeffs {
		if n == name {
			continue
		}
		rest += cf * current[n]
	}
	// coeff*value + rest Op RHS  =>  value = (RHS - rest) / coeff, the
	// exact value satisfying this constraint alone as an equality; LE/GE
	// violations are repaired the same way since they were violated in
	// the direction equality would close.
	value := (c.RHS - rest) / coeff

	out := cloneAssignment(current)
	out[name] = clampToKind(p.Variables[name], value)
	return out
}

// clampToKind rounds and clamps value into v's domain: binaries round to
// 0/1, integers round to the nearest whole number, continuous values only
// get bounds-clamped.
func clampToKind(v outbound.Variable, value float64) float64 {
	switch v.Kind {
	case outbound.Binary:
		if value >= 0.5 {
			value = 1
		} else {
			value = 0
		}
	case outbound.Integer:
		value = math.Round(value)
	}
	if value < v.Lower {
		value = v.Lower
	}
	if value > v.Upper {
		value = v.Upper
	}
	return value
}

// evaluate returns the objective value and the total constraint
// violation (0 when every constraint is satisfied).
func (h *Heuristic) evaluate(p *outbound.Problem, a assignment) (cost float64, violation float64) {
	values := make([]float64, 0, len(p.Objective))
	coeffs := make([]float64, 0, len(p.Objective))
	for name, coeff := range p.Objective {
		values = append(values, a[name])
		coeffs = append(coeffs, coeff)
	}
	cost = floats.Dot(values, coeffs)
	if p.Sense == outbound.Maximize {
		cost = -cost
	}

	for _, c := range p.Constraints {
		lhs := 0.0
		for name, coeff := range c.Coeffs {
			lhs += coeff * a[name]
		}
		switch c.Op {
		case outbound.LE:
			if lhs > c.RHS {
				violation += lhs - c.RHS
			}
		case outbound.GE:
			if lhs < c.RHS {
				violation += c.RHS - lhs
			}
		case outbound.EQ:
			violation += math.Abs(lhs - c.RHS)
		}
	}
	return cost, violation
}
