package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/reach/config"
	"github.com/pthm-cable/reach/kinematics"
	"github.com/pthm-cable/reach/path"
	"github.com/pthm-cable/reach/telemetry"
)

// Fitness weights. An average of 1000 iterations per point costs as much as
// 0.1 world units of p90 error.
const (
	iterationWeight = 1e-4
	failurePenalty  = 1e3
)

// scenario is a sequence of goals followed from the initial pose.
type scenario struct {
	name  string
	goals []r2.Vec
}

// scenarioResult holds the result from one scenario run.
type scenarioResult struct {
	fitness   float64
	errorP90  float64
	meanIters float64
	converged int
	points    int
}

// FitnessEvaluator follows each scenario with candidate parameters and scores
// accuracy against effort.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	scenarios  []scenario
	usePlanner bool

	mu   sync.Mutex
	last scenarioResult // averaged over scenarios, from the most recent Evaluate
}

// NewFitnessEvaluator builds the configured path scenario (first points
// goals) and one random scenario per seed.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, points int, seeds []int64, usePlanner bool) *FitnessEvaluator {
	fe := &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
		usePlanner: usePlanner,
	}

	if seq, ok := path.Named(baseCfg.Derived.Path); ok {
		fe.scenarios = append(fe.scenarios, scenario{
			name:  "path_" + baseCfg.Path.Shape,
			goals: slices.Collect(path.Take(seq, points)),
		})
	}

	joints := baseCfg.Derived.Joints
	reach := 0.0
	for i := 1; i < len(joints); i++ {
		reach += r2.Norm(r2.Sub(joints[i], joints[i-1]))
	}
	for _, seed := range seeds {
		fe.scenarios = append(fe.scenarios, scenario{
			name:  fmt.Sprintf("random_%d", seed),
			goals: randomGoals(rand.New(rand.NewSource(seed)), joints[0], reach, points),
		})
	}
	return fe
}

// LastResult returns the scenario-averaged result of the most recent
// evaluation.
func (fe *FitnessEvaluator) LastResult() scenarioResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate computes fitness for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	values := fe.params.Clamp(x)
	solver := fe.baseConfig.Derived.Solver
	planner := fe.baseConfig.Derived.Planner
	solver.StepSize = values[0]
	planner.VerticalOffset = values[1]

	// Run all scenarios in parallel
	results := make([]scenarioResult, len(fe.scenarios))
	var wg sync.WaitGroup
	for i, sc := range fe.scenarios {
		wg.Add(1)
		go func(idx int, sc scenario) {
			defer wg.Done()
			results[idx] = fe.runScenario(sc, solver, planner)
		}(i, sc)
	}
	wg.Wait()

	var avg scenarioResult
	for _, r := range results {
		avg.fitness += r.fitness
		avg.errorP90 += r.errorP90
		avg.meanIters += r.meanIters
		avg.converged += r.converged
		avg.points += r.points
	}
	if n := float64(len(results)); n > 0 {
		avg.fitness /= n
		avg.errorP90 /= n
		avg.meanIters /= n
	}

	fe.mu.Lock()
	fe.last = avg
	fe.mu.Unlock()

	return avg.fitness
}

// runScenario follows sc on a fresh chain.
func (fe *FitnessEvaluator) runScenario(sc scenario, solver kinematics.SolverConfig, planner kinematics.PlannerConfig) scenarioResult {
	chain := kinematics.NewChain(fe.baseConfig.Derived.Joints...)

	// Final error per point; waypoint solves are overwritten by the goal solve.
	errs := make([]float64, len(sc.goals))
	converged := make([]bool, len(sc.goals))
	stats, err := path.Follow(context.Background(), chain, slices.Values(sc.goals), path.FollowOptions{
		Solver:     solver,
		Planner:    planner,
		UsePlanner: fe.usePlanner,
		OnSolve: func(point int, res kinematics.Result) {
			errs[point] = res.Error
			converged[point] = res.Outcome == kinematics.Converged
		},
	})
	if err != nil || stats.Points == 0 {
		return scenarioResult{fitness: failurePenalty, points: stats.Points}
	}

	res := scenarioResult{points: stats.Points}
	for i := range stats.Points {
		if math.IsNaN(errs[i]) || math.IsInf(errs[i], 0) {
			res.fitness = failurePenalty
			return res
		}
		if converged[i] {
			res.converged++
		}
	}
	_, _, _, _, res.errorP90 = telemetry.ComputeStats(errs[:stats.Points])
	res.meanIters = float64(stats.Iterations) / float64(stats.Points)
	res.fitness = res.errorP90 + iterationWeight*res.meanIters
	return res
}

// randomGoals draws n goals inside the annulus [0.2, 0.95] of reach around
// base.
func randomGoals(rng *rand.Rand, base r2.Vec, reach float64, n int) []r2.Vec {
	goals := make([]r2.Vec, n)
	for i := range goals {
		radius := reach * (0.2 + 0.75*rng.Float64())
		angle := rng.Float64() * 2 * math.Pi
		goals[i] = r2.Add(base, r2.Vec{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)})
	}
	return goals
}
