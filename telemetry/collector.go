package telemetry

import (
	"math"

	"github.com/pthm-cable/reach/kinematics"
)

// Collector accumulates solver activity and produces a SolveSummary every
// window of solves. It implements kinematics.Observer so it can be handed to
// Solve directly or chained with a renderer.
type Collector struct {
	windowSolves     int
	recordIterations bool

	// Solve numbering is 1-based; solve counts finished solves.
	solve       int
	windowStart int

	// Current window tracking
	iterations []float64
	errors     []float64
	outcomes   map[kinematics.Outcome]int

	// Iteration records not yet drained
	pending []IterationRecord
}

// NewCollector creates a collector that summarises every windowSolves solves.
// recordIterations keeps a record per solver iteration for iterations.csv.
func NewCollector(windowSolves int, recordIterations bool) *Collector {
	if windowSolves < 1 {
		windowSolves = 1
	}
	return &Collector{
		windowSolves:     windowSolves,
		recordIterations: recordIterations,
		windowStart:      1,
		outcomes:         make(map[kinematics.Outcome]int),
	}
}

// ObserveIteration records one solver iteration of the solve in progress.
func (c *Collector) ObserveIteration(it kinematics.Iteration) {
	if !c.recordIterations {
		return
	}
	var maxDelta float64
	for _, d := range it.DeltaAngles {
		maxDelta = math.Max(maxDelta, math.Abs(d))
	}
	dx, dy := it.Goal.X-it.EndEffector.X, it.Goal.Y-it.EndEffector.Y
	c.pending = append(c.pending, IterationRecord{
		Solve:        c.solve + 1,
		Iteration:    it.Index,
		GoalX:        it.Goal.X,
		GoalY:        it.Goal.Y,
		EndX:         it.EndEffector.X,
		EndY:         it.EndEffector.Y,
		Displacement: it.Displacement,
		Error:        math.Hypot(dx, dy),
		MaxDelta:     maxDelta,
	})
}

// RecordSolve closes the solve in progress and returns its CSV record.
func (c *Collector) RecordSolve(res kinematics.Result) SolveRecord {
	c.solve++
	c.iterations = append(c.iterations, float64(res.Iterations))
	c.errors = append(c.errors, res.Error)
	c.outcomes[res.Outcome]++
	return NewSolveRecord(c.solve, res)
}

// DrainIterations returns and clears the buffered iteration records.
func (c *Collector) DrainIterations() []IterationRecord {
	out := c.pending
	c.pending = nil
	return out
}

// ShouldFlush returns true once the current window holds enough solves.
func (c *Collector) ShouldFlush() bool {
	return len(c.iterations) >= c.windowSolves
}

// Solves returns the number of solves recorded so far.
func (c *Collector) Solves() int {
	return c.solve
}

// Flush produces a SolveSummary for the current window and starts a new one.
func (c *Collector) Flush() SolveSummary {
	iterMean, iterStd, _, iterP50, iterP90 := ComputeStats(c.iterations)
	errMean, _, _, errP50, errP90 := ComputeStats(c.errors)

	var errMax float64
	for _, e := range c.errors {
		errMax = math.Max(errMax, e)
	}

	s := SolveSummary{
		WindowStart: c.windowStart,
		WindowEnd:   c.solve,
		Solves:      len(c.iterations),

		Converged:     c.outcomes[kinematics.Converged],
		MaxIterations: c.outcomes[kinematics.MaxIterationsReached],
		Degenerate:    c.outcomes[kinematics.Degenerate],
		Cancelled:     c.outcomes[kinematics.Cancelled],

		IterMean: iterMean,
		IterStd:  iterStd,
		IterP50:  iterP50,
		IterP90:  iterP90,

		ErrorMean: errMean,
		ErrorP50:  errP50,
		ErrorP90:  errP90,
		ErrorMax:  errMax,
	}

	// Reset for next window
	c.windowStart = c.solve + 1
	c.iterations = c.iterations[:0]
	c.errors = c.errors[:0]
	clear(c.outcomes)

	return s
}
