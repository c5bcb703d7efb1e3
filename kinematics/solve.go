package kinematics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// Reference solver constants.
const (
	DefaultStepSize             = 0.01
	DefaultConvergenceThreshold = 1e-3
	DefaultMaxIterations        = 20000
)

var (
	// ErrInvalidGoal is returned when a goal has a NaN or infinite coordinate.
	ErrInvalidGoal = errors.New("kinematics: goal must be finite")
	// ErrInvalidConfig is returned for a solver configuration that cannot make progress.
	ErrInvalidConfig = errors.New("kinematics: invalid solver config")
)

// SolverConfig holds the tunables of the Jacobian-transpose loop.
type SolverConfig struct {
	StepSize             float64 // gain applied to every joint's angle delta
	ConvergenceThreshold float64 // stop once the end effector moves less than this in one iteration
	MaxIterations        int     // cap on outer iterations; <= 0 means unbounded
}

// DefaultSolverConfig returns the reference gain and threshold with the default cap.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		StepSize:             DefaultStepSize,
		ConvergenceThreshold: DefaultConvergenceThreshold,
		MaxIterations:        DefaultMaxIterations,
	}
}

// Validate checks that the configuration can drive a solve.
func (c SolverConfig) Validate() error {
	if !(c.StepSize > 0) {
		return fmt.Errorf("%w: step size %v must be positive", ErrInvalidConfig, c.StepSize)
	}
	if !(c.ConvergenceThreshold > 0) {
		return fmt.Errorf("%w: convergence threshold %v must be positive", ErrInvalidConfig, c.ConvergenceThreshold)
	}
	return nil
}

// Outcome classifies how a solve ended.
type Outcome int

const (
	// Converged means the end effector's per-iteration displacement fell below the threshold.
	Converged Outcome = iota
	// MaxIterationsReached means the iteration cap was hit first.
	MaxIterationsReached
	// Degenerate means no joint could contribute: every Jacobian column was
	// undefined or the pose became non-finite.
	Degenerate
	// Cancelled means the context ended the solve.
	Cancelled
)

// String returns the outcome name used in logs and CSV output.
func (o Outcome) String() string {
	switch o {
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max_iterations"
	case Degenerate:
		return "degenerate"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result describes a finished solve.
type Result struct {
	Outcome        Outcome
	Iterations     int
	SkippedColumns int // degenerate Jacobian columns treated as zero, summed over iterations
	Goal           r2.Vec
	EndEffector    r2.Vec
	Error          float64 // distance from end effector to goal at return
	Elapsed        time.Duration
}

// LogValue implements slog.LogValuer for structured logging.
func (r Result) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("outcome", r.Outcome.String()),
		slog.Int("iterations", r.Iterations),
		slog.Int("skipped_columns", r.SkippedColumns),
		slog.Float64("goal_x", r.Goal.X),
		slog.Float64("goal_y", r.Goal.Y),
		slog.Float64("error", r.Error),
		slog.Int64("elapsed_us", r.Elapsed.Microseconds()),
	)
}

// Iteration is the state published after each outer iteration of a solve.
type Iteration struct {
	Index        int // 1-based
	Goal         r2.Vec
	EndEffector  r2.Vec
	Displacement float64   // end-effector movement during this iteration
	DeltaAngles  []float64 // Jᵀ·e per controllable joint, before scaling by the step size
	Positions    []r2.Vec  // pose after the iteration, base to tip
}

// Observer receives one call per outer solver iteration. Renderers use it to
// draw a frame per iteration.
type Observer interface {
	ObserveIteration(it Iteration)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(it Iteration)

// ObserveIteration calls f(it).
func (f ObserverFunc) ObserveIteration(it Iteration) {
	f(it)
}

// Observers fans each iteration out to every non-nil observer in order.
// It returns nil when there is nothing to notify.
func Observers(obs ...Observer) Observer {
	var list multiObserver
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) ObserveIteration(it Iteration) {
	for _, o := range m {
		o.ObserveIteration(it)
	}
}

// Solve moves the end effector toward goal with the Jacobian-transpose method.
//
// Each iteration builds Jᵀ from the current end-effector position, computes
// Δθ = Jᵀ·(goal - ee) and applies StepSize·Δθ[i] to joints base to tip, one
// after another against the partially updated chain. The loop ends when the
// end effector moves less than ConvergenceThreshold in one iteration, when
// MaxIterations is reached, when no joint can contribute, or when ctx is done.
// obs may be nil.
//
// Panics if the chain is empty.
func (c *Chain) Solve(ctx context.Context, goal r2.Vec, cfg SolverConfig, obs Observer) (Result, error) {
	c.mustNotBeEmpty()
	start := time.Now()
	res := Result{Goal: goal}
	if err := cfg.Validate(); err != nil {
		return res, err
	}
	if !finite(goal) {
		return res, fmt.Errorf("%w: got %v", ErrInvalidGoal, goal)
	}

	joints := len(c.rotators) - 1
	var (
		jt    *mat.Dense
		delta mat.VecDense
		e     = mat.NewVecDense(2, nil)
	)
	if joints > 0 {
		jt = mat.NewDense(joints, 2, nil)
	}

	for cfg.MaxIterations <= 0 || res.Iterations < cfg.MaxIterations {
		if err := ctx.Err(); err != nil {
			res.Outcome = Cancelled
			c.finish(&res, start)
			return res, err
		}
		res.Iterations++

		last := c.EndEffector()
		var deltas []float64
		if joints > 0 {
			skipped := c.fillJacobianTranspose(jt, last)
			res.SkippedColumns += skipped
			if skipped == joints {
				res.Outcome = Degenerate
				c.finish(&res, start)
				return res, nil
			}

			diff := r2.Sub(goal, last)
			e.SetVec(0, diff.X)
			e.SetVec(1, diff.Y)
			delta.MulVec(jt, e)

			deltas = make([]float64, joints)
			for i := range deltas {
				deltas[i] = delta.AtVec(i)
				c.Rotate(i, cfg.StepSize*deltas[i])
			}
		}

		current := c.EndEffector()
		if !finite(current) {
			res.Outcome = Degenerate
			c.finish(&res, start)
			return res, nil
		}
		displacement := r2.Norm(r2.Sub(current, last))

		if obs != nil {
			obs.ObserveIteration(Iteration{
				Index:        res.Iterations,
				Goal:         goal,
				EndEffector:  current,
				Displacement: displacement,
				DeltaAngles:  deltas,
				Positions:    c.Positions(),
			})
		}

		if displacement < cfg.ConvergenceThreshold {
			res.Outcome = Converged
			c.finish(&res, start)
			return res, nil
		}
	}

	res.Outcome = MaxIterationsReached
	c.finish(&res, start)
	return res, nil
}

// fillJacobianTranspose writes one row per controllable joint into jt, using a
// single end-effector snapshot. Degenerate rows are left zero; the count of
// such rows is returned.
func (c *Chain) fillJacobianTranspose(jt *mat.Dense, endEffector r2.Vec) int {
	jt.Zero()
	rows, _ := jt.Dims()
	skipped := 0
	for i := 0; i < rows; i++ {
		col, ok := c.rotators[i].Jacobian(endEffector)
		if !ok {
			skipped++
			continue
		}
		jt.Set(i, 0, col.X)
		jt.Set(i, 1, col.Y)
	}
	return skipped
}

func (c *Chain) finish(res *Result, start time.Time) {
	res.Elapsed = time.Since(start)
	res.EndEffector = c.EndEffector()
	res.Error = r2.Norm(r2.Sub(res.Goal, res.EndEffector))
	slog.Debug("solve finished", "result", *res)
}
