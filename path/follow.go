package path

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/pthm-cable/reach/kinematics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Solver moves a chain toward goals. *kinematics.Chain satisfies it.
type Solver interface {
	Solve(ctx context.Context, goal r2.Vec, cfg kinematics.SolverConfig, obs kinematics.Observer) (kinematics.Result, error)
	EndEffector() r2.Vec
}

// FollowOptions configures Follow.
type FollowOptions struct {
	Solver     kinematics.SolverConfig
	Planner    kinematics.PlannerConfig
	UsePlanner bool                // solve to kinematics.Waypoint before each point
	Observer   kinematics.Observer // may be nil
	// OnSolve runs after every solve, before the next one starts, so
	// iterations seen by Observer since the last call belong to res.
	OnSolve func(point int, res kinematics.Result)
}

// FollowStats summarises a Follow run.
type FollowStats struct {
	Points     int
	Solves     int
	Iterations int
	Outcomes   map[kinematics.Outcome]int
	MaxError   float64 // largest end-effector error after a point's final solve
}

// LogValue implements slog.LogValuer for structured logging.
func (s FollowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("points", s.Points),
		slog.Int("solves", s.Solves),
		slog.Int("iterations", s.Iterations),
		slog.Int("converged", s.Outcomes[kinematics.Converged]),
		slog.Int("max_iterations", s.Outcomes[kinematics.MaxIterationsReached]),
		slog.Int("degenerate", s.Outcomes[kinematics.Degenerate]),
		slog.Float64("max_error", s.MaxError),
	)
}

// Follow solves to each point in order. Non-convergence is counted, not
// treated as an error; Follow stops at the first solver error or when ctx is
// done.
func Follow(ctx context.Context, s Solver, points iter.Seq[r2.Vec], opts FollowOptions) (FollowStats, error) {
	stats := FollowStats{Outcomes: make(map[kinematics.Outcome]int)}

	var last kinematics.Result
	solve := func(goal r2.Vec) error {
		res, err := s.Solve(ctx, goal, opts.Solver, opts.Observer)
		stats.Solves++
		stats.Iterations += res.Iterations
		stats.Outcomes[res.Outcome]++
		if opts.OnSolve != nil {
			opts.OnSolve(stats.Points, res)
		}
		last = res
		return err
	}

	for p := range points {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if opts.UsePlanner {
			waypoint := kinematics.Waypoint(s.EndEffector(), p, opts.Planner.VerticalOffset)
			if err := solve(waypoint); err != nil {
				return stats, fmt.Errorf("follow point %d waypoint %v: %w", stats.Points, waypoint, err)
			}
		}
		if err := solve(p); err != nil {
			return stats, fmt.Errorf("follow point %d %v: %w", stats.Points, p, err)
		}
		stats.MaxError = max(stats.MaxError, last.Error)
		stats.Points++
	}
	return stats, nil
}
