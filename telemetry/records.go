package telemetry

import (
	"github.com/pthm-cable/reach/kinematics"
)

// IterationRecord is one solver iteration, flattened for iterations.csv.
type IterationRecord struct {
	Solve        int     `csv:"solve"`
	Iteration    int     `csv:"iteration"`
	GoalX        float64 `csv:"goal_x"`
	GoalY        float64 `csv:"goal_y"`
	EndX         float64 `csv:"end_x"`
	EndY         float64 `csv:"end_y"`
	Displacement float64 `csv:"displacement"`
	Error        float64 `csv:"error"`
	MaxDelta     float64 `csv:"max_delta"` // largest |Jᵀ·e| component
}

// SolveRecord is one finished solve, flattened for solves.csv.
type SolveRecord struct {
	Solve          int     `csv:"solve"`
	Outcome        string  `csv:"outcome"`
	Iterations     int     `csv:"iterations"`
	SkippedColumns int     `csv:"skipped_columns"`
	GoalX          float64 `csv:"goal_x"`
	GoalY          float64 `csv:"goal_y"`
	EndX           float64 `csv:"end_x"`
	EndY           float64 `csv:"end_y"`
	Error          float64 `csv:"error"`
	DurationUS     int64   `csv:"duration_us"`
}

// NewSolveRecord flattens a solver result.
func NewSolveRecord(solve int, res kinematics.Result) SolveRecord {
	return SolveRecord{
		Solve:          solve,
		Outcome:        res.Outcome.String(),
		Iterations:     res.Iterations,
		SkippedColumns: res.SkippedColumns,
		GoalX:          res.Goal.X,
		GoalY:          res.Goal.Y,
		EndX:           res.EndEffector.X,
		EndY:           res.EndEffector.Y,
		Error:          res.Error,
		DurationUS:     res.Elapsed.Microseconds(),
	}
}
