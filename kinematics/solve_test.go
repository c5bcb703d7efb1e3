package kinematics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestSolveAlreadyAtGoal(t *testing.T) {
	c := NewChain(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 3, Y: 0})

	res, err := c.Solve(context.Background(), r2.Vec{X: 3, Y: 0}, DefaultSolverConfig(), nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Outcome != Converged {
		t.Errorf("outcome = %v, want converged", res.Outcome)
	}
	if res.Iterations != 1 {
		t.Errorf("iterations = %d, want 1", res.Iterations)
	}
	if res.Error != 0 {
		t.Errorf("error = %v, want 0", res.Error)
	}
}

func TestSolveReferenceConstantsConverge(t *testing.T) {
	c := NewChain(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 5, Y: 0}, r2.Vec{X: 10, Y: 0})
	goal := r2.Vec{X: 7, Y: 7}
	initialErr := r2.Norm(r2.Sub(goal, c.EndEffector()))

	res, err := c.Solve(context.Background(), goal, DefaultSolverConfig(), nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Outcome != Converged {
		t.Fatalf("outcome = %v, want converged", res.Outcome)
	}
	if res.Iterations >= 5000 {
		t.Errorf("iterations = %d, want < 5000", res.Iterations)
	}
	// The displacement criterion stops well before the error reaches the
	// threshold at this gain; the chain still gets most of the way there.
	if res.Error >= 0.25 || res.Error >= initialErr/10 {
		t.Errorf("error = %v, want < 0.25 (initial %v)", res.Error, initialErr)
	}
}

func TestSolveReachesGoalWithTightThreshold(t *testing.T) {
	c := NewChain(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 5, Y: 0}, r2.Vec{X: 10, Y: 0})
	goal := r2.Vec{X: 7, Y: 7}
	cfg := SolverConfig{StepSize: 0.05, ConvergenceThreshold: 1e-6, MaxIterations: 5000}

	res, err := c.Solve(context.Background(), goal, cfg, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Outcome != Converged {
		t.Fatalf("outcome = %v after %d iterations, want converged", res.Outcome, res.Iterations)
	}
	if res.Error > 1e-3 {
		t.Errorf("end effector %v is %v from goal, want <= 1e-3", res.EndEffector, res.Error)
	}

	// Link lengths survive the whole solve.
	pos := c.Positions()
	for i, want := range []float64{5, 5} {
		if got := r2.Norm(r2.Sub(pos[i+1], pos[i])); math.Abs(got-want) > 1e-9 {
			t.Errorf("link %d length = %v, want %v", i, got, want)
		}
	}
}

func TestSolveAppliesUpdatesSequentially(t *testing.T) {
	start := []r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 1}, {X: 4, Y: 0}, {X: 5, Y: 2}}
	goal := r2.Vec{X: -1, Y: 4}
	cfg := SolverConfig{StepSize: 0.01, ConvergenceThreshold: 1e-12, MaxIterations: 1}

	got := NewChain(start...)
	if _, err := got.Solve(context.Background(), goal, cfg, nil); err != nil {
		t.Fatalf("Solve: %v", err)
	}

	// One iteration by hand: snapshot all columns, then rotate base to tip.
	want := NewChain(start...)
	ee := want.EndEffector()
	e := r2.Sub(goal, ee)
	deltas := make([]float64, want.Len()-1)
	for i := range deltas {
		col, _ := want.Rotator(i).Jacobian(ee)
		deltas[i] = r2.Dot(col, e)
	}
	for i, d := range deltas {
		want.Rotate(i, cfg.StepSize*d)
	}

	if diff := cmp.Diff(want.Positions(), got.Positions(), approx); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveSingleRotator(t *testing.T) {
	c := NewChain(r2.Vec{X: 1, Y: 1})

	res, err := c.Solve(context.Background(), r2.Vec{X: 4, Y: 5}, DefaultSolverConfig(), nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Outcome != Converged || res.Iterations != 1 {
		t.Errorf("got %v after %d iterations, want converged after 1", res.Outcome, res.Iterations)
	}
	if res.Error != 5 {
		t.Errorf("error = %v, want 5", res.Error)
	}
}

func TestSolveAllColumnsDegenerate(t *testing.T) {
	c := NewChain(r2.Vec{X: 1, Y: 1}, r2.Vec{X: 1, Y: 1})

	res, err := c.Solve(context.Background(), r2.Vec{X: 5, Y: 5}, DefaultSolverConfig(), nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Outcome != Degenerate {
		t.Errorf("outcome = %v, want degenerate", res.Outcome)
	}
	if res.Iterations != 1 || res.SkippedColumns != 1 {
		t.Errorf("iterations = %d, skipped = %d, want 1 and 1", res.Iterations, res.SkippedColumns)
	}
}

func TestSolveSkipsCoincidentJoint(t *testing.T) {
	// Joint 1 sits on the end effector and can never move it.
	c := NewChain(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 5, Y: 0}, r2.Vec{X: 5, Y: 0})

	res, err := c.Solve(context.Background(), r2.Vec{X: 3, Y: 4}, DefaultSolverConfig(), nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Outcome != Converged {
		t.Fatalf("outcome = %v, want converged", res.Outcome)
	}
	if res.SkippedColumns != res.Iterations {
		t.Errorf("skipped = %d, want one per iteration (%d)", res.SkippedColumns, res.Iterations)
	}
	if res.Error > 0.1 {
		t.Errorf("error = %v, want < 0.1", res.Error)
	}
	for _, v := range []float64{res.EndEffector.X, res.EndEffector.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite end effector %v", res.EndEffector)
		}
	}
}

func TestSolveIterationCap(t *testing.T) {
	c := NewChain(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 5, Y: 0}, r2.Vec{X: 10, Y: 0})
	cfg := SolverConfig{StepSize: 0.01, ConvergenceThreshold: 1e-9, MaxIterations: 3}

	res, err := c.Solve(context.Background(), r2.Vec{X: 7, Y: 7}, cfg, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Outcome != MaxIterationsReached {
		t.Errorf("outcome = %v, want max_iterations", res.Outcome)
	}
	if res.Iterations != 3 {
		t.Errorf("iterations = %d, want 3", res.Iterations)
	}
}

func TestSolveCancelled(t *testing.T) {
	c := NewChain(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 5, Y: 0}, r2.Vec{X: 10, Y: 0})
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	obs := ObserverFunc(func(it Iteration) {
		calls++
		if it.Index == 2 {
			cancel()
		}
	})
	cfg := SolverConfig{StepSize: 0.01, ConvergenceThreshold: 1e-9}

	res, err := c.Solve(ctx, r2.Vec{X: 7, Y: 7}, cfg, obs)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res.Outcome != Cancelled {
		t.Errorf("outcome = %v, want cancelled", res.Outcome)
	}
	if res.Iterations != 2 || calls != 2 {
		t.Errorf("iterations = %d, observer calls = %d, want 2 and 2", res.Iterations, calls)
	}
}

func TestSolvePublishesEveryIteration(t *testing.T) {
	c := NewChain(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 5, Y: 0}, r2.Vec{X: 10, Y: 0})
	var frames []Iteration

	res, err := c.Solve(context.Background(), r2.Vec{X: 7, Y: 7}, DefaultSolverConfig(), ObserverFunc(func(it Iteration) {
		frames = append(frames, it)
	}))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(frames) != res.Iterations {
		t.Fatalf("observer saw %d frames, want %d", len(frames), res.Iterations)
	}
	for i, f := range frames {
		if f.Index != i+1 {
			t.Errorf("frame %d has index %d", i, f.Index)
		}
		if len(f.Positions) != c.Len() || len(f.DeltaAngles) != c.Len()-1 {
			t.Errorf("frame %d: %d positions, %d deltas", i, len(f.Positions), len(f.DeltaAngles))
		}
	}
	last := frames[len(frames)-1]
	if last.Displacement >= DefaultConvergenceThreshold {
		t.Errorf("final displacement = %v, want < threshold", last.Displacement)
	}
	if last.EndEffector != res.EndEffector {
		t.Errorf("final frame end effector %v != result %v", last.EndEffector, res.EndEffector)
	}
}

func TestSolveRejectsBadInput(t *testing.T) {
	c := NewChain(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 0})
	before := c.Positions()

	tests := []struct {
		name string
		goal r2.Vec
		cfg  SolverConfig
		want error
	}{
		{"nan goal", r2.Vec{X: math.NaN(), Y: 0}, DefaultSolverConfig(), ErrInvalidGoal},
		{"inf goal", r2.Vec{X: 0, Y: math.Inf(-1)}, DefaultSolverConfig(), ErrInvalidGoal},
		{"zero step", r2.Vec{X: 1, Y: 1}, SolverConfig{StepSize: 0, ConvergenceThreshold: 1e-3}, ErrInvalidConfig},
		{"negative threshold", r2.Vec{X: 1, Y: 1}, SolverConfig{StepSize: 0.01, ConvergenceThreshold: -1}, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Solve(context.Background(), tt.goal, tt.cfg, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if diff := cmp.Diff(before, c.Positions()); diff != "" {
		t.Errorf("rejected solves moved the chain (-want +got):\n%s", diff)
	}
}

func TestSolveEmptyChainPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewChain().Solve(context.Background(), r2.Vec{}, DefaultSolverConfig(), nil)
}

func TestOutcomeString(t *testing.T) {
	tests := map[Outcome]string{
		Converged:            "converged",
		MaxIterationsReached: "max_iterations",
		Degenerate:           "degenerate",
		Cancelled:            "cancelled",
		Outcome(42):          "outcome(42)",
	}
	for o, want := range tests {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", int(o), got, want)
		}
	}
}

func TestObserversFanOut(t *testing.T) {
	var a, b int
	obs := Observers(nil, ObserverFunc(func(Iteration) { a++ }), nil, ObserverFunc(func(Iteration) { b++ }))

	c := NewChain(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 5, Y: 0}, r2.Vec{X: 10, Y: 0})
	res, err := c.Solve(context.Background(), r2.Vec{X: 7, Y: 7}, DefaultSolverConfig(), obs)
	if err != nil {
		t.Fatal(err)
	}
	if a != res.Iterations || b != res.Iterations {
		t.Errorf("observers saw %d and %d frames, want %d", a, b, res.Iterations)
	}
	if Observers() != nil || Observers(nil, nil) != nil {
		t.Error("expected nil observer when nothing to notify")
	}
}
