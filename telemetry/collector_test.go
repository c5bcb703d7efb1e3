package telemetry

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/reach/kinematics"
)

func TestCollectorRecordsIterations(t *testing.T) {
	c := NewCollector(10, true)

	c.ObserveIteration(kinematics.Iteration{
		Index:        1,
		Goal:         r2.Vec{X: 3, Y: 4},
		EndEffector:  r2.Vec{X: 0, Y: 0},
		Displacement: 0.5,
		DeltaAngles:  []float64{0.2, -0.7},
	})
	c.RecordSolve(kinematics.Result{Iterations: 1})
	c.ObserveIteration(kinematics.Iteration{Index: 1})

	recs := c.DrainIterations()
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Solve != 1 || recs[1].Solve != 2 {
		t.Errorf("solve numbers = %d, %d, want 1, 2", recs[0].Solve, recs[1].Solve)
	}
	if recs[0].Error != 5 || recs[0].MaxDelta != 0.7 {
		t.Errorf("record = %+v", recs[0])
	}
	if len(c.DrainIterations()) != 0 {
		t.Error("drain did not clear the buffer")
	}
}

func TestCollectorSkipsIterationsWhenDisabled(t *testing.T) {
	c := NewCollector(10, false)
	c.ObserveIteration(kinematics.Iteration{Index: 1})
	if len(c.DrainIterations()) != 0 {
		t.Error("expected no iteration records")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(3, false)

	results := []kinematics.Result{
		{Outcome: kinematics.Converged, Iterations: 10, Error: 0.1},
		{Outcome: kinematics.Converged, Iterations: 20, Error: 0.3},
		{Outcome: kinematics.MaxIterationsReached, Iterations: 60, Error: 2},
	}
	for i, res := range results {
		res.Elapsed = 1500 * time.Microsecond
		if c.ShouldFlush() {
			t.Fatalf("flush requested after %d solves", i)
		}
		rec := c.RecordSolve(res)
		if rec.Solve != i+1 || rec.DurationUS != 1500 || rec.Outcome != res.Outcome.String() {
			t.Errorf("record %d = %+v", i, rec)
		}
	}
	if !c.ShouldFlush() {
		t.Fatal("expected flush after 3 solves")
	}

	s := c.Flush()
	if s.WindowStart != 1 || s.WindowEnd != 3 || s.Solves != 3 {
		t.Errorf("window = %d..%d (%d solves)", s.WindowStart, s.WindowEnd, s.Solves)
	}
	if s.Converged != 2 || s.MaxIterations != 1 || s.Degenerate != 0 {
		t.Errorf("outcomes = %+v", s)
	}
	if s.IterMean != 30 || s.IterP50 != 20 {
		t.Errorf("iter mean = %v, p50 = %v", s.IterMean, s.IterP50)
	}
	if math.Abs(s.ErrorMean-0.8) > 1e-9 || s.ErrorMax != 2 {
		t.Errorf("error mean = %v, max = %v", s.ErrorMean, s.ErrorMax)
	}

	// Next window starts fresh.
	if c.ShouldFlush() {
		t.Error("flush requested on an empty window")
	}
	c.RecordSolve(kinematics.Result{Outcome: kinematics.Degenerate, Iterations: 1})
	s = c.Flush()
	if s.WindowStart != 4 || s.WindowEnd != 4 || s.Degenerate != 1 || s.Converged != 0 {
		t.Errorf("second window = %+v", s)
	}
	if c.Solves() != 4 {
		t.Errorf("solves = %d, want 4", c.Solves())
	}
}
