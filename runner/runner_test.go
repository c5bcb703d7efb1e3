package runner

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/reach/config"
	"github.com/pthm-cable/reach/path"
	"github.com/pthm-cable/reach/telemetry"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func TestRunWritesTelemetry(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Telemetry.RecordIterations = true
	dir := t.TempDir()
	plotFile := filepath.Join(dir, "trace.png")

	stats, err := Run(context.Background(), cfg, Options{
		OutputDir: dir,
		PlotFile:  plotFile,
		MaxSolves: 20,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Points != 20 || stats.Solves != 20 {
		t.Errorf("points=%d solves=%d, want 20 and 20", stats.Points, stats.Solves)
	}

	for _, name := range []string{"config.yaml", "iterations.csv", "solves.csv", "summaries.csv", "perf.csv", "trace.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "solves.csv"))
	if err != nil {
		t.Fatal(err)
	}
	var solves []telemetry.SolveRecord
	if err := gocsv.UnmarshalBytes(data, &solves); err != nil {
		t.Fatalf("parse solves.csv: %v", err)
	}
	if len(solves) != 20 {
		t.Fatalf("solves.csv has %d rows, want 20", len(solves))
	}
	for i, s := range solves {
		if s.Solve != i+1 {
			t.Errorf("row %d solve = %d, want %d", i, s.Solve, i+1)
		}
	}

	data, err = os.ReadFile(filepath.Join(dir, "summaries.csv"))
	if err != nil {
		t.Fatal(err)
	}
	var summaries []telemetry.SolveSummary
	if err := gocsv.UnmarshalBytes(data, &summaries); err != nil {
		t.Fatalf("parse summaries.csv: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Solves != 20 {
		t.Errorf("summaries = %+v, want one window of 20 solves", summaries)
	}
}

func TestRunSinglePass(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Path.Shape = path.ShapeCircle
	cfg.Derived.Path = path.Spec{Shape: path.ShapeCircle, Radius: 5, Step: math.Pi / 2}

	stats, err := Run(context.Background(), cfg, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Points != 4 {
		t.Errorf("points = %d, want 4", stats.Points)
	}
}

func TestRunPlanner(t *testing.T) {
	cfg := loadDefaults(t)
	stats, err := Run(context.Background(), cfg, Options{MaxSolves: 3, UsePlanner: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Points != 3 || stats.Solves != 6 {
		t.Errorf("points=%d solves=%d, want 3 and 6", stats.Points, stats.Solves)
	}
}

func TestRunPlannerIterationsPerSolve(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Telemetry.RecordIterations = true
	dir := t.TempDir()

	if _, err := Run(context.Background(), cfg, Options{OutputDir: dir, MaxSolves: 3, UsePlanner: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var solves []telemetry.SolveRecord
	readCSV(t, filepath.Join(dir, "solves.csv"), &solves)
	var iterations []telemetry.IterationRecord
	readCSV(t, filepath.Join(dir, "iterations.csv"), &iterations)

	if len(solves) != 6 {
		t.Fatalf("solves.csv has %d rows, want 6", len(solves))
	}
	rows := make(map[int]int)
	for _, it := range iterations {
		rows[it.Solve]++
	}
	// Waypoint and goal solves each own their iteration rows.
	for _, s := range solves {
		if rows[s.Solve] != s.Iterations {
			t.Errorf("solve %d: %d iteration rows, solves.csv says %d", s.Solve, rows[s.Solve], s.Iterations)
		}
	}
}

func readCSV(t *testing.T, name string, out any) {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if err := gocsv.UnmarshalBytes(data, out); err != nil {
		t.Fatalf("parse %s: %v", filepath.Base(name), err)
	}
}

func TestRunCancelled(t *testing.T) {
	cfg := loadDefaults(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg, Options{MaxSolves: 5})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestUnknownShape(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Derived.Path.Shape = "star"
	if _, err := Run(context.Background(), cfg, Options{}); err == nil {
		t.Error("expected error for unknown shape")
	}
}
