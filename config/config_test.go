package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/reach/kinematics"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(kinematics.DefaultSolverConfig(), cfg.Derived.Solver); diff != "" {
		t.Errorf("solver defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.Derived.Planner != kinematics.DefaultPlannerConfig() {
		t.Errorf("planner = %+v, want defaults", cfg.Derived.Planner)
	}
	wantJoints := []r2.Vec{{X: 0, Y: 0}, {X: 3.333, Y: 0}, {X: 6.666, Y: 0}, {X: 10, Y: 0}}
	if diff := cmp.Diff(wantJoints, cfg.Derived.Joints); diff != "" {
		t.Errorf("joints mismatch (-want +got):\n%s", diff)
	}
	if cfg.World.XMin != -10 || cfg.World.XMax != 10 || cfg.World.YMin != -10 || cfg.World.YMax != 10 {
		t.Errorf("world = %+v", cfg.World)
	}
	if cfg.Derived.Path.Shape != "square" || cfg.Derived.Path.HalfSide != 5 || cfg.Derived.Path.Step != 0.1 {
		t.Errorf("path = %+v", cfg.Derived.Path)
	}
}

func TestLoadOverlaysUserFile(t *testing.T) {
	p := writeFile(t, `
solver:
  step_size: 0.05
chain:
  joints:
    - {x: 1, y: 1}
    - {x: 1, y: 4}
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solver.StepSize != 0.05 {
		t.Errorf("step size = %v, want 0.05", cfg.Solver.StepSize)
	}
	// Unset fields keep their defaults.
	if cfg.Solver.ConvergenceThreshold != kinematics.DefaultConvergenceThreshold {
		t.Errorf("threshold = %v, want default", cfg.Solver.ConvergenceThreshold)
	}
	if diff := cmp.Diff([]r2.Vec{{X: 1, Y: 1}, {X: 1, Y: 4}}, cfg.Derived.Joints); diff != "" {
		t.Errorf("joints mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero step", "solver: {step_size: 0}"},
		{"negative threshold", "solver: {convergence_threshold: -1}"},
		{"negative cap", "solver: {max_iterations: -5}"},
		{"empty chain", "chain: {joints: []}"},
		{"flat world", "world: {x_min: 3, x_max: 3}"},
		{"unknown shape", "path: {shape: star}"},
		{"zero path step", "path: {step: 0}"},
		{"negative trail", "trail: {max_markers: -1}"},
		{"zero screen", "screen: {width: 0}"},
		{"zero perf window", "telemetry: {perf_collector_window: 0}"},
		{"nan joint", "chain: {joints: [{x: 0, y: 0}, {x: .nan, y: 1}]}"},
		{"infinite joint", "chain: {joints: [{x: 0, y: 0}, {x: 1, y: -.inf}]}"},
		{"nan offset", "planner: {vertical_offset: .nan}"},
		{"nan radius", "path: {radius: .nan}"},
		{"infinite center", "path: {center: {x: .inf, y: 0}}"},
		{"nan half side", "path: {half_side: .nan}"},
		{"nan trail lifetime", "trail: {lifetime: .nan}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.yaml))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Solver.MaxIterations = 123
	cfg.Planner.Enabled = true

	p := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(p); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Solver.MaxIterations != 123 || !got.Planner.Enabled {
		t.Errorf("reloaded solver = %+v planner = %+v", got.Solver, got.Planner)
	}
}

func TestApplyTuningKeepsSavedConfigInStep(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	solver := kinematics.SolverConfig{StepSize: 0.02, ConvergenceThreshold: 1e-5, MaxIterations: 500}
	planner := kinematics.PlannerConfig{VerticalOffset: 3.5}
	cfg.ApplyTuning(solver, planner, !cfg.Planner.Enabled)
	want := cfg.Planner.Enabled

	if diff := cmp.Diff(solver, cfg.Derived.Solver); diff != "" {
		t.Errorf("derived solver mismatch (-want +got):\n%s", diff)
	}
	if cfg.Derived.Planner != planner {
		t.Errorf("derived planner = %+v, want %+v", cfg.Derived.Planner, planner)
	}

	p := filepath.Join(t.TempDir(), "tuned.yaml")
	if err := cfg.WriteYAML(p); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(solver, got.Derived.Solver); diff != "" {
		t.Errorf("saved solver mismatch (-want +got):\n%s", diff)
	}
	if got.Planner.Enabled != want || got.Planner.VerticalOffset != 3.5 {
		t.Errorf("saved planner = %+v, want enabled %v offset 3.5", got.Planner, want)
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
