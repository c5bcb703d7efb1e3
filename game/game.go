// Package game is the interactive playground: a window where the chain
// chases the pointer, solves are animated one iteration per frame and the
// end effector leaves a fading trail.
package game

import (
	"context"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/reach/animate"
	"github.com/pthm-cable/reach/camera"
	"github.com/pthm-cable/reach/config"
	"github.com/pthm-cable/reach/kinematics"
	"github.com/pthm-cable/reach/renderer"
	"github.com/pthm-cable/reach/systems"
	"github.com/pthm-cable/reach/telemetry"
	"github.com/pthm-cable/reach/ui"
)

// Animation speed bounds, in solver iterations shown per frame.
const (
	minItersPerFrame = 1
	maxItersPerFrame = 4096
)

// summaryWindow is the number of solves per logged summary.
const summaryWindow = 20

// Options configures the game.
type Options struct {
	OutputDir  string // CSV telemetry directory; empty disables output
	UsePlanner bool   // start with the waypoint planner enabled
}

// Game holds the complete playground state.
type Game struct {
	cfg *config.Config
	ctx context.Context

	chain    *kinematics.Chain
	animator *animate.Animator
	reach    float64 // sum of link lengths

	// Pending solve targets; the head is solved next.
	targets    []r2.Vec
	pathNext   func() (r2.Vec, bool)
	pathStop   func()
	following  bool
	goal       r2.Vec // pointer goal
	activeGoal r2.Vec // goal of the solve being shown

	// Pose shown this frame; lags the chain while a solve is animated.
	pose          []r2.Vec
	lastIteration int
	last          *kinematics.Result
	solves        int
	itersPerFrame int

	world *ecs.World
	trail *systems.TrailSystem

	cam            *camera.Camera
	grid           *renderer.GridRenderer
	chainRenderer  *renderer.ChainRenderer
	markerRenderer *renderer.MarkerRenderer
	hud            *ui.HUD
	overlays       *ui.Overlays
	tuning         *ui.TuningPanel
	perfPanel      *ui.PerfPanel
	showPerf       bool

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	frame     int32

	screenWidth, screenHeight float32
}

// NewGame creates the playground from cfg. The raylib window must already be
// open.
func NewGame(ctx context.Context, cfg *config.Config, opts Options) (*Game, error) {
	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	world := ecs.NewWorld()

	chain := kinematics.NewChain(cfg.Derived.Joints...)
	g := &Game{
		cfg:            cfg,
		ctx:            ctx,
		chain:          chain,
		animator:       animate.New(),
		reach:          linkLength(chain.Positions()),
		pose:           chain.Positions(),
		goal:           chain.EndEffector(),
		activeGoal:     chain.EndEffector(),
		itersPerFrame:  minItersPerFrame,
		world:          world,
		trail:          systems.NewTrailSystem(world, cfg.Trail.MaxMarkers, float32(cfg.Trail.Lifetime)),
		cam:            camera.New(w, h, cfg.World.XMin, cfg.World.XMax, cfg.World.YMin, cfg.World.YMax),
		grid:           renderer.NewGridRenderer(),
		chainRenderer:  renderer.NewChainRenderer(),
		markerRenderer: renderer.NewMarkerRenderer(),
		hud:            ui.NewHUD(),
		overlays:       ui.NewOverlays(),
		tuning: ui.NewTuningPanel(int32(w)-290, 10, 280, ui.TuningValues{
			Solver:     cfg.Derived.Solver,
			Planner:    cfg.Derived.Planner,
			UsePlanner: opts.UsePlanner || cfg.Planner.Enabled,
		}),
		perfPanel:    ui.NewPerfPanel(10, 240),
		collector:    telemetry.NewCollector(summaryWindow, cfg.Telemetry.RecordIterations),
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:       output,
		screenWidth:  w,
		screenHeight: h,
	}

	slog.Info("playground ready",
		"joints", chain.Len(),
		"reach", g.reach,
		"step_size", cfg.Derived.Solver.StepSize,
		"convergence_threshold", cfg.Derived.Solver.ConvergenceThreshold,
		"max_iterations", cfg.Derived.Solver.MaxIterations,
	)
	return g, nil
}

// Update advances one frame: input, animation, trail ageing and telemetry.
func (g *Game) Update() {
	g.frame++
	g.perf.RecordFrame()
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseInput)
	g.handleInput()

	g.perf.StartPhase(telemetry.PhaseSolve)
	g.stepAnimation()

	g.perf.StartPhase(telemetry.PhaseTrail)
	g.trail.Update(rl.GetFrameTime())
}

// Unload stops any running solve and closes telemetry output.
func (g *Game) Unload() {
	g.animator.Stop()
	g.stopPath()
	if summary := g.collector.Flush(); summary.Solves > 0 {
		summary.LogStats()
		if err := g.output.WriteSummary(summary); err != nil {
			slog.Error("failed to write summary", "error", err)
		}
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close telemetry output", "error", err)
	}
}

// linkLength sums the distances between consecutive positions.
func linkLength(positions []r2.Vec) float64 {
	var total float64
	for i := 1; i < len(positions); i++ {
		total += r2.Norm(r2.Sub(positions[i], positions[i-1]))
	}
	return total
}
