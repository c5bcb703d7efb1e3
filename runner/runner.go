// Package runner drives a chain along the configured path without a window,
// writing telemetry and an optional plot.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/multierr"

	"github.com/pthm-cable/reach/config"
	"github.com/pthm-cable/reach/kinematics"
	"github.com/pthm-cable/reach/path"
	"github.com/pthm-cable/reach/renderer/traceplot"
	"github.com/pthm-cable/reach/telemetry"
)

// summaryWindow is the number of solves per logged summary.
const summaryWindow = 100

// Options controls a headless run.
type Options struct {
	OutputDir  string // telemetry directory; empty disables CSV output
	PlotFile   string // image written at the end; empty disables plotting
	MaxSolves  int    // stop after this many path points; 0 = one pass of the shape
	UsePlanner bool   // route every point through the waypoint planner
	PoseEvery  int    // plot one chain pose per this many iterations
}

// Run follows the configured path once (or for MaxSolves points when the path
// loops) and returns the follow statistics.
func Run(ctx context.Context, cfg *config.Config, opts Options) (stats path.FollowStats, err error) {
	chain := kinematics.NewChain(cfg.Derived.Joints...)

	points, ok := path.Named(cfg.Derived.Path)
	if !ok {
		return stats, fmt.Errorf("unknown path shape %q", cfg.Path.Shape)
	}
	if cfg.Path.Loop && opts.MaxSolves > 0 {
		points = path.Repeat(points)
	}
	if opts.MaxSolves > 0 {
		points = path.Take(points, opts.MaxSolves)
	}

	out, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return stats, err
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()
	if err := out.WriteConfig(cfg); err != nil {
		return stats, err
	}

	collector := telemetry.NewCollector(summaryWindow, cfg.Telemetry.RecordIterations)
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	var recorder *traceplot.Recorder
	if opts.PlotFile != "" {
		poseEvery := opts.PoseEvery
		if poseEvery <= 0 {
			poseEvery = 200
		}
		recorder = traceplot.NewRecorder(poseEvery)
		recorder.AddPose(chain.Positions())
	}

	var writeErr error
	onSolve := func(point int, res kinematics.Result) {
		perf.AddIterations(res.Iterations)
		perf.StartPhase(telemetry.PhaseTelemetry)
		if res.Outcome != kinematics.Converged {
			slog.Warn("solve did not converge", "point", point, "result", res)
		}

		writeErr = multierr.Append(writeErr, out.WriteIterations(collector.DrainIterations()))
		writeErr = multierr.Append(writeErr, out.WriteSolve(collector.RecordSolve(res)))
		if collector.ShouldFlush() {
			summary := collector.Flush()
			summary.LogStats()
			writeErr = multierr.Append(writeErr, out.WriteSummary(summary))
		}
		perf.EndTick()

		if n := collector.Solves(); n%cfg.Telemetry.PerfCollectorWindow == 0 {
			writeErr = multierr.Append(writeErr, out.WritePerf(perf.Stats(), int32(n)))
		}
		perf.StartTick()
		perf.StartPhase(telemetry.PhaseSolve)
	}

	var observer kinematics.Observer = collector
	if recorder != nil {
		observer = kinematics.Observers(collector, recorder)
	}

	perf.StartTick()
	perf.StartPhase(telemetry.PhaseSolve)
	stats, err = path.Follow(ctx, chain, points, path.FollowOptions{
		Solver:     cfg.Derived.Solver,
		Planner:    cfg.Derived.Planner,
		UsePlanner: opts.UsePlanner,
		Observer:   observer,
		OnSolve:    onSolve,
	})
	slog.Info("path finished", "stats", stats)

	if summary := collector.Flush(); summary.Solves > 0 {
		summary.LogStats()
		writeErr = multierr.Append(writeErr, out.WriteSummary(summary))
	}
	if err != nil {
		return stats, multierr.Append(err, writeErr)
	}
	if writeErr != nil {
		return stats, writeErr
	}

	if recorder != nil {
		recorder.AddPose(chain.Positions())
		b := traceplot.Bounds{XMin: cfg.World.XMin, XMax: cfg.World.XMax, YMin: cfg.World.YMin, YMax: cfg.World.YMax}
		title := fmt.Sprintf("%s path, %d solves", cfg.Path.Shape, stats.Solves)
		if err := recorder.Save(opts.PlotFile, title, b); err != nil {
			return stats, err
		}
		slog.Info("plot written", "file", opts.PlotFile)
	}
	return stats, nil
}
