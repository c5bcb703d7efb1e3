package game

import (
	"log/slog"

	"github.com/pthm-cable/reach/kinematics"
	"github.com/pthm-cable/reach/telemetry"
)

// recordSolve writes the finished solve and its iterations, and flushes the
// summary window when it is full.
func (g *Game) recordSolve(res kinematics.Result) {
	if err := g.output.WriteIterations(g.collector.DrainIterations()); err != nil {
		slog.Error("failed to write iterations", "error", err)
	}
	if err := g.output.WriteSolve(g.collector.RecordSolve(res)); err != nil {
		slog.Error("failed to write solve", "error", err)
	}

	if !g.collector.ShouldFlush() {
		return
	}
	summary := g.collector.Flush()
	summary.LogStats()
	if err := g.output.WriteSummary(summary); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
}

// flushPerf writes frame timings once per perf window.
func (g *Game) flushPerf() {
	if g.frame%int32(g.cfg.Telemetry.PerfCollectorWindow) != 0 {
		return
	}
	stats := g.perf.Stats()
	if g.showPerf {
		stats.LogStats()
	}
	if err := g.output.WritePerf(stats, g.frame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// phases lists the perf phases shown in the perf panel.
var phases = telemetry.Phases()
