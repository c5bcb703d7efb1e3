package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/reach/telemetry"
	"github.com/pthm-cable/reach/ui"
)

const controlsText = "Click: solve | Space: reset | P: path | L: planner | ,/.: speed | G R T J Tab: overlays | F3: perf"

// Draw renders the frame and closes the perf tick opened by Update.
func (g *Game) Draw() {
	g.perf.StartPhase(telemetry.PhaseRender)
	rl.BeginDrawing()

	if g.overlays.Enabled(ui.OverlayGrid) {
		g.grid.Draw(g.cam)
	} else {
		rl.ClearBackground(g.grid.Background)
	}

	if g.overlays.Enabled(ui.OverlayReach) && len(g.pose) > 0 {
		g.chainRenderer.DrawReach(g.cam, g.pose[0], g.reach)
	}
	if g.overlays.Enabled(ui.OverlayTrail) {
		g.markerRenderer.Draw(g.cam, g.trail)
	}

	g.chainRenderer.Draw(g.cam, g.pose)
	// The chain is only safe to read between solves.
	if g.overlays.Enabled(ui.OverlayJacobian) && !g.animator.Running() {
		g.chainRenderer.DrawJacobian(g.cam, g.chain, 1.5)
	}
	g.chainRenderer.DrawGoal(g.cam, g.goal)

	g.drawUI()

	rl.EndDrawing()

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushPerf()
	g.perf.EndTick()
}

func (g *Game) drawUI() {
	mode := "goal"
	if g.following {
		mode = "path"
	}
	ee := g.activeGoal
	if len(g.pose) > 0 {
		ee = g.pose[len(g.pose)-1]
	}

	g.hud.Draw(ui.HUDData{
		Title:         "Reach",
		Mode:          fmt.Sprintf("%s x%d", mode, g.itersPerFrame),
		Planner:       g.tuning.Values.UsePlanner,
		Goal:          g.activeGoal,
		EndEffector:   ee,
		Running:       g.animator.Running(),
		Iteration:     g.lastIteration,
		MaxIterations: g.tuning.Values.Solver.MaxIterations,
		Last:          g.last,
		Solves:        g.solves,
		TrailMarkers:  g.trail.TrailCount(),
		FPS:           rl.GetFPS(),
	})

	if g.showPerf {
		g.perfPanel.Draw(g.perf.Stats(), phases)
	}

	if g.overlays.Enabled(ui.OverlayTuning) {
		g.handleTuning(g.tuning.Draw())
		g.overlays.DrawPanel(10, int32(g.screenHeight)-40, 200)
	}

	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight), controlsText)
}
