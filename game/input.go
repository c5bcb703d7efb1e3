package game

import (
	"log/slog"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/reach/ui"
)

// handleInput processes keyboard, mouse and panel input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	g.overlays.HandleKeys()

	if rl.IsKeyPressed(rl.KeySpace) {
		g.resetChain()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.togglePath()
	}
	if rl.IsKeyPressed(rl.KeyL) {
		g.tuning.Values.UsePlanner = !g.tuning.Values.UsePlanner
		g.handleTuning(true, ui.ActionNone)
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		g.showPerf = !g.showPerf
	}

	// Animation speed with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.itersPerFrame > minItersPerFrame {
		g.itersPerFrame /= 2
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.itersPerFrame < maxItersPerFrame {
		g.itersPerFrame *= 2
	}

	g.handleCameraInput()

	mouse := rl.GetMousePosition()
	overPanel := g.overlays.Enabled(ui.OverlayTuning) && g.tuning.Contains(mouse.X, mouse.Y)
	if overPanel {
		return
	}

	// The pointer is the goal; a click solves toward it.
	g.goal = g.cam.ScreenToWorld(mouse.X, mouse.Y)
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		g.solveTo(g.goal)
	}
}

// handleTuning applies panel edits. Changes take effect from the next solve.
func (g *Game) handleTuning(changed bool, action ui.TuningAction) {
	if changed {
		v := g.tuning.Values
		g.cfg.ApplyTuning(v.Solver, v.Planner, v.UsePlanner)
		slog.Debug("tuning changed",
			"step_size", v.Solver.StepSize,
			"convergence_threshold", v.Solver.ConvergenceThreshold,
			"max_iterations", v.Solver.MaxIterations,
			"vertical_offset", v.Planner.VerticalOffset,
			"planner", v.UsePlanner,
		)
	}

	switch action {
	case ui.ActionReset:
		g.resetChain()
	case ui.ActionFollowPath:
		g.togglePath()
	case ui.ActionSaveConfig:
		file := filepath.Join(g.output.Dir(), "tuned_config.yaml")
		if err := g.cfg.WriteYAML(file); err != nil {
			slog.Error("failed to save config", "error", err)
			return
		}
		slog.Info("config saved", "file", file)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.cam.Resize(w, h)
	g.tuning.SetPosition(int32(w)-290, 10)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	const panSpeed = 8 // pixels per frame

	if rl.IsKeyDown(rl.KeyRight) {
		g.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.cam.Pan(0, -panSpeed)
	}

	// Drag with the right button
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.cam.Pan(-d.X, -d.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.cam.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.cam.Reset()
	}
}
