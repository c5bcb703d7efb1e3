package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/reach/kinematics"
	"github.com/pthm-cable/reach/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Mode          string // "goal" or "path"
	Planner       bool
	Goal          r2.Vec
	EndEffector   r2.Vec
	Running       bool
	Iteration     int // index of the last displayed iteration
	MaxIterations int
	Last          *kinematics.Result // nil before the first solve
	Solves        int
	TrailMarkers  int
	FPS           int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		width:    260,
	}
}

// Draw renders the HUD in the top left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	x := r.Theme.Padding

	rl.DrawText(data.Title, x, 10, 20, rl.DarkGray)

	planner := "off"
	if data.Planner {
		planner = "on"
	}
	rl.DrawText(
		fmt.Sprintf("Mode: %s | Planner: %s | FPS: %d", data.Mode, planner, data.FPS),
		x, 35, 16, rl.Gray,
	)

	y := int32(60)
	r.DrawPanel(x-4, y-4, h.width, r.Theme.LineHeight*8+8)
	y = r.DrawLabelValue(x, y, "Goal", fmt.Sprintf("(%.2f, %.2f)", data.Goal.X, data.Goal.Y))
	y = r.DrawLabelValue(x, y, "End effector", fmt.Sprintf("(%.2f, %.2f)", data.EndEffector.X, data.EndEffector.Y))

	status := "idle"
	if data.Running {
		status = "solving"
	}
	y = r.DrawLabelValue(x, y, "Status", status)
	if data.MaxIterations > 0 {
		y = r.DrawBar(x, y, "Iteration", float32(data.Iteration), float32(data.MaxIterations), h.width-8)
	} else {
		y = r.DrawLabelValue(x, y, "Iteration", fmt.Sprintf("%d", data.Iteration))
	}

	if data.Last != nil {
		y = r.DrawColoredValue(x, y, "Last solve", data.Last.Outcome.String(), r.Theme.OutcomeColor(data.Last.Outcome))
		y = r.DrawLabelValue(x, y, "Error", fmt.Sprintf("%.4f after %d it", data.Last.Error, data.Last.Iterations))
	} else {
		y = r.DrawLabelValue(x, y, "Last solve", "-")
		y = r.DrawLabelValue(x, y, "Error", "-")
	}
	r.DrawLabelValue(x, y, "Solves", fmt.Sprintf("%d | trail %d", data.Solves, data.TrailMarkers))
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase frame timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// Draw renders the phase breakdown in the given order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases []string) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Performance", x, y, 16, rl.DarkGray)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s", stats.AvgTickDuration.Round(time.Microsecond)), x, y, 14, rl.Orange)
	y += 16
	rl.DrawText(fmt.Sprintf("Iterations/s: %.0f", stats.IterationsPerSecond), x, y, 12, rl.Gray)
	y += 14

	for _, name := range phases {
		pct := stats.PhasePct[name]
		color := rl.Gray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
