package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/reach/kinematics"
)

// TuningAction is a button press reported by the tuning panel.
type TuningAction int

const (
	ActionNone TuningAction = iota
	ActionReset
	ActionFollowPath
	ActionSaveConfig
)

const tuningPanelHeight int32 = 330

// TuningValues are the solver parameters editable at runtime.
type TuningValues struct {
	Solver     kinematics.SolverConfig
	Planner    kinematics.PlannerConfig
	UsePlanner bool
}

// TuningPanel edits solver and planner parameters with raygui sliders.
// Step size, threshold and the iteration cap are edited on a log10 scale.
type TuningPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32

	Values    TuningValues
	defaults  TuningValues
	Following bool // path mode is active; drives the follow button text
}

// NewTuningPanel creates a panel starting from (and resetting to) values.
func NewTuningPanel(x, y, width int32, values TuningValues) *TuningPanel {
	return &TuningPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		Values:   values,
		defaults: values,
	}
}

// SetPosition updates the panel position.
func (p *TuningPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Contains reports whether the screen point lies on the panel.
func (p *TuningPanel) Contains(x, y float32) bool {
	return x >= float32(p.x) && x < float32(p.x+p.width) &&
		y >= float32(p.y) && y < float32(p.y+tuningPanelHeight)
}

// Draw renders the panel. It reports whether any value changed and which
// button, if any, was pressed.
func (p *TuningPanel) Draw() (changed bool, action TuningAction) {
	r := p.renderer
	padding := r.Theme.Padding
	r.DrawPanel(p.x, p.y, p.width, tuningPanelHeight)

	x := float32(p.x + padding)
	y := float32(p.y + padding)
	sliderW := float32(p.width - padding*2 - 70)

	rl.DrawText("Solver", int32(x), int32(y), 16, rl.White)
	y += 24

	slider := func(label, value string, cur, min, max float32) float32 {
		rl.DrawText(label, int32(x), int32(y), r.Theme.FontSize, r.Theme.Label)
		y += 14
		next := gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 16}, "", "", cur, min, max)
		rl.DrawText(value, int32(x+sliderW+8), int32(y+2), r.Theme.FontSize, r.Theme.Value)
		y += 26
		return next
	}

	v := &p.Values

	step := float32(math.Log10(v.Solver.StepSize))
	if next := slider("Step size", fmt.Sprintf("%.4f", v.Solver.StepSize), step, -3, -0.5); next != step {
		v.Solver.StepSize = math.Pow(10, float64(next))
		changed = true
	}

	thr := float32(math.Log10(v.Solver.ConvergenceThreshold))
	if next := slider("Convergence threshold", fmt.Sprintf("%.0e", v.Solver.ConvergenceThreshold), thr, -7, -1); next != thr {
		v.Solver.ConvergenceThreshold = math.Pow(10, float64(next))
		changed = true
	}

	capLog := float32(5)
	capText := "none"
	if v.Solver.MaxIterations > 0 {
		capLog = float32(math.Log10(float64(v.Solver.MaxIterations)))
		capText = fmt.Sprintf("%d", v.Solver.MaxIterations)
	}
	if next := slider("Max iterations", capText, capLog, 1, 5); next != capLog {
		v.Solver.MaxIterations = int(math.Round(math.Pow(10, float64(next))))
		changed = true
	}

	offset := float32(v.Planner.VerticalOffset)
	if next := slider("Planner vertical offset", fmt.Sprintf("%.2f", v.Planner.VerticalOffset), offset, 0, 6); next != offset {
		v.Planner.VerticalOffset = float64(next)
		changed = true
	}

	y += 4
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 28}, toggleText(v.UsePlanner, "Planner: on", "Planner: off")) {
		v.UsePlanner = !v.UsePlanner
		changed = true
	}
	if gui.Button(rl.Rectangle{X: x + 130, Y: y, Width: 120, Height: 28}, toggleText(p.Following, "Stop Path", "Follow Path")) {
		action = ActionFollowPath
	}
	y += 38

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 28}, "Reset Chain") {
		action = ActionReset
	}
	if gui.Button(rl.Rectangle{X: x + 130, Y: y, Width: 120, Height: 28}, "Save Config") {
		action = ActionSaveConfig
	}
	y += 38

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 250, Height: 24}, "Restore Defaults") {
		p.Values = p.defaults
		changed = true
	}

	return changed, action
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
