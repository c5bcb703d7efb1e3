// Package renderer draws the chain and scene markers with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/reach/camera"
	"github.com/pthm-cable/reach/kinematics"
)

// ChainRenderer draws joints, links and the current goal.
type ChainRenderer struct {
	JointRadius float32 // pixels
	LinkWidth   float32 // pixels

	LinkColor     rl.Color
	JointColor    rl.Color
	EffectorColor rl.Color
	GoalColor     rl.Color
}

// NewChainRenderer creates a chain renderer with the default palette.
func NewChainRenderer() *ChainRenderer {
	return &ChainRenderer{
		JointRadius:   5,
		LinkWidth:     3,
		LinkColor:     rl.Color{R: 70, G: 80, B: 95, A: 255},
		JointColor:    rl.Color{R: 230, G: 40, B: 40, A: 255},
		EffectorColor: rl.Color{R: 255, G: 170, B: 30, A: 255},
		GoalColor:     rl.Color{R: 40, G: 160, B: 90, A: 255},
	}
}

// Draw renders the chain pose, base first.
func (r *ChainRenderer) Draw(cam *camera.Camera, positions []r2.Vec) {
	if len(positions) == 0 {
		return
	}

	for i := 1; i < len(positions); i++ {
		rl.DrawLineEx(toScreen(cam, positions[i-1]), toScreen(cam, positions[i]), r.LinkWidth, r.LinkColor)
	}

	for i, p := range positions {
		color := r.JointColor
		if i == len(positions)-1 {
			color = r.EffectorColor
		}
		rl.DrawCircleV(toScreen(cam, p), r.JointRadius, color)
	}

	// Fixed base
	base := toScreen(cam, positions[0])
	rl.DrawRectangleV(rl.Vector2{X: base.X - r.JointRadius, Y: base.Y + r.JointRadius},
		rl.Vector2{X: 2 * r.JointRadius, Y: r.JointRadius}, r.LinkColor)
}

// DrawGoal renders a crosshair at the goal.
func (r *ChainRenderer) DrawGoal(cam *camera.Camera, goal r2.Vec) {
	g := toScreen(cam, goal)
	size := r.JointRadius * 2
	rl.DrawLineEx(rl.Vector2{X: g.X - size, Y: g.Y}, rl.Vector2{X: g.X + size, Y: g.Y}, 2, r.GoalColor)
	rl.DrawLineEx(rl.Vector2{X: g.X, Y: g.Y - size}, rl.Vector2{X: g.X, Y: g.Y + size}, 2, r.GoalColor)
	rl.DrawCircleLinesV(g, size*0.6, r.GoalColor)
}

// DrawReach renders the circle the end effector can reach from the base.
func (r *ChainRenderer) DrawReach(cam *camera.Camera, base r2.Vec, reach float64) {
	c := toScreen(cam, base)
	rl.DrawCircleLinesV(c, float32(reach)*cam.PixelsPerUnit(), rl.Color{R: 70, G: 80, B: 95, A: 60})
}

// DrawJacobian draws each joint's Jacobian column as a unit arrow scaled to
// length world units. Degenerate columns are drawn as a hollow joint.
func (r *ChainRenderer) DrawJacobian(cam *camera.Camera, chain *kinematics.Chain, length float64) {
	if chain.Len() < 2 {
		return
	}
	color := rl.Color{R: 120, G: 170, B: 255, A: 200}
	for i := 0; i < chain.Len()-1; i++ {
		from := chain.Rotator(i).Position
		col, ok := chain.JacobianColumn(i)
		if !ok {
			rl.DrawCircleLinesV(toScreen(cam, from), r.JointRadius*2, color)
			continue
		}
		to := r2.Add(from, r2.Scale(length, col))
		rl.DrawLineEx(toScreen(cam, from), toScreen(cam, to), 2, color)
		rl.DrawCircleV(toScreen(cam, to), 2, color)
	}
}

func toScreen(cam *camera.Camera, p r2.Vec) rl.Vector2 {
	x, y := cam.WorldToScreen(p)
	return rl.Vector2{X: x, Y: y}
}
