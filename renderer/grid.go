package renderer

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/reach/camera"
)

// GridRenderer draws Cartesian axes and unit grid lines behind the scene.
type GridRenderer struct {
	Background rl.Color
	LineColor  rl.Color
	AxisColor  rl.Color
	LabelColor rl.Color
}

// NewGridRenderer creates a grid renderer with the default palette.
func NewGridRenderer() *GridRenderer {
	return &GridRenderer{
		Background: rl.Color{R: 250, G: 250, B: 248, A: 255},
		LineColor:  rl.Color{R: 225, G: 228, B: 232, A: 255},
		AxisColor:  rl.Color{R: 150, G: 155, B: 165, A: 255},
		LabelColor: rl.Color{R: 150, G: 155, B: 165, A: 255},
	}
}

// Draw clears the screen and renders the grid for the visible bounds.
func (g *GridRenderer) Draw(cam *camera.Camera) {
	rl.ClearBackground(g.Background)

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	spacing := gridSpacing(maxX - minX)

	for x := math.Ceil(minX/spacing) * spacing; x <= maxX; x += spacing {
		color := g.LineColor
		if math.Abs(x) < spacing/2 {
			color = g.AxisColor
		}
		rl.DrawLineV(toScreen(cam, r2.Vec{X: x, Y: minY}), toScreen(cam, r2.Vec{X: x, Y: maxY}), color)
	}
	for y := math.Ceil(minY/spacing) * spacing; y <= maxY; y += spacing {
		color := g.LineColor
		if math.Abs(y) < spacing/2 {
			color = g.AxisColor
		}
		rl.DrawLineV(toScreen(cam, r2.Vec{X: minX, Y: y}), toScreen(cam, r2.Vec{X: maxX, Y: y}), color)
	}

	// Axis extent labels
	o := toScreen(cam, r2.Vec{})
	rl.DrawText(fmt.Sprintf("%.0f", maxX), int32(cam.ViewportW)-30, int32(o.Y)+4, 10, g.LabelColor)
	rl.DrawText(fmt.Sprintf("%.0f", maxY), int32(o.X)+4, 4, 10, g.LabelColor)
}

// gridSpacing picks 1, 2 or 5 times a power of ten so roughly ten lines span
// the visible width.
func gridSpacing(span float64) float64 {
	raw := span / 10
	if raw <= 0 {
		return 1
	}
	pow := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5} {
		if raw <= m*pow {
			return m * pow
		}
	}
	return 10 * pow
}
