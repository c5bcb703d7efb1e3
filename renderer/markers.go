package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/reach/camera"
	"github.com/pthm-cable/reach/components"
	"github.com/pthm-cable/reach/systems"
)

// MarkerRenderer draws the fading trail, goal and waypoint markers.
type MarkerRenderer struct{}

// NewMarkerRenderer creates a new marker renderer.
func NewMarkerRenderer() *MarkerRenderer {
	return &MarkerRenderer{}
}

// Draw renders all live markers.
func (r *MarkerRenderer) Draw(cam *camera.Camera, trail *systems.TrailSystem) {
	trail.Each(func(p r2.Vec, m components.Marker) {
		if !cam.IsVisible(p, 0.5) {
			return
		}
		fade := m.Fade()
		pos := toScreen(cam, p)

		switch m.Kind {
		case components.MarkerTrail:
			// Orange, shrinking with age
			size := 3 * fade
			if size < 0.5 {
				size = 0.5
			}
			rl.DrawCircleV(pos, size, rl.Color{R: 255, G: 150, B: 50, A: uint8(fade * 200)})
		case components.MarkerGoal:
			// Green ring
			rl.DrawCircleLinesV(pos, 6, rl.Color{R: 40, G: 160, B: 90, A: uint8(fade * 220)})
		case components.MarkerWaypoint:
			// Blue diamond
			c := rl.Color{R: 60, G: 110, B: 220, A: uint8(fade * 220)}
			rl.DrawPoly(pos, 4, 6, 0, c)
		}
	})
}
