package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID identifies a toggleable scene or solver overlay.
type OverlayID string

const (
	OverlayGrid     OverlayID = "grid"
	OverlayReach    OverlayID = "reach"
	OverlayTrail    OverlayID = "trail"
	OverlayJacobian OverlayID = "jacobian"
	OverlayTuning   OverlayID = "tuning"
)

// Overlay is one toggle: its key binding, grouping and state.
type Overlay struct {
	ID       OverlayID
	Name     string
	Key      int32
	KeyLabel string
	Group    string
	Enabled  bool
}

// Overlays is the ordered set of overlay toggles.
type Overlays struct {
	list     []Overlay
	renderer *Renderer
}

// NewOverlays returns the playground overlays with their startup state.
func NewOverlays() *Overlays {
	return &Overlays{renderer: NewRenderer(), list: []Overlay{
		{ID: OverlayGrid, Name: "Grid", Key: rl.KeyG, KeyLabel: "G", Group: "Scene", Enabled: true},
		{ID: OverlayReach, Name: "Reach", Key: rl.KeyR, KeyLabel: "R", Group: "Scene", Enabled: true},
		{ID: OverlayTrail, Name: "Trail", Key: rl.KeyT, KeyLabel: "T", Group: "Scene", Enabled: true},
		{ID: OverlayJacobian, Name: "Jacobian columns", Key: rl.KeyJ, KeyLabel: "J", Group: "Solver"},
		{ID: OverlayTuning, Name: "Tuning panel", Key: rl.KeyTab, KeyLabel: "Tab", Group: "Solver", Enabled: true},
	}}
}

// Enabled reports whether the overlay is on. Unknown IDs are off.
func (o *Overlays) Enabled(id OverlayID) bool {
	for _, ov := range o.list {
		if ov.ID == id {
			return ov.Enabled
		}
	}
	return false
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (o *Overlays) HandleKeys() {
	for i := range o.list {
		if rl.IsKeyPressed(o.list[i].Key) {
			o.list[i].Enabled = !o.list[i].Enabled
		}
	}
}

// DrawPanel lists the overlays by group with its bottom edge at bottom.
func (o *Overlays) DrawPanel(x, bottom, width int32) {
	r := o.renderer
	t := r.Theme
	groups := 0
	for i, ov := range o.list {
		if i == 0 || ov.Group != o.list[i-1].Group {
			groups++
		}
	}
	height := int32(len(o.list)+groups+1)*t.LineHeight + t.Padding*2 + int32(groups)*4
	y := bottom - height
	r.DrawPanel(x, y, width, height)

	lx := x + t.Padding
	ly := r.DrawHeader(lx, y+t.Padding, "Overlays")
	for i, ov := range o.list {
		if i == 0 || ov.Group != o.list[i-1].Group {
			if i > 0 {
				ly += 4
			}
			rl.DrawText(ov.Group, lx, ly, t.FontSize, t.Muted)
			ly += t.LineHeight
		}

		dot, name := t.BarBg, t.Label
		if ov.Enabled {
			dot, name = t.BarOK, t.Value
		}
		rl.DrawRectangle(lx, ly+2, 8, 8, dot)
		rl.DrawText(ov.Name, lx+14, ly, t.FontSize, name)

		key := fmt.Sprintf("[%s]", ov.KeyLabel)
		rl.DrawText(key, x+width-t.Padding-rl.MeasureText(key, t.FontSize), ly, t.FontSize, t.Muted)
		ly += t.LineHeight
	}
}
