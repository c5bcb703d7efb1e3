// Package ui draws the playground HUD, overlay toggles and the solver tuning
// panel on top of the scene.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/reach/kinematics"
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg     rl.Color
	PanelBorder rl.Color
	Header      rl.Color
	Label       rl.Color
	Value       rl.Color
	Muted       rl.Color

	BarBg rl.Color
	// Bar fill by ratio: below half, below 90%, above.
	BarOK, BarWarn, BarFull rl.Color

	// Outcome text colours, indexed by kinematics.Outcome.
	Outcomes map[kinematics.Outcome]rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme: dark panels over the light
// Cartesian grid.
func DefaultTheme() Theme {
	ok := rl.Color{R: 100, G: 200, B: 100, A: 255}
	warn := rl.Color{R: 220, G: 180, B: 90, A: 255}
	bad := rl.Color{R: 220, G: 100, B: 100, A: 255}
	return Theme{
		PanelBg:     rl.Color{R: 20, G: 25, B: 30, A: 230},
		PanelBorder: rl.Color{R: 60, G: 70, B: 80, A: 255},
		Header:      rl.Yellow,
		Label:       rl.LightGray,
		Value:       rl.RayWhite,
		Muted:       rl.Color{R: 150, G: 150, B: 150, A: 255},
		BarBg:       rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarOK:       ok,
		BarWarn:     warn,
		BarFull:     bad,
		Outcomes: map[kinematics.Outcome]rl.Color{
			kinematics.Converged:            ok,
			kinematics.MaxIterationsReached: warn,
			kinematics.Degenerate:           bad,
			kinematics.Cancelled:            rl.Color{R: 150, G: 150, B: 150, A: 255},
		},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// OutcomeColor returns the text colour for a solve outcome.
func (t Theme) OutcomeColor(o kinematics.Outcome) rl.Color {
	if c, ok := t.Outcomes[o]; ok {
		return c
	}
	return t.Value
}

// barColor picks the fill for a ratio in [0, 1].
func (t Theme) barColor(ratio float32) rl.Color {
	switch {
	case ratio > 0.9:
		return t.BarFull
	case ratio > 0.5:
		return t.BarWarn
	default:
		return t.BarOK
	}
}
