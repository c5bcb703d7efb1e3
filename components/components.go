// Package components defines ECS components for scene markers.
package components

// MarkerKind identifies what a scene marker shows.
type MarkerKind uint8

const (
	MarkerTrail    MarkerKind = iota // past end-effector position
	MarkerGoal                       // goal a solve was started toward
	MarkerWaypoint                   // intermediate target chosen by the planner
)

// String returns the marker kind name.
func (k MarkerKind) String() string {
	switch k {
	case MarkerTrail:
		return "trail"
	case MarkerGoal:
		return "goal"
	case MarkerWaypoint:
		return "waypoint"
	default:
		return "unknown"
	}
}

// Position represents a marker's world position.
type Position struct {
	X, Y float64
}

// Marker holds marker-specific data.
type Marker struct {
	Kind    MarkerKind
	Life    float32 // seconds remaining
	MaxLife float32
}

// Fade returns the remaining life as a fraction in [0, 1].
func (m Marker) Fade() float32 {
	if m.MaxLife <= 0 {
		return 1
	}
	f := m.Life / m.MaxLife
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
