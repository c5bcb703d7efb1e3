// Package kinematics models a planar chain of revolute joints and steers its
// end effector toward a goal with the Jacobian-transpose method.
package kinematics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DegenerateEpsilon is the joint-to-end-effector distance at or below which a
// Jacobian column is treated as undefined.
const DegenerateEpsilon = 1e-12

// Rotator is a single revolute joint in a chain.
type Rotator struct {
	// Position is the joint pivot in world coordinates.
	Position r2.Vec

	// angle is the net rotation applied at this joint since construction
	// or the last reset.
	angle float64
}

// Angle returns the accumulated rotation at this joint in radians.
func (r Rotator) Angle() float64 {
	return r.angle
}

// Jacobian returns this joint's column of the Jacobian transpose with respect
// to the given end-effector position: the unit vector perpendicular to the
// joint-to-effector slope, following the right-hand rule.
// Returns false and a zero vector when the joint coincides with the end effector.
func (r Rotator) Jacobian(endEffector r2.Vec) (r2.Vec, bool) {
	slope := r2.Sub(endEffector, r.Position)
	norm := r2.Norm(slope)
	if norm <= DegenerateEpsilon || math.IsNaN(norm) {
		return r2.Vec{}, false
	}
	return r2.Vec{X: -slope.Y / norm, Y: slope.X / norm}, true
}

// finite reports whether both coordinates of v are finite.
func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
