package kinematics

import (
	"context"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultVerticalOffset is how far above the higher of the current end
// effector and the goal the intermediate waypoint is placed.
const DefaultVerticalOffset = 2.0

// PlannerConfig holds the two-hop path heuristic tunables.
type PlannerConfig struct {
	VerticalOffset float64
}

// DefaultPlannerConfig returns the reference planner configuration.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{VerticalOffset: DefaultVerticalOffset}
}

// Waypoint returns the intermediate target between current and goal: midway
// in x, offset above the higher of the two in y.
func Waypoint(current, goal r2.Vec, offset float64) r2.Vec {
	return r2.Vec{
		X: (current.X + goal.X) / 2,
		Y: math.Max(current.Y, goal.Y) + offset,
	}
}

// CreatePath solves to a single waypoint above the straight route and then to
// goal. Some goals are unreachable for a direct Jacobian-transpose pursuit
// because it would fold the chain through a singular pose; lifting it first
// usually avoids that. It has no obstacle awareness.
//
// Results are returned for every solve that ran. The goal solve is skipped if
// the waypoint solve returned an error.
func (c *Chain) CreatePath(ctx context.Context, goal r2.Vec, solver SolverConfig, planner PlannerConfig, obs Observer) ([]Result, error) {
	c.mustNotBeEmpty()

	waypoint := Waypoint(c.EndEffector(), goal, planner.VerticalOffset)
	first, err := c.Solve(ctx, waypoint, solver, obs)
	if err != nil {
		return []Result{first}, err
	}

	second, err := c.Solve(ctx, goal, solver, obs)
	return []Result{first, second}, err
}
