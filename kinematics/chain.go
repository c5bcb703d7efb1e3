package kinematics

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Chain is an open kinematic chain of rotators ordered from the fixed base
// (index 0) to the end effector (last index). Every rotator after index i is
// a descendant of rotator i.
type Chain struct {
	rotators []Rotator
}

// NewChain creates a chain with rotators at the given positions, base first.
func NewChain(positions ...r2.Vec) *Chain {
	c := &Chain{rotators: make([]Rotator, 0, len(positions))}
	for _, p := range positions {
		c.AddRotator(p)
	}
	return c
}

// AddRotator appends a new rotator at position. It becomes the child of the
// previous last rotator and the new end effector.
// Panics if position is not finite.
func (c *Chain) AddRotator(position r2.Vec) {
	if !finite(position) {
		panic(fmt.Sprintf("kinematics: rotator position must be finite, got %v", position))
	}
	c.rotators = append(c.rotators, Rotator{Position: position})
}

// Len returns the number of rotators in the chain.
func (c *Chain) Len() int {
	return len(c.rotators)
}

// Rotator returns a copy of the rotator at index i.
func (c *Chain) Rotator(i int) Rotator {
	c.mustIndex(i)
	return c.rotators[i]
}

// EndEffector returns the position of the last rotator.
// Panics on an empty chain.
func (c *Chain) EndEffector() r2.Vec {
	c.mustNotBeEmpty()
	return c.rotators[len(c.rotators)-1].Position
}

// Positions returns a copy of all rotator positions, base to tip.
func (c *Chain) Positions() []r2.Vec {
	out := make([]r2.Vec, len(c.rotators))
	for i, r := range c.rotators {
		out[i] = r.Position
	}
	return out
}

// Rotate turns rotator i by delta radians. Every descendant is carried
// rigidly around the pivot; the pivot itself does not move.
func (c *Chain) Rotate(i int, delta float64) {
	c.mustIndex(i)
	c.rotators[i].angle += delta

	rot := r2.NewRotation(delta, c.rotators[i].Position)
	for j := i + 1; j < len(c.rotators); j++ {
		c.rotators[j].Position = rot.Rotate(c.rotators[j].Position)
	}
}

// Reset undoes all accumulated rotation at rotator i, leaving its angle at zero.
func (c *Chain) Reset(i int) {
	c.mustIndex(i)
	c.Rotate(i, -c.rotators[i].angle)
}

// ResetAll resets every rotator, restoring the pose the chain was built with.
// Each reset only moves descendants of its own joint, so any order works.
func (c *Chain) ResetAll() {
	for i := len(c.rotators) - 1; i >= 0; i-- {
		c.Reset(i)
	}
}

// JacobianColumn returns the Jacobian-transpose column for rotator i against
// the current end effector. See Rotator.Jacobian.
func (c *Chain) JacobianColumn(i int) (r2.Vec, bool) {
	c.mustIndex(i)
	return c.rotators[i].Jacobian(c.EndEffector())
}

func (c *Chain) mustNotBeEmpty() {
	if len(c.rotators) == 0 {
		panic("kinematics: chain has no rotators")
	}
}

func (c *Chain) mustIndex(i int) {
	if i < 0 || i >= len(c.rotators) {
		panic(fmt.Sprintf("kinematics: rotator index %d out of range [0, %d)", i, len(c.rotators)))
	}
}
