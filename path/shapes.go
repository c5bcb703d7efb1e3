package path

import (
	"iter"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Shape names accepted by Named.
const (
	ShapeSquare = "square"
	ShapeCircle = "circle"
)

// Square returns the four sides of an axis-aligned square centred on the
// origin, each parameterised over t in [0, 2·halfSide). The sides run
// counter-clockwise starting from the top-right corner.
func Square(halfSide float64) []Func {
	h := halfSide
	return []Func{
		func(t float64) r2.Vec { return r2.Vec{X: -t + h, Y: h} },
		func(t float64) r2.Vec { return r2.Vec{X: -h, Y: -t + h} },
		func(t float64) r2.Vec { return r2.Vec{X: t - h, Y: -h} },
		func(t float64) r2.Vec { return r2.Vec{X: h, Y: t - h} },
	}
}

// Circle returns a counter-clockwise circle parameterised over t in [0, 2π).
func Circle(center r2.Vec, radius float64) Func {
	return func(t float64) r2.Vec {
		return r2.Add(center, r2.Vec{X: radius * math.Cos(t), Y: radius * math.Sin(t)})
	}
}

// Spec describes a built-in shape and how densely to sample it.
type Spec struct {
	Shape    string
	HalfSide float64 // square
	Center   r2.Vec  // circle
	Radius   float64 // circle
	Step     float64
}

// Named samples a built-in shape. Squares sample each side over
// [0, 2·HalfSide), circles over [0, 2π). ok is false for unknown shapes.
func Named(s Spec) (seq iter.Seq[r2.Vec], ok bool) {
	switch s.Shape {
	case ShapeSquare:
		sides := Square(s.HalfSide)
		seqs := make([]iter.Seq[r2.Vec], len(sides))
		for i, f := range sides {
			seqs[i] = Generate(f, 0, 2*s.HalfSide, s.Step)
		}
		return Concat(seqs...), true
	case ShapeCircle:
		return Generate(Circle(s.Center, s.Radius), 0, 2*math.Pi, s.Step), true
	default:
		return nil, false
	}
}
