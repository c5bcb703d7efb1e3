// Package path samples parametric curves into goal sequences and drives a
// chain along them.
package path

import (
	"fmt"
	"iter"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Func maps a curve parameter to a point in world coordinates.
type Func func(t float64) r2.Vec

// Generate returns the points f(tStart + k·step) for k = 0, 1, ... while the
// parameter stays below tEnd. The sequence can be ranged over any number of
// times and always yields the same points.
//
// Panics if step is not positive or either bound is not finite.
func Generate(f Func, tStart, tEnd, step float64) iter.Seq[r2.Vec] {
	mustSampling(tStart, tEnd, step)
	return func(yield func(r2.Vec) bool) {
		for k := 0; ; k++ {
			t := tStart + float64(k)*step
			if t >= tEnd {
				return
			}
			if !yield(f(t)) {
				return
			}
		}
	}
}

// Points collects Generate into a slice.
func Points(f Func, tStart, tEnd, step float64) []r2.Vec {
	var out []r2.Vec
	for p := range Generate(f, tStart, tEnd, step) {
		out = append(out, p)
	}
	return out
}

// Concat yields every point of each sequence in order.
func Concat(seqs ...iter.Seq[r2.Vec]) iter.Seq[r2.Vec] {
	return func(yield func(r2.Vec) bool) {
		for _, seq := range seqs {
			for p := range seq {
				if !yield(p) {
					return
				}
			}
		}
	}
}

// Repeat yields seq over and over until the consumer stops. An empty seq
// yields nothing.
func Repeat(seq iter.Seq[r2.Vec]) iter.Seq[r2.Vec] {
	return func(yield func(r2.Vec) bool) {
		for {
			empty := true
			for p := range seq {
				empty = false
				if !yield(p) {
					return
				}
			}
			if empty {
				return
			}
		}
	}
}

// Take yields at most n points of seq.
func Take(seq iter.Seq[r2.Vec], n int) iter.Seq[r2.Vec] {
	return func(yield func(r2.Vec) bool) {
		if n <= 0 {
			return
		}
		i := 0
		for p := range seq {
			if !yield(p) {
				return
			}
			i++
			if i >= n {
				return
			}
		}
	}
}

func mustSampling(tStart, tEnd, step float64) {
	if !(step > 0) || math.IsInf(step, 0) {
		panic(fmt.Sprintf("path: step must be positive and finite, got %v", step))
	}
	if math.IsNaN(tStart) || math.IsInf(tStart, 0) || math.IsNaN(tEnd) || math.IsInf(tEnd, 0) {
		panic(fmt.Sprintf("path: bounds must be finite, got [%v, %v)", tStart, tEnd))
	}
}
