package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Elem returns a vector with both components set to side.
func Elem(side float64) r2.Vec {
	return r2.Vec{X: side, Y: side}
}

// EqualWithin reports whether a and b are within tol of each other component-wise.
func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

// Set is a set of 2d points.
type Set []r2.Vec

// Bounds returns the smallest box containing the set.
func (a Set) Bounds() Box {
	bb := EmptyBox()
	for _, v := range a {
		bb = bb.Include(v)
	}
	return bb
}
