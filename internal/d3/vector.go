package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// R3 vector helpers complementing the package level functions of gonum's r3.

// Elem returns a vector with all components set to sides.
func Elem(sides float64) r3.Vec {
	return r3.Vec{
		X: sides,
		Y: sides,
		Z: sides,
	}
}

// EqualWithin reports whether a and b are within tol of each other component-wise.
func EqualWithin(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// AbsElem returns a with every component made non-negative.
func AbsElem(a r3.Vec) r3.Vec {
	return r3.Vec{
		X: math.Abs(a.X),
		Y: math.Abs(a.Y),
		Z: math.Abs(a.Z),
	}
}

// Lerp interpolates linearly between a (t=0) and b (t=1).
func Lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// Basis returns two unit vectors that together with unit(n) form
// a right handed orthonormal basis.
func Basis(n r3.Vec) (u, v r3.Vec) {
	n = r3.Unit(n)
	// Pick the axis least aligned with n.
	a := AbsElem(n)
	axis := r3.Vec{X: 1}
	if a.Y <= a.X && a.Y <= a.Z {
		axis = r3.Vec{Y: 1}
	} else if a.Z <= a.X && a.Z <= a.Y {
		axis = r3.Vec{Z: 1}
	}
	u = r3.Unit(r3.Cross(axis, n))
	v = r3.Cross(n, u)
	return u, v
}

// Set is a set of points.
type Set []r3.Vec

// Centroid returns the mean of the set.
func (a Set) Centroid() r3.Vec {
	var sum r3.Vec
	for _, v := range a {
		sum = r3.Add(sum, v)
	}
	return r3.Scale(1/float64(len(a)), sum)
}
