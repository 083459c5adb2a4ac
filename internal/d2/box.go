package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Box is a 2d bounding box.
type Box r2.Box

// EmptyBox returns an inverted box that Include replaces on first use.
func EmptyBox() Box {
	return Box{Min: Elem(math.Inf(1)), Max: Elem(math.Inf(-1))}
}

// Include enlarges a 2d box to include a point.
func (a Box) Include(v r2.Vec) Box {
	return Box{MinElem(a.Min, v), MaxElem(a.Max, v)}
}

// Size returns the size of a 2d box.
func (a Box) Size() r2.Vec {
	return r2.Sub(a.Max, a.Min)
}

// Center returns the center of a 2d box.
func (a Box) Center() r2.Vec {
	return r2.Add(a.Min, r2.Scale(0.5, a.Size()))
}

// Normalize maps v from a to the square [-1,1]² preserving aspect ratio.
// Degenerate boxes map every point to the origin.
func (a Box) Normalize(v r2.Vec) r2.Vec {
	size := a.Size()
	half := 0.5 * math.Max(size.X, size.Y)
	if half == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/half, r2.Sub(v, a.Center()))
}
