package d3

import "gonum.org/v1/gonum/spatial/r3"

// TriangleBox returns the bounding box of t.
func TriangleBox(t r3.Triangle) Box {
	return Box{
		Min: MinElem(t[0], MinElem(t[1], t[2])),
		Max: MaxElem(t[0], MaxElem(t[1], t[2])),
	}
}

// UnitNormal returns the normalized normal of t or the zero vector if t is degenerate.
func UnitNormal(t r3.Triangle) r3.Vec {
	n := t.Normal()
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

// Midpoints returns the edge midpoints of t, edge i joins vertex i and i+1.
func Midpoints(t r3.Triangle) [3]r3.Vec {
	return [3]r3.Vec{
		Lerp(t[0], t[1], 0.5),
		Lerp(t[1], t[2], 0.5),
		Lerp(t[2], t[0], 0.5),
	}
}

// ClosestOnTriangle returns the point of the solid triangle t closest to p.
// Based on Geometric Tool's algorithm for distance between a point
// and a solid triangle, licensed under the Boost Software License.
func ClosestOnTriangle(t r3.Triangle, target r3.Vec) r3.Vec {
	a := t[0]
	diff := r3.Sub(target, a)
	edge0 := r3.Sub(t[1], a)
	edge1 := r3.Sub(t[2], a)

	a00 := r3.Dot(edge0, edge0)
	a01 := r3.Dot(edge0, edge1)
	a11 := r3.Dot(edge1, edge1)
	b0 := -r3.Dot(diff, edge0)
	b1 := -r3.Dot(diff, edge1)

	f00 := b0
	f10 := b0 + a00
	f01 := b0 + a01

	var p0, p1, p [2]float64
	var dt1, h0, h1 float64
	switch {
	case f00 >= 0 && f01 > 0:
		p = minEdge02(a11, b1)
	case f00 >= 0:
		p0 = [2]float64{0, f00 / (f00 - f01)}
		p1[0] = f01 / (f01 - f10)
		p1[1] = 1 - p1[0]
		dt1 = p1[1] - p0[1]
		h0 = dt1 * (a11*p0[1] + b1)
		if h0 >= 0 {
			p = minEdge02(a11, b1)
			break
		}
		h1 = dt1 * (a01*p1[0] + a11*p1[1] + b1)
		if h1 <= 0 {
			p = minEdge12(a01, a11, b1, f10, f01)
		} else {
			p = minInterior(p0, h0, p1, h1)
		}
	case f01 <= 0 && f10 <= 0:
		p = minEdge12(a01, a11, b1, f10, f01)
	case f01 <= 0:
		p0 = [2]float64{f00 / (f00 - f10), 0}
		p1[0] = f01 / (f01 - f10)
		p1[1] = 1 - p1[0]
		h0 = p1[1] * (a01*p0[0] + b1)
		if h0 >= 0 {
			p = p0
			break
		}
		h1 = p1[1] * (a01*p1[0] + a11*p1[1] + b1)
		if h1 <= 0 {
			p = minEdge12(a01, a11, b1, f10, f01)
		} else {
			p = minInterior(p0, h0, p1, h1)
		}
	case f10 <= 0:
		p0 = [2]float64{0, f00 / (f00 - f01)}
		p1[0] = f01 / (f01 - f10)
		p1[1] = 1 - p1[0]
		dt1 = p1[1] - p0[1]
		h0 = dt1 * (a11*p0[1] + b1)
		if h0 >= 0 {
			p = minEdge02(a11, b1)
			break
		}
		h1 = dt1 * (a01*p1[0] + a11*p1[1] + b1)
		if h1 <= 0 {
			p = minEdge12(a01, a11, b1, f10, f01)
		} else {
			p = minInterior(p0, h0, p1, h1)
		}
	default:
		p0 = [2]float64{f00 / (f00 - f10), 0}
		p1 = [2]float64{0, f00 / (f00 - f01)}
		h0 = p1[1] * (a01*p0[0] + b1)
		if h0 >= 0 {
			p = p0
			break
		}
		h1 = p1[1] * (a11*p1[1] + b1)
		if h1 <= 0 {
			p = minEdge02(a11, b1)
		} else {
			p = minInterior(p0, h0, p1, h1)
		}
	}
	return r3.Add(a, r3.Add(r3.Scale(p[0], edge0), r3.Scale(p[1], edge1)))
}

// DistTriangle2 returns the squared distance from p to the solid triangle t.
func DistTriangle2(t r3.Triangle, p r3.Vec) float64 {
	return r3.Norm2(r3.Sub(p, ClosestOnTriangle(t, p)))
}

func minEdge02(a11, b1 float64) (p [2]float64) {
	switch {
	case b1 >= 0:
		p[1] = 0
	case a11+b1 <= 0:
		p[1] = 1
	default:
		p[1] = -b1 / a11
	}
	return p
}

func minEdge12(a01, a11, b1, f10, f01 float64) (p [2]float64) {
	h0 := a01 + b1 - f10
	if h0 >= 0 {
		p[1] = 0
	} else {
		h1 := a11 + b1 - f01
		if h1 <= 0 {
			p[1] = 1
		} else {
			p[1] = h0 / (h0 - h1)
		}
	}
	p[0] = 1 - p[1]
	return p
}

func minInterior(p0 [2]float64, h0 float64, p1 [2]float64, h1 float64) (p [2]float64) {
	z := h0 / (h0 - h1)
	omz := 1 - z
	p[0] = omz*p0[0] + z*p1[0]
	p[1] = omz*p0[1] + z*p1[1]
	return p
}
