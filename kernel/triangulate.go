package kernel

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// weight orders candidate triangulations: smaller worst dihedral angle
// first, then smaller total area.
type weight struct {
	angle float64
	area  float64
}

var invalidWeight = weight{angle: math.Inf(1), area: math.Inf(1)}

func (w weight) valid() bool { return !math.IsInf(w.angle, 1) }

func (w weight) less(o weight) bool {
	if w.angle != o.angle {
		return w.angle < o.angle
	}
	return w.area < o.area
}

func (w weight) plus(o weight) weight {
	return weight{angle: math.Max(w.angle, o.angle), area: w.area + o.area}
}

// TriangulateHole fills the closed polyline points with triangles using
// vertices of the polyline only. Triangle (i,j,k) is returned with i<j<k
// and is oriented like the edges points[i]→points[i+1].
//
// third[j] is the apex of the triangle lying across edge points[j]→points[j+1]
// (edge n-1 closes the loop) on the side not being filled. It is used to
// keep the fill smooth with its surroundings.
//
// With restricted set only edges of the polyline and of its planar Delaunay
// triangulation are considered. A nil result means no triangulation was found.
func TriangulateHole(points, third []r3.Vec, restricted bool) [][3]int {
	n := len(points)
	if n < 3 || len(third) != n {
		return nil
	}
	if n == 3 {
		if degenerateTriangle(points[0], points[1], points[2]) {
			return nil
		}
		return [][3]int{{0, 1, 2}}
	}
	var allowed edgeSet
	if restricted {
		var err error
		allowed, err = delaunayEdges(points)
		if err != nil {
			allowed = nil // planar projection unusable, consider every edge.
		} else {
			for i := 0; i < n; i++ {
				allowed.add(i, (i+1)%n)
			}
		}
	}
	// outside[j] is the normal of the triangle across border edge j.
	outside := make([]r3.Vec, n)
	for j := range outside {
		outside[j] = unitNormal(points[(j+1)%n], points[j], third[j])
	}
	w := make([][]weight, n)
	apex := make([][]int, n)
	normal := make([][]r3.Vec, n)
	for i := range w {
		w[i] = make([]weight, n)
		apex[i] = make([]int, n)
		normal[i] = make([]r3.Vec, n)
		for k := range w[i] {
			w[i][k] = invalidWeight
			apex[i][k] = -1
		}
		if i+1 < n {
			w[i][i+1] = weight{}
		}
	}
	// across returns the normal of the triangle on the far side of
	// chord (i,k), already solved.
	across := func(i, k int) r3.Vec {
		if k == i+1 {
			return outside[i]
		}
		return normal[i][k]
	}
	for span := 2; span < n; span++ {
		for i := 0; i+span < n; i++ {
			k := i + span
			if allowed != nil && !allowed.has(i, k) {
				continue
			}
			for m := i + 1; m < k; m++ {
				if !w[i][m].valid() || !w[m][k].valid() {
					continue
				}
				if allowed != nil && (!allowed.has(i, m) || !allowed.has(m, k)) {
					continue
				}
				a, b, c := points[i], points[m], points[k]
				if degenerateTriangle(a, b, c) {
					continue
				}
				nrm := unitNormal(a, b, c)
				tri := weight{
					angle: math.Max(dihedral(nrm, across(i, m)), dihedral(nrm, across(m, k))),
					area:  0.5 * r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))),
				}
				cand := w[i][m].plus(w[m][k]).plus(tri)
				if span == n-1 {
					cand = cand.plus(weight{angle: dihedral(nrm, outside[n-1])})
				}
				if cand.less(w[i][k]) {
					w[i][k] = cand
					apex[i][k] = m
					normal[i][k] = nrm
				}
			}
		}
	}
	if !w[0][n-1].valid() {
		return nil
	}
	tris := make([][3]int, 0, n-2)
	stack := [][2]int{{0, n - 1}}
	for len(stack) > 0 {
		ik := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		i, k := ik[0], ik[1]
		if k-i < 2 {
			continue
		}
		m := apex[i][k]
		tris = append(tris, [3]int{i, m, k})
		stack = append(stack, [2]int{i, m}, [2]int{m, k})
	}
	return tris
}

// ArtificialThirdPoint returns the apex of an equilateral triangle built
// on edge p1→p2, in the plane of triangle (p1,p2,opp) and on the side
// opposite to opp. It stands in for a missing neighbor across the edge.
func ArtificialThirdPoint(p1, p2, opp r3.Vec) r3.Vec {
	e1 := r3.Sub(p2, p1)
	length := r3.Norm(e1)
	if length == 0 {
		return p1
	}
	e1 = r3.Scale(1/length, e1)
	e2 := r3.Sub(opp, p1)
	ortho := r3.Sub(e2, r3.Scale(r3.Dot(e1, e2), e1))
	mid := r3.Scale(0.5, r3.Add(p1, p2))
	if r3.Norm(ortho) == 0 {
		return mid
	}
	dist := 0.5 * math.Sqrt(3) * length
	return r3.Add(mid, r3.Scale(-dist, r3.Unit(ortho)))
}

// dihedral returns the angle between unit normals of two triangles sharing
// an edge. Zero normals contribute no angle.
func dihedral(n1, n2 r3.Vec) float64 {
	if n1 == (r3.Vec{}) || n2 == (r3.Vec{}) {
		return 0
	}
	return math.Acos(math.Max(-1, math.Min(1, r3.Dot(n1, n2))))
}

func unitNormal(a, b, c r3.Vec) r3.Vec {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	if n == (r3.Vec{}) {
		return n
	}
	return r3.Unit(n)
}

// degenerateTriangle reports whether abc has negligible area relative to its size.
func degenerateTriangle(a, b, c r3.Vec) bool {
	l := math.Max(r3.Norm2(r3.Sub(b, a)), math.Max(r3.Norm2(r3.Sub(c, b)), r3.Norm2(r3.Sub(a, c))))
	area2 := r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
	return l == 0 || area2 <= 1e-12*l
}
