package kernel

import (
	"container/heap"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/soypat/meshfix/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Envelope decides whether a triangle stays close enough to some reference geometry.
type Envelope interface {
	Contains(t r3.Triangle) bool
}

// EnvelopeFunc adapts a function to the Envelope interface.
type EnvelopeFunc func(t r3.Triangle) bool

// Contains calls f(t).
func (f EnvelopeFunc) Contains(t r3.Triangle) bool { return f(t) }

// TriangleEnvelope contains the points within Epsilon of a set of triangles.
type TriangleEnvelope struct {
	eps   float64
	slack float64
	tris  []r3.Triangle
	tree  *rtreego.Rtree
	// Refine is the length, relative to the longest edge of a tested
	// triangle, below which sub-triangles are no longer subdivided.
	Refine float64
	// MaxWork bounds the number of sub-triangles examined per test.
	// Tests exceeding it fail.
	MaxWork int
}

// NewEnvelope returns the envelope of radius eps around tris.
func NewEnvelope(tris []r3.Triangle, eps float64) *TriangleEnvelope {
	all := d3.EmptyBox()
	for _, t := range tris {
		all = all.Extend(d3.TriangleBox(t))
	}
	e := &TriangleEnvelope{
		eps:     eps,
		slack:   padding(all),
		tris:    tris,
		Refine:  1.0 / 64,
		MaxWork: 1 << 14,
	}
	objs := make([]rtreego.Spatial, len(tris))
	for i, t := range tris {
		objs[i] = &boxed{idx: i, bb: rect(d3.TriangleBox(t), eps+e.slack)}
	}
	e.tree = rtreego.NewTree(3, rtreeMinChildren, rtreeMaxChildren, objs...)
	return e
}

// Distance returns the distance from p to the closest reference triangle
// within radius of p, or +Inf if there is none.
func (e *TriangleEnvelope) Distance(p r3.Vec, radius float64) float64 {
	return e.distance(p, e.near(d3.Box{Min: p, Max: p}, radius))
}

func (e *TriangleEnvelope) near(bb d3.Box, radius float64) []int {
	found := e.tree.SearchIntersect(rect(bb, radius+e.slack))
	idx := make([]int, len(found))
	for i, obj := range found {
		idx[i] = obj.(*boxed).idx
	}
	return idx
}

func (e *TriangleEnvelope) distance(p r3.Vec, candidates []int) float64 {
	best := math.Inf(1)
	for _, i := range candidates {
		best = math.Min(best, d3.DistTriangle2(e.tris[i], p))
	}
	return math.Sqrt(best)
}

// Contains reports whether every point of t lies within the envelope.
// Distance to a single convex triangle is a convex function, so t is inside
// as soon as one reference triangle is within reach of all of t's corners.
// Otherwise t is subdivided, largest pieces first, until every piece is
// covered or smaller than the refinement length.
func (e *TriangleEnvelope) Contains(t r3.Triangle) bool {
	if e.eps < 0 || len(e.tris) == 0 {
		return false
	}
	tol := e.Refine * maxEdge(t)
	limit := e.eps + e.slack
	work := &subTriangles{}
	heap.Push(work, newSubTriangle(t))
	for n := 0; work.Len() > 0; n++ {
		if n >= e.MaxWork {
			return false
		}
		s := heap.Pop(work).(subTriangle)
		cands := e.near(d3.TriangleBox(s.t), e.eps+tol)
		if len(cands) == 0 {
			return false
		}
		covered := false
		for _, i := range cands {
			d := 0.0
			for _, v := range s.t {
				d = math.Max(d, d3.DistTriangle2(e.tris[i], v))
			}
			if math.Sqrt(d) <= limit {
				covered = true
				break
			}
		}
		if covered {
			continue
		}
		for _, v := range s.t {
			if e.distance(v, cands) > limit+tol {
				return false
			}
		}
		if e.distance(s.t.Centroid(), cands) > limit+tol {
			return false
		}
		if s.radius <= tol {
			// Lipschitz bound: no point of s is further than radius from a corner.
			continue
		}
		for _, child := range s.split() {
			heap.Push(work, child)
		}
	}
	return true
}

func maxEdge(t r3.Triangle) float64 {
	a, b := longestEdge(t)
	return r3.Norm(r3.Sub(b, a))
}

type subTriangle struct {
	t r3.Triangle
	// radius is the largest distance from the centroid to a corner.
	radius float64
}

func newSubTriangle(t r3.Triangle) subTriangle {
	c := t.Centroid()
	r := 0.0
	for _, v := range t {
		r = math.Max(r, r3.Norm(r3.Sub(v, c)))
	}
	return subTriangle{t: t, radius: r}
}

// split returns the four midpoint subdivision children of s.
func (s subTriangle) split() [4]subTriangle {
	m := d3.Midpoints(s.t)
	return [4]subTriangle{
		newSubTriangle(r3.Triangle{s.t[0], m[0], m[2]}),
		newSubTriangle(r3.Triangle{m[0], s.t[1], m[1]}),
		newSubTriangle(r3.Triangle{m[2], m[1], s.t[2]}),
		newSubTriangle(r3.Triangle{m[0], m[1], m[2]}),
	}
}

// subTriangles is a max-heap on radius.
type subTriangles []subTriangle

func (h subTriangles) Len() int            { return len(h) }
func (h subTriangles) Less(i, j int) bool  { return h[i].radius > h[j].radius }
func (h subTriangles) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *subTriangles) Push(x interface{}) { *h = append(*h, x.(subTriangle)) }
func (h *subTriangles) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
