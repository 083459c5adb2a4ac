package kernel

import (
	"fmt"
	"math"

	georeal "github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
	"github.com/soypat/meshfix/internal/d2"
	"github.com/soypat/meshfix/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// edgeSet holds undirected edges between point indices, lower index first.
type edgeSet map[[2]int]struct{}

func (s edgeSet) add(i, j int) {
	if i > j {
		i, j = j, i
	}
	s[[2]int{i, j}] = struct{}{}
}

func (s edgeSet) has(i, j int) bool {
	if i > j {
		i, j = j, i
	}
	_, ok := s[[2]int{i, j}]
	return ok
}

// newellNormal returns the area weighted normal of the closed polygon pts.
func newellNormal(pts []r3.Vec) r3.Vec {
	var n r3.Vec
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

// planarProjection maps the polygon onto its best fitting plane, normalized to [-1,1]².
func planarProjection(pts []r3.Vec) (d2.Set, error) {
	n := newellNormal(pts)
	if n == (r3.Vec{}) {
		return nil, fmt.Errorf("kernel: polygon of %d points has no area", len(pts))
	}
	u, v := d3.Basis(n)
	c := d3.Set(pts).Centroid()
	proj := make(d2.Set, len(pts))
	for i, p := range pts {
		d := r3.Sub(p, c)
		proj[i] = r2.Vec{X: r3.Dot(d, u), Y: r3.Dot(d, v)}
	}
	bb := proj.Bounds()
	for i := range proj {
		proj[i] = bb.Normalize(proj[i])
	}
	return proj, nil
}

// delaunayEdges returns the edges of the Delaunay triangulation of the
// hole polygon projected on its best fitting plane. The triangulation is the
// lower convex hull of the points lifted onto a paraboloid.
func delaunayEdges(pts []r3.Vec) (edges edgeSet, err error) {
	proj, err := planarProjection(pts)
	if err != nil {
		return nil, err
	}
	lifted := make([]georeal.Vector, len(proj))
	var centroid r3.Vec
	for i, p := range proj {
		lifted[i] = georeal.Vector{X: p.X, Y: p.Y, Z: p.X*p.X + p.Y*p.Y}
		centroid = r3.Add(centroid, r3.Vec{X: lifted[i].X, Y: lifted[i].Y, Z: lifted[i].Z})
	}
	centroid = r3.Scale(1/float64(len(lifted)), centroid)
	defer func() {
		if r := recover(); r != nil {
			edges, err = nil, fmt.Errorf("kernel: convex hull failed: %v", r)
		}
	}()
	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(lifted, true, true, 0)
	if len(ch.Indices) == 0 || len(ch.Indices)%3 != 0 {
		return nil, fmt.Errorf("kernel: degenerate convex hull of %d lifted points", len(lifted))
	}
	if cocircular(lifted, ch.Indices[:3]) {
		return nil, fmt.Errorf("kernel: %d cocircular points have no unique Delaunay triangulation", len(pts))
	}
	edges = make(edgeSet)
	for f := 0; f < len(ch.Indices); f += 3 {
		i, j, k := ch.Indices[f], ch.Indices[f+1], ch.Indices[f+2]
		if i < 0 || j < 0 || k < 0 || i >= len(pts) || j >= len(pts) || k >= len(pts) {
			return nil, fmt.Errorf("kernel: convex hull index out of range")
		}
		a := r3.Vec{X: lifted[i].X, Y: lifted[i].Y, Z: lifted[i].Z}
		b := r3.Vec{X: lifted[j].X, Y: lifted[j].Y, Z: lifted[j].Z}
		c := r3.Vec{X: lifted[k].X, Y: lifted[k].Y, Z: lifted[k].Z}
		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		if r3.Dot(n, r3.Sub(centroid, a)) > 0 {
			n = r3.Scale(-1, n) // point outward.
		}
		if n.Z >= -1e-12*r3.Norm(n) {
			continue // upper or vertical face.
		}
		edges.add(i, j)
		edges.add(j, k)
		edges.add(k, i)
	}
	return edges, nil
}

// cocircular reports whether all lifted points lie on the plane of face,
// in which case the hull is flat.
func cocircular(lifted []georeal.Vector, face []int) bool {
	a, b, c := lifted[face[0]], lifted[face[1]], lifted[face[2]]
	n := b.Sub(a).Cross(c.Sub(a))
	tol := 1e-9 * n.Norm()
	for _, p := range lifted {
		if math.Abs(n.Dot(p.Sub(a))) > tol {
			return false
		}
	}
	return true
}
