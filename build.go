package meshfix

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/meshfix/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrDegenerateFace is returned when a face references the same vertex twice.
	ErrDegenerateFace = errors.New("meshfix: face repeats a vertex")
	// ErrNonManifoldEdge is returned when an edge would be shared by more than
	// two faces or by two faces with opposite orientation.
	ErrNonManifoldEdge = errors.New("meshfix: non-manifold or inconsistently oriented edge")
)

// NewMesh builds a mesh from indexed triangles. Faces must be consistently
// oriented and every edge may be shared by at most two faces.
func NewMesh(points []r3.Vec, faces [][3]int) (*Mesh, error) {
	m := &Mesh{}
	for _, p := range points {
		m.AddVertex(p)
	}
	// directed edge -> halfedge going along it.
	hmap := make(map[[2]Vertex]Halfedge, 3*len(faces))
	for i, idx := range faces {
		var vs [3]Vertex
		for j := range idx {
			if idx[j] < 0 || idx[j] >= len(points) {
				return nil, fmt.Errorf("face %d: vertex index %d out of range", i, idx[j])
			}
			vs[j] = Vertex(idx[j])
		}
		if vs[0] == vs[1] || vs[1] == vs[2] || vs[2] == vs[0] {
			return nil, fmt.Errorf("face %d: %w", i, ErrDegenerateFace)
		}
		var hs [3]Halfedge
		for j := range vs {
			u, v := vs[j], vs[(j+1)%3]
			h, ok := hmap[[2]Vertex{u, v}]
			if !ok {
				h = m.AddEdge()
				m.SetTarget(h, v)
				m.SetTarget(h^1, u)
				hmap[[2]Vertex{u, v}] = h
				hmap[[2]Vertex{v, u}] = h ^ 1
			} else if !m.IsBorder(h) {
				return nil, fmt.Errorf("face %d edge (%d,%d): %w", i, u, v, ErrNonManifoldEdge)
			}
			hs[j] = h
		}
		f := m.AddFace()
		for j, h := range hs {
			m.SetFace(h, f)
			m.SetNext(h, hs[(j+1)%3])
			m.SetVertexHalfedge(m.Target(h), h)
		}
		m.SetFaceHalfedge(f, hs[0])
	}
	m.linkBorders()
	return m, nil
}

// linkBorders sets next/prev of border halfedges and anchors border
// vertices on a border halfedge.
func (m *Mesh) linkBorders() {
	for i := range m.hconn {
		h := Halfedge(i)
		if m.eremoved[h/2] || !m.IsBorder(h) {
			continue
		}
		// Rotate around target(h) over outgoing halfedges until a border one is found.
		g := h ^ 1
		for !m.IsBorder(g) {
			g = m.Prev(g) ^ 1
		}
		m.SetNext(h, g)
		m.SetVertexHalfedge(m.Target(h), h)
	}
}

// FromTriangles builds a mesh from a triangle soup, merging corners closer
// than tol. If tol is zero it is inferred from the shortest edge.
// Triangles degenerate after merging are dropped.
func FromTriangles(tris []r3.Triangle, tol float64) (*Mesh, error) {
	if len(tris) == 0 {
		return nil, errors.New("meshfix: no triangles")
	}
	bb := d3.EmptyBox()
	minDist2 := math.MaxFloat64
	corners := make(weldPoints, 0, 3*len(tris))
	for i := range tris {
		for j, vert := range tris[i] {
			bb = bb.Include(vert)
			side2 := r3.Norm2(r3.Sub(tris[i][(j+1)%3], vert))
			if side2 > 0 {
				minDist2 = math.Min(minDist2, side2)
			}
			corners = append(corners, weldPoint{p: vert, idx: 3*i + j})
		}
	}
	if tol == 0 {
		tol = math.Sqrt(minDist2) / 256
	}
	if tol < 0 || math.IsInf(tol, 0) || math.IsNaN(tol) {
		return nil, fmt.Errorf("meshfix: invalid weld tolerance %g", tol)
	}
	if tol > bb.Diagonal()/2 {
		return nil, errors.New("meshfix: weld tolerance larger than model size")
	}
	tree := kdtree.New(append(weldPoints(nil), corners...), false)
	vertexOf := make([]int, len(corners))
	for i := range vertexOf {
		vertexOf[i] = -1
	}
	var points []r3.Vec
	for _, c := range corners {
		if vertexOf[c.idx] >= 0 {
			continue
		}
		vi := len(points)
		points = append(points, c.p)
		keep := kdtree.NewDistKeeper(tol * tol)
		tree.NearestSet(keep, &c)
		for _, near := range keep.Heap {
			w := near.Comparable.(*weldPoint)
			if vertexOf[w.idx] < 0 {
				vertexOf[w.idx] = vi
			}
		}
	}
	faces := make([][3]int, 0, len(tris))
	for i := range tris {
		f := [3]int{vertexOf[3*i], vertexOf[3*i+1], vertexOf[3*i+2]}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		faces = append(faces, f)
	}
	return NewMesh(points, faces)
}

// Soup returns the positions of live vertices and the faces indexing them.
// The i'th returned point corresponds to the i'th live vertex.
func (m *Mesh) Soup() ([]r3.Vec, [][3]int) {
	index := make(map[Vertex]int, m.nv)
	points := make([]r3.Vec, 0, m.nv)
	for _, v := range m.Vertices() {
		index[v] = len(points)
		points = append(points, m.pos[v])
	}
	faces := make([][3]int, 0, m.nf)
	for _, f := range m.Faces() {
		vs := m.FaceVertices(f)
		faces = append(faces, [3]int{index[vs[0]], index[vs[1]], index[vs[2]]})
	}
	return points, faces
}

type weldPoint struct {
	p   r3.Vec
	idx int
}

func (w *weldPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(*weldPoint)
	switch d {
	case 0:
		return w.p.X - q.p.X
	case 1:
		return w.p.Y - q.p.Y
	case 2:
		return w.p.Z - q.p.Z
	}
	panic("bug: illegal dimension")
}

func (w *weldPoint) Dims() int { return 3 }

func (w *weldPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(*weldPoint)
	return r3.Norm2(r3.Sub(w.p, q.p))
}

type weldPoints []weldPoint

// Index returns the ith element of the list of points.
func (wp weldPoints) Index(i int) kdtree.Comparable { return &wp[i] }

// Len returns the length of the list.
func (wp weldPoints) Len() int { return len(wp) }

// Pivot partitions the list based on the dimension specified.
func (wp weldPoints) Pivot(d kdtree.Dim) int {
	p := weldPlane{dim: d, points: wp}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (wp weldPoints) Slice(start, end int) kdtree.Interface { return wp[start:end] }

type weldPlane struct {
	dim    kdtree.Dim
	points weldPoints
}

func (p weldPlane) Less(i, j int) bool {
	return p.points[i].Compare(&p.points[j], p.dim) < 0
}
func (p weldPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}
func (p weldPlane) Len() int {
	return len(p.points)
}
func (p weldPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
