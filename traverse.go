package meshfix

import (
	"github.com/soypat/meshfix/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// FaceHalfedges returns the three halfedges of f starting at its anchor.
func (m *Mesh) FaceHalfedges(f Face) [3]Halfedge {
	h := m.fconn[f].h
	return [3]Halfedge{h, m.Next(h), m.Prev(h)}
}

// FaceVertices returns the targets of f's halfedges, in face order.
func (m *Mesh) FaceVertices(f Face) [3]Vertex {
	hs := m.FaceHalfedges(f)
	return [3]Vertex{m.Target(hs[0]), m.Target(hs[1]), m.Target(hs[2])}
}

// Triangle returns the geometry of f.
func (m *Mesh) Triangle(f Face) r3.Triangle {
	vs := m.FaceVertices(f)
	return r3.Triangle{m.pos[vs[0]], m.pos[vs[1]], m.pos[vs[2]]}
}

// Triangles returns the geometry of faces. If faces is nil all live faces are used.
func (m *Mesh) Triangles(faces []Face) []r3.Triangle {
	if faces == nil {
		faces = m.Faces()
	}
	tris := make([]r3.Triangle, len(faces))
	for i, f := range faces {
		tris[i] = m.Triangle(f)
	}
	return tris
}

// FaceNormal returns the unit normal of f. Degenerate faces have a zero normal.
func (m *Mesh) FaceNormal(f Face) r3.Vec {
	return d3.UnitNormal(m.Triangle(f))
}

// HalfedgesAroundTarget returns the halfedges targeting the same vertex as h,
// in rotation order, starting with h. Only the fan reachable from h through
// next/opposite links is visited.
func (m *Mesh) HalfedgesAroundTarget(h Halfedge) []Halfedge {
	hs := make([]Halfedge, 0, 8)
	start := h
	for {
		hs = append(hs, h)
		h = m.Opposite(m.Next(h))
		if h == start || len(hs) > len(m.hconn) {
			break
		}
	}
	return hs
}

// FacesAroundTarget returns the faces incident to the target of h in rotation
// order. Border gaps appear as NoFace.
func (m *Mesh) FacesAroundTarget(h Halfedge) []Face {
	hs := m.HalfedgesAroundTarget(h)
	fs := make([]Face, len(hs))
	for i := range hs {
		fs[i] = m.Face(hs[i])
	}
	return fs
}

// VertexFaces returns the faces incident to v, without border gaps.
func (m *Mesh) VertexFaces(v Vertex) []Face {
	h := m.Halfedge(v)
	if h == NoHalfedge {
		return nil
	}
	var fs []Face
	for _, f := range m.FacesAroundTarget(h) {
		if f != NoFace {
			fs = append(fs, f)
		}
	}
	return fs
}

// Degree returns the number of edges incident to v.
func (m *Mesh) Degree(v Vertex) int {
	h := m.Halfedge(v)
	if h == NoHalfedge {
		return 0
	}
	return len(m.HalfedgesAroundTarget(h))
}

// IsBorderVertex reports whether some halfedge around v lies on the border.
func (m *Mesh) IsBorderVertex(v Vertex) bool {
	h := m.Halfedge(v)
	if h == NoHalfedge {
		return false
	}
	for _, g := range m.HalfedgesAroundTarget(h) {
		if m.IsBorder(g) {
			return true
		}
	}
	return false
}

// HalfedgeBetween returns the halfedge going from u to v, if any.
func (m *Mesh) HalfedgeBetween(u, v Vertex) (Halfedge, bool) {
	h := m.Halfedge(v)
	if h == NoHalfedge {
		return NoHalfedge, false
	}
	for _, g := range m.HalfedgesAroundTarget(h) {
		if m.Source(g) == u {
			return g, true
		}
	}
	return NoHalfedge, false
}

// BorderCycles returns every border loop of the mesh. Each loop is listed
// by its border halfedges in next order.
func (m *Mesh) BorderCycles() [][]Halfedge {
	visited := make(map[Halfedge]bool)
	var cycles [][]Halfedge
	for _, e := range m.Edges() {
		for _, h := range [2]Halfedge{m.EdgeHalfedge(e), m.EdgeHalfedge(e) ^ 1} {
			if !m.IsBorder(h) || visited[h] {
				continue
			}
			var cycle []Halfedge
			for g := h; !visited[g]; g = m.Next(g) {
				visited[g] = true
				cycle = append(cycle, g)
			}
			cycles = append(cycles, cycle)
		}
	}
	return cycles
}

// Bounds returns the bounding box of the vertices of faces.
func (m *Mesh) Bounds(faces []Face) r3.Box {
	bb := d3.EmptyBox()
	for _, f := range faces {
		for _, v := range m.FaceVertices(f) {
			bb = bb.Include(m.pos[v])
		}
	}
	return r3.Box(bb)
}
