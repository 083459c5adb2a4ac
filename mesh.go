package meshfix

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vertex, Halfedge, Edge and Face are handles into a Mesh. They stay valid
// until the element they refer to is removed.
type (
	Vertex   int
	Halfedge int
	Edge     int
	Face     int
)

// Null handles.
const (
	NoVertex   Vertex   = -1
	NoHalfedge Halfedge = -1
	NoEdge     Edge     = -1
	NoFace     Face     = -1
)

type vertexConn struct {
	// h is a halfedge that targets the vertex. For border vertices
	// it is preferably a border halfedge.
	h       Halfedge
	removed bool
}

type halfedgeConn struct {
	next, prev Halfedge
	target     Vertex
	face       Face
}

type faceConn struct {
	h       Halfedge
	removed bool
}

// Mesh is a halfedge triangle surface mesh. The two halfedges of an edge
// are stored contiguously so the opposite of h is h^1 and its edge is h/2.
// A halfedge whose face is NoFace lies on the mesh border.
//
// Mesh is not safe for concurrent mutation.
type Mesh struct {
	pos      []r3.Vec
	vconn    []vertexConn
	hconn    []halfedgeConn
	eremoved []bool
	fconn    []faceConn

	freeV []Vertex
	freeE []Edge
	freeF []Face

	nv, ne, nf int
}

// NumVertices returns the number of live vertices.
func (m *Mesh) NumVertices() int { return m.nv }

// NumEdges returns the number of live edges.
func (m *Mesh) NumEdges() int { return m.ne }

// NumFaces returns the number of live faces.
func (m *Mesh) NumFaces() int { return m.nf }

// Vertices returns the live vertices in increasing handle order.
func (m *Mesh) Vertices() []Vertex {
	vs := make([]Vertex, 0, m.nv)
	for i := range m.vconn {
		if !m.vconn[i].removed {
			vs = append(vs, Vertex(i))
		}
	}
	return vs
}

// Edges returns the live edges in increasing handle order.
func (m *Mesh) Edges() []Edge {
	es := make([]Edge, 0, m.ne)
	for i := range m.eremoved {
		if !m.eremoved[i] {
			es = append(es, Edge(i))
		}
	}
	return es
}

// Faces returns the live faces in increasing handle order.
func (m *Mesh) Faces() []Face {
	fs := make([]Face, 0, m.nf)
	for i := range m.fconn {
		if !m.fconn[i].removed {
			fs = append(fs, Face(i))
		}
	}
	return fs
}

// IsRemovedVertex reports whether v is not a live vertex.
func (m *Mesh) IsRemovedVertex(v Vertex) bool {
	return v < 0 || int(v) >= len(m.vconn) || m.vconn[v].removed
}

// IsRemovedEdge reports whether e is not a live edge.
func (m *Mesh) IsRemovedEdge(e Edge) bool {
	return e < 0 || int(e) >= len(m.eremoved) || m.eremoved[e]
}

// IsRemovedFace reports whether f is not a live face.
func (m *Mesh) IsRemovedFace(f Face) bool {
	return f < 0 || int(f) >= len(m.fconn) || m.fconn[f].removed
}

// Point returns the position of v.
func (m *Mesh) Point(v Vertex) r3.Vec { return m.pos[v] }

// SetPoint moves v to p.
func (m *Mesh) SetPoint(v Vertex, p r3.Vec) { m.pos[v] = p }

// Halfedge returns a halfedge targeting v, or NoHalfedge for isolated vertices.
func (m *Mesh) Halfedge(v Vertex) Halfedge { return m.vconn[v].h }

// SetVertexHalfedge sets the anchor halfedge of v. h must target v.
func (m *Mesh) SetVertexHalfedge(v Vertex, h Halfedge) { m.vconn[v].h = h }

// FaceHalfedge returns one of the three halfedges bounding f.
func (m *Mesh) FaceHalfedge(f Face) Halfedge { return m.fconn[f].h }

// SetFaceHalfedge sets the anchor halfedge of f.
func (m *Mesh) SetFaceHalfedge(f Face, h Halfedge) { m.fconn[f].h = h }

// EdgeHalfedge returns the first halfedge of e.
func (m *Mesh) EdgeHalfedge(e Edge) Halfedge { return Halfedge(2 * e) }

// EdgeOf returns the edge h belongs to.
func (m *Mesh) EdgeOf(h Halfedge) Edge { return Edge(h / 2) }

// Opposite returns the other halfedge of h's edge.
func (m *Mesh) Opposite(h Halfedge) Halfedge { return h ^ 1 }

// Next returns the halfedge following h around its face or border loop.
func (m *Mesh) Next(h Halfedge) Halfedge { return m.hconn[h].next }

// Prev returns the halfedge preceding h around its face or border loop.
func (m *Mesh) Prev(h Halfedge) Halfedge { return m.hconn[h].prev }

// Target returns the vertex h points to.
func (m *Mesh) Target(h Halfedge) Vertex { return m.hconn[h].target }

// Source returns the vertex h starts from.
func (m *Mesh) Source(h Halfedge) Vertex { return m.hconn[h^1].target }

// Face returns the face incident to h, or NoFace if h is a border halfedge.
func (m *Mesh) Face(h Halfedge) Face { return m.hconn[h].face }

// SetNext links h to n and n back to h.
func (m *Mesh) SetNext(h, n Halfedge) {
	m.hconn[h].next = n
	m.hconn[n].prev = h
}

// SetFace sets the face incident to h.
func (m *Mesh) SetFace(h Halfedge, f Face) { m.hconn[h].face = f }

// SetTarget sets the vertex h points to.
func (m *Mesh) SetTarget(h Halfedge, v Vertex) { m.hconn[h].target = v }

// IsBorder reports whether h has no incident face.
func (m *Mesh) IsBorder(h Halfedge) bool { return m.hconn[h].face == NoFace }

// IsBorderEdge reports whether either halfedge of h's edge is a border halfedge.
func (m *Mesh) IsBorderEdge(h Halfedge) bool {
	return m.IsBorder(h) || m.IsBorder(h^1)
}

// AddVertex adds an isolated vertex at p, reusing removed storage if available.
func (m *Mesh) AddVertex(p r3.Vec) Vertex {
	m.nv++
	if n := len(m.freeV); n > 0 {
		v := m.freeV[n-1]
		m.freeV = m.freeV[:n-1]
		m.vconn[v] = vertexConn{h: NoHalfedge}
		m.pos[v] = p
		return v
	}
	m.pos = append(m.pos, p)
	m.vconn = append(m.vconn, vertexConn{h: NoHalfedge})
	return Vertex(len(m.vconn) - 1)
}

// AddEdge adds an unconnected edge and returns its first halfedge. Both
// halfedges start as border halfedges with no target.
func (m *Mesh) AddEdge() Halfedge {
	m.ne++
	blank := halfedgeConn{next: NoHalfedge, prev: NoHalfedge, target: NoVertex, face: NoFace}
	if n := len(m.freeE); n > 0 {
		e := m.freeE[n-1]
		m.freeE = m.freeE[:n-1]
		m.eremoved[e] = false
		h := m.EdgeHalfedge(e)
		m.hconn[h] = blank
		m.hconn[h^1] = blank
		return h
	}
	m.eremoved = append(m.eremoved, false)
	m.hconn = append(m.hconn, blank, blank)
	return Halfedge(len(m.hconn) - 2)
}

// AddFace adds an unconnected face.
func (m *Mesh) AddFace() Face {
	m.nf++
	if n := len(m.freeF); n > 0 {
		f := m.freeF[n-1]
		m.freeF = m.freeF[:n-1]
		m.fconn[f] = faceConn{h: NoHalfedge}
		return f
	}
	m.fconn = append(m.fconn, faceConn{h: NoHalfedge})
	return Face(len(m.fconn) - 1)
}

// RemoveVertex marks v as removed. Connectivity is not updated.
func (m *Mesh) RemoveVertex(v Vertex) {
	m.mustVertex(v)
	m.vconn[v] = vertexConn{h: NoHalfedge, removed: true}
	m.freeV = append(m.freeV, v)
	m.nv--
}

// RemoveEdge marks e as removed. Connectivity is not updated.
func (m *Mesh) RemoveEdge(e Edge) {
	if m.IsRemovedEdge(e) {
		panic(fmt.Sprintf("bug: remove of dead edge %d", e))
	}
	m.eremoved[e] = true
	m.freeE = append(m.freeE, e)
	m.ne--
}

// RemoveFace marks f as removed. Connectivity is not updated.
func (m *Mesh) RemoveFace(f Face) {
	if m.IsRemovedFace(f) {
		panic(fmt.Sprintf("bug: remove of dead face %d", f))
	}
	m.fconn[f] = faceConn{h: NoHalfedge, removed: true}
	m.freeF = append(m.freeF, f)
	m.nf--
}

func (m *Mesh) mustVertex(v Vertex) {
	if m.IsRemovedVertex(v) {
		panic(fmt.Sprintf("bug: dead vertex %d", v))
	}
}

// Clone returns a deep copy of m. Handles are preserved.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		pos:      append([]r3.Vec(nil), m.pos...),
		vconn:    append([]vertexConn(nil), m.vconn...),
		hconn:    append([]halfedgeConn(nil), m.hconn...),
		eremoved: append([]bool(nil), m.eremoved...),
		fconn:    append([]faceConn(nil), m.fconn...),
		freeV:    append([]Vertex(nil), m.freeV...),
		freeE:    append([]Edge(nil), m.freeE...),
		freeF:    append([]Face(nil), m.freeF...),
		nv:       m.nv,
		ne:       m.ne,
		nf:       m.nf,
	}
	return c
}
