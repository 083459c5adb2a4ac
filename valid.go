package meshfix

import (
	"errors"
	"fmt"
)

// ErrInvalidMesh is wrapped by every error returned from Validate.
var ErrInvalidMesh = errors.New("meshfix: invalid mesh")

// Validate checks connectivity invariants: halfedge next/prev
// consistency, triangular faces, live references, vertex anchors,
// and that no two edges join the same pair of vertices.
func (m *Mesh) Validate() error {
	nh := 0
	pairs := make(map[[2]Vertex]Edge, m.ne)
	for _, e := range m.Edges() {
		for _, h := range [2]Halfedge{m.EdgeHalfedge(e), m.EdgeHalfedge(e) ^ 1} {
			nh++
			c := m.hconn[h]
			switch {
			case c.next < 0 || m.IsRemovedEdge(m.EdgeOf(c.next)):
				return fmt.Errorf("%w: halfedge %d has dead next %d", ErrInvalidMesh, h, c.next)
			case c.prev < 0 || m.IsRemovedEdge(m.EdgeOf(c.prev)):
				return fmt.Errorf("%w: halfedge %d has dead prev %d", ErrInvalidMesh, h, c.prev)
			case m.Prev(c.next) != h:
				return fmt.Errorf("%w: prev(next(%d)) != %d", ErrInvalidMesh, h, h)
			case m.IsRemovedVertex(c.target):
				return fmt.Errorf("%w: halfedge %d targets dead vertex %d", ErrInvalidMesh, h, c.target)
			case c.face != NoFace && m.IsRemovedFace(c.face):
				return fmt.Errorf("%w: halfedge %d on dead face %d", ErrInvalidMesh, h, c.face)
			case m.Face(c.next) != c.face:
				return fmt.Errorf("%w: halfedge %d and its next disagree on face", ErrInvalidMesh, h)
			case m.Source(c.next) != c.target:
				return fmt.Errorf("%w: next of halfedge %d does not start at its target", ErrInvalidMesh, h)
			}
		}
		u, v := m.Source(m.EdgeHalfedge(e)), m.Target(m.EdgeHalfedge(e))
		if u == v {
			return fmt.Errorf("%w: edge %d is a loop", ErrInvalidMesh, e)
		}
		if u > v {
			u, v = v, u
		}
		if other, ok := pairs[[2]Vertex{u, v}]; ok {
			return fmt.Errorf("%w: edges %d and %d join vertices %d and %d", ErrInvalidMesh, other, e, u, v)
		}
		pairs[[2]Vertex{u, v}] = e
	}
	if nh != 2*m.ne {
		return fmt.Errorf("%w: edge count mismatch", ErrInvalidMesh)
	}
	for _, f := range m.Faces() {
		h := m.FaceHalfedge(f)
		if h < 0 || m.IsRemovedEdge(m.EdgeOf(h)) || m.Face(h) != f {
			return fmt.Errorf("%w: face %d has bad anchor %d", ErrInvalidMesh, f, h)
		}
		if m.Next(m.Next(m.Next(h))) != h {
			return fmt.Errorf("%w: face %d is not a triangle", ErrInvalidMesh, f)
		}
	}
	for _, v := range m.Vertices() {
		h := m.Halfedge(v)
		if h == NoHalfedge {
			continue
		}
		if m.IsRemovedEdge(m.EdgeOf(h)) || m.Target(h) != v {
			return fmt.Errorf("%w: vertex %d has bad anchor %d", ErrInvalidMesh, v, h)
		}
	}
	return nil
}
