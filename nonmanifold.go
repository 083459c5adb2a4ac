package meshfix

import (
	"maps"
	"slices"
)

// NonManifoldVertices returns the vertices whose incident halfedges form
// more than one fan, for example two cones touching at their apex.
func (m *Mesh) NonManifoldVertices() []Vertex {
	var out []Vertex
	all := m.vertexFans()
	for _, v := range slices.Sorted(maps.Keys(all)) {
		if len(all[v]) > 1 {
			out = append(out, v)
		}
	}
	return out
}

// DuplicateNonManifoldVertices splits every non-manifold vertex so that each
// of its fans gets its own vertex at the same position. It returns the number
// of vertices created.
func (m *Mesh) DuplicateNonManifoldVertices() int {
	created := 0
	all := m.vertexFans()
	for _, v := range slices.Sorted(maps.Keys(all)) {
		fans := all[v]
		if len(fans) < 2 {
			continue
		}
		m.SetVertexHalfedge(v, fanAnchor(m, fans[0]))
		for _, fan := range fans[1:] {
			nv := m.AddVertex(m.pos[v])
			for _, h := range fan {
				m.SetTarget(h, nv)
			}
			m.SetVertexHalfedge(nv, fanAnchor(m, fan))
			created++
		}
	}
	return created
}

// vertexFans groups the halfedges targeting each vertex by rotation fan.
func (m *Mesh) vertexFans() map[Vertex][][]Halfedge {
	incoming := make(map[Vertex][]Halfedge)
	for _, e := range m.Edges() {
		h := m.EdgeHalfedge(e)
		incoming[m.Target(h)] = append(incoming[m.Target(h)], h)
		incoming[m.Target(h^1)] = append(incoming[m.Target(h^1)], h^1)
	}
	fans := make(map[Vertex][][]Halfedge, len(incoming))
	for v, hs := range incoming {
		seen := make(map[Halfedge]bool, len(hs))
		for _, h := range hs {
			if seen[h] {
				continue
			}
			fan := m.HalfedgesAroundTarget(h)
			for _, g := range fan {
				seen[g] = true
			}
			fans[v] = append(fans[v], fan)
		}
	}
	return fans
}

// fanAnchor prefers a border halfedge so border vertices stay anchored on the border.
func fanAnchor(m *Mesh, fan []Halfedge) Halfedge {
	for _, h := range fan {
		if m.IsBorder(h) {
			return h
		}
	}
	return fan[0]
}
