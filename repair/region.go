package repair

import (
	"maps"
	"slices"

	"github.com/soypat/meshfix"
	"github.com/soypat/meshfix/internal/d3"
	"github.com/soypat/meshfix/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

type faceSet map[meshfix.Face]struct{}

func newFaceSet(faces []meshfix.Face) faceSet {
	s := make(faceSet, len(faces))
	for _, f := range faces {
		s[f] = struct{}{}
	}
	return s
}

func (s faceSet) has(f meshfix.Face) bool {
	_, ok := s[f]
	return ok
}

func (s faceSet) add(f meshfix.Face) { s[f] = struct{}{} }

// sorted returns the faces in handle order so that traversals are reproducible.
func (s faceSet) sorted() []meshfix.Face { return slices.Sorted(maps.Keys(s)) }

// region is a set of faces of m selected for replacement.
type region struct {
	m     *meshfix.Mesh
	faces faceSet
}

// inside reports whether h lies on a face of the region.
func (r *region) inside(h meshfix.Halfedge) bool {
	f := r.m.Face(h)
	return f != meshfix.NoFace && r.faces.has(f)
}

// collectRegion floods the pending faces connected to seed and grows the
// result so it can be removed from the mesh without pinching a vertex.
func collectRegion(m *meshfix.Mesh, seed meshfix.Face, pending faceSet, rings int) *region {
	r := &region{m: m, faces: faceSet{seed: {}}}
	stack := []meshfix.Face{seed}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, h := range m.FaceHalfedges(f) {
			g := m.Face(m.Opposite(h))
			if g == meshfix.NoFace || r.faces.has(g) || !pending.has(g) {
				continue
			}
			r.faces.add(g)
			stack = append(stack, g)
		}
	}
	r.expand(rings)
	r.compact()
	r.expandForRemoval()
	return r
}

// expand adds n rings of faces sharing a vertex with the region.
func (r *region) expand(n int) {
	for ; n > 0; n-- {
		var ring []meshfix.Face
		for _, v := range r.vertices() {
			for _, f := range r.m.VertexFaces(v) {
				if !r.faces.has(f) {
					ring = append(ring, f)
				}
			}
		}
		if len(ring) == 0 {
			return
		}
		for _, f := range ring {
			r.faces.add(f)
		}
	}
}

// compact absorbs neighbor faces whose far vertex lies in the bounding box
// of the region.
func (r *region) compact() {
	m := r.m
	bb := d3.EmptyBox()
	for _, v := range r.vertices() {
		bb = bb.Include(m.Point(v))
	}
	var stack []meshfix.Halfedge
	for _, h := range r.borderHalfedges() {
		if g := m.Opposite(h); !m.IsBorder(g) {
			stack = append(stack, g)
		}
	}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if r.faces.has(m.Face(h)) || !bb.Contains(m.Point(m.Target(m.Next(h)))) {
			continue
		}
		r.faces.add(m.Face(h))
		for _, g := range [2]meshfix.Halfedge{m.Opposite(m.Next(h)), m.Opposite(m.Prev(h))} {
			if !m.IsBorder(g) {
				stack = append(stack, g)
			}
		}
	}
}

// expandForRemoval selects faces around every region vertex until the faces
// left unselected around it form at most one fan.
func (r *region) expandForRemoval() {
	m := r.m
	work := r.vertices()
	queued := make(map[meshfix.Vertex]bool, len(work))
	for _, v := range work {
		queued[v] = true
	}
	for len(work) > 0 {
		v := work[len(work)-1]
		work = work[:len(work)-1]
		queued[v] = false
		runs := r.unselectedFans(v)
		if len(runs) < 2 {
			continue
		}
		keep := 0
		for i, run := range runs {
			if run.border != runs[keep].border {
				if run.border {
					keep = i
				}
				continue
			}
			if len(run.faces) > len(runs[keep].faces) {
				keep = i
			}
		}
		for i, run := range runs {
			if i == keep {
				continue
			}
			for _, f := range run.faces {
				r.faces.add(f)
				for _, u := range m.FaceVertices(f) {
					if !queued[u] {
						queued[u] = true
						work = append(work, u)
					}
				}
			}
		}
	}
}

// fan is a run of consecutive faces around a vertex.
type fan struct {
	faces []meshfix.Face
	// border is set when the run ends on a mesh border halfedge.
	border bool
}

// unselectedFans returns the maximal runs of consecutive live faces around v
// that are not in the region.
func (r *region) unselectedFans(v meshfix.Vertex) []fan {
	h := r.m.Halfedge(v)
	if h == meshfix.NoHalfedge {
		return nil
	}
	around := r.m.FacesAroundTarget(h)
	start := -1
	for i, f := range around {
		if f == meshfix.NoFace || r.faces.has(f) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}
	var runs []fan
	var run fan
	for i := 1; i <= len(around); i++ {
		f := around[(start+i)%len(around)]
		if f != meshfix.NoFace && !r.faces.has(f) {
			if len(run.faces) == 0 {
				run.border = around[(start+i-1)%len(around)] == meshfix.NoFace
			}
			run.faces = append(run.faces, f)
			continue
		}
		if len(run.faces) > 0 {
			run.border = run.border || f == meshfix.NoFace
			runs = append(runs, run)
			run = fan{}
		}
	}
	return runs
}

// vertices returns the vertices of the region faces in handle order.
func (r *region) vertices() []meshfix.Vertex {
	seen := make(map[meshfix.Vertex]bool)
	var vs []meshfix.Vertex
	for f := range r.faces {
		for _, v := range r.m.FaceVertices(f) {
			if !seen[v] {
				seen[v] = true
				vs = append(vs, v)
			}
		}
	}
	slices.Sort(vs)
	return vs
}

// borderHalfedges returns the halfedges of region faces whose opposite is
// not on a region face.
func (r *region) borderHalfedges() []meshfix.Halfedge {
	var border []meshfix.Halfedge
	for _, f := range r.faces.sorted() {
		for _, h := range r.m.FaceHalfedges(f) {
			if !r.inside(r.m.Opposite(h)) {
				border = append(border, h)
			}
		}
	}
	return border
}

// nextBorder returns the border halfedge following h around the region.
func (r *region) nextBorder(h meshfix.Halfedge) meshfix.Halfedge {
	m := r.m
	g := m.Next(h)
	for i := 0; r.inside(m.Opposite(g)); i++ {
		if i > m.NumEdges() {
			panic("bug: unbounded rotation around region vertex")
		}
		g = m.Next(m.Opposite(g))
	}
	return g
}

// cycles returns the border of the region as closed halfedge loops oriented
// like the region faces.
func (r *region) cycles() [][]meshfix.Halfedge {
	seen := make(map[meshfix.Halfedge]bool)
	var cycles [][]meshfix.Halfedge
	for _, h := range r.borderHalfedges() {
		if seen[h] {
			continue
		}
		var cycle []meshfix.Halfedge
		for g := h; !seen[g]; g = r.nextBorder(g) {
			seen[g] = true
			cycle = append(cycle, g)
		}
		cycles = append(cycles, cycle)
	}
	return cycles
}

// edges returns the edges of the region faces in handle order.
func (r *region) edges() []meshfix.Edge {
	seen := make(map[meshfix.Edge]bool)
	var es []meshfix.Edge
	for f := range r.faces {
		for _, h := range r.m.FaceHalfedges(f) {
			if e := r.m.EdgeOf(h); !seen[e] {
				seen[e] = true
				es = append(es, e)
			}
		}
	}
	slices.Sort(es)
	return es
}

// euler returns the Euler characteristic of the region. Disks have 1.
func (r *region) euler() int {
	return len(r.vertices()) - len(r.edges()) + len(r.faces)
}

// interiorEdges returns the region edges with a region face on both sides.
func (r *region) interiorEdges() []meshfix.Edge {
	var es []meshfix.Edge
	for _, e := range r.edges() {
		h := r.m.EdgeHalfedge(e)
		if r.inside(h) && r.inside(r.m.Opposite(h)) {
			es = append(es, e)
		}
	}
	return es
}

// interiorVertices returns the region vertices not on its border.
func (r *region) interiorVertices() []meshfix.Vertex {
	onBorder := make(map[meshfix.Vertex]bool)
	for _, h := range r.borderHalfedges() {
		onBorder[r.m.Target(h)] = true
		onBorder[r.m.Source(h)] = true
	}
	var vs []meshfix.Vertex
	for _, v := range r.vertices() {
		if !onBorder[v] {
			vs = append(vs, v)
		}
	}
	return vs
}

func (r *region) triangles() []r3.Triangle {
	return r.m.Triangles(r.faces.sorted())
}

// isSimple reports whether the polyline through the sources of cycle
// does not cross itself.
func (r *region) isSimple(cycle []meshfix.Halfedge) bool {
	points := make([]r3.Vec, len(cycle))
	ids := make([]int, len(cycle))
	for i, h := range cycle {
		v := r.m.Source(h)
		points[i] = r.m.Point(v)
		ids[i] = int(v)
	}
	return kernel.IsSimpleCycle(points, ids)
}
