package repair

import (
	"context"
	"fmt"
	"slices"

	"github.com/soypat/meshfix"
	"github.com/soypat/meshfix/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

// checkPatch validates patch on its own: faces must be distinct, edges may
// not be shared by more than two faces, it must build as a consistently
// oriented mesh and it must not intersect itself.
func checkPatch(ctx context.Context, patch []r3.Triangle) error {
	if len(patch) == 0 {
		return fmt.Errorf("%w: empty patch", ErrPatchInvalid)
	}
	ids := make(map[r3.Vec]int)
	var points []r3.Vec
	faces := make([][3]int, len(patch))
	for i, t := range patch {
		for j, p := range t {
			id, ok := ids[p]
			if !ok {
				id = len(points)
				ids[p] = id
				points = append(points, p)
			}
			faces[i][j] = id
		}
	}
	seenFace := make(map[[3]int]bool, len(faces))
	edgeUse := make(map[[2]int]int, 3*len(faces))
	for i, f := range faces {
		key := f
		slices.Sort(key[:])
		if seenFace[key] {
			return fmt.Errorf("%w: face %d repeated", ErrPatchInvalid, i)
		}
		seenFace[key] = true
		for j := range f {
			e := [2]int{f[j], f[(j+1)%3]}
			if e[0] > e[1] {
				e[0], e[1] = e[1], e[0]
			}
			edgeUse[e]++
			if edgeUse[e] > 2 {
				return fmt.Errorf("%w: edge shared by more than two faces", ErrPatchInvalid)
			}
		}
	}
	pm, err := meshfix.NewMesh(points, faces)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPatchInvalid, err)
	}
	pairs, err := kernel.Detector{}.SelfIntersections(ctx, pm, nil)
	if err != nil {
		return err
	}
	if len(pairs) > 0 {
		return fmt.Errorf("%w: %d self-intersecting pairs", ErrPatchInvalid, len(pairs))
	}
	return nil
}

// patchPlan is a patch checked against the mesh region it replaces and
// ready to be applied.
type patchPlan struct {
	r      *region
	points []r3.Vec
	// vert holds the existing vertex of each point or NoVertex.
	vert  []meshfix.Vertex
	faces [][3]int
	// border maps region border halfedges by their (source, target).
	border map[[2]meshfix.Vertex]meshfix.Halfedge
	// unused border halfedges, their edges are removed.
	unused []meshfix.Halfedge
	// stale border vertices no patch face references.
	stale []meshfix.Vertex
}

// borderVertices maps the positions of the region border vertices to them.
func (r *region) borderVertices() (map[r3.Vec]meshfix.Vertex, error) {
	m := r.m
	at := make(map[r3.Vec]meshfix.Vertex)
	for _, h := range r.borderHalfedges() {
		for _, v := range [2]meshfix.Vertex{m.Source(h), m.Target(h)} {
			p := m.Point(v)
			if other, ok := at[p]; ok && other != v {
				return nil, fmt.Errorf("%w: border vertices %d and %d coincide", ErrPatchInvalid, other, v)
			}
			at[p] = v
		}
	}
	return at, nil
}

// duplicatesEdge reports an error if a patch edge joining two border
// vertices of r would duplicate a mesh edge that is kept after the region
// is removed.
func (r *region) duplicatesEdge(patch []r3.Triangle) error {
	m := r.m
	at, err := r.borderVertices()
	if err != nil {
		return err
	}
	for _, t := range patch {
		for j := range t {
			u, okU := at[t[j]]
			v, okV := at[t[(j+1)%3]]
			if !okU || !okV {
				continue
			}
			// Interior edges go away with the region and border halfedges
			// are reused as they are.
			if h, ok := m.HalfedgeBetween(u, v); !ok || r.inside(h) {
				continue
			}
			return fmt.Errorf("%w: edge %d-%d already in mesh", ErrPatchInvalid, u, v)
		}
	}
	return nil
}

// plan checks that patch can replace the faces of r without breaking the
// mesh: border halfedges with a live face on the other side must be reused
// with their orientation, new edges must be shared by two patch faces and
// must not duplicate kept edges. The mesh is not modified.
func (r *region) plan(patch []r3.Triangle) (*patchPlan, error) {
	m := r.m
	at, err := r.borderVertices()
	if err != nil {
		return nil, err
	}
	p := &patchPlan{r: r, border: make(map[[2]meshfix.Vertex]meshfix.Halfedge)}
	ids := make(map[r3.Vec]int)
	for i, t := range patch {
		var f [3]int
		for j, pt := range t {
			id, ok := ids[pt]
			if !ok {
				id = len(p.points)
				ids[pt] = id
				p.points = append(p.points, pt)
				v, onBorder := at[pt]
				if !onBorder {
					v = meshfix.NoVertex
				}
				p.vert = append(p.vert, v)
			}
			f[j] = id
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			return nil, fmt.Errorf("%w: face %d repeats a point", ErrPatchInvalid, i)
		}
		p.faces = append(p.faces, f)
	}
	border := r.borderHalfedges()
	for _, h := range border {
		p.border[[2]meshfix.Vertex{m.Source(h), m.Target(h)}] = h
	}
	directed := make(map[[2]int]bool, 3*len(p.faces))
	for _, f := range p.faces {
		for j := range f {
			e := [2]int{f[j], f[(j+1)%3]}
			if directed[e] {
				return nil, fmt.Errorf("%w: directed edge used twice", ErrPatchInvalid)
			}
			directed[e] = true
		}
	}
	used := make(map[meshfix.Halfedge]bool)
	interior := make(map[meshfix.Edge]bool)
	for _, e := range r.interiorEdges() {
		interior[e] = true
	}
	for _, f := range p.faces {
		for j := range f {
			a, b := f[j], f[(j+1)%3]
			u, v := p.vert[a], p.vert[b]
			if u != meshfix.NoVertex && v != meshfix.NoVertex {
				if h, ok := p.border[[2]meshfix.Vertex{u, v}]; ok {
					used[h] = true
					continue
				}
				if _, ok := p.border[[2]meshfix.Vertex{v, u}]; ok {
					return nil, fmt.Errorf("%w: patch reverses border edge %d-%d", ErrPatchInvalid, v, u)
				}
				if h, ok := m.HalfedgeBetween(u, v); ok && !interior[m.EdgeOf(h)] {
					return nil, fmt.Errorf("%w: edge %d-%d already in mesh", ErrPatchInvalid, u, v)
				}
			}
			if !directed[[2]int{b, a}] {
				return nil, fmt.Errorf("%w: patch leaves a new border edge", ErrPatchInvalid)
			}
		}
	}
	isUnused := make(map[meshfix.Halfedge]bool)
	for _, h := range border {
		if !used[h] {
			if !m.IsBorder(m.Opposite(h)) {
				return nil, fmt.Errorf("%w: face %d left without neighbor", ErrPatchInvalid, m.Face(m.Opposite(h)))
			}
			isUnused[h] = true
			p.unused = append(p.unused, h)
		}
	}
	for _, h := range p.unused {
		g := m.Opposite(h)
		if !isUnused[m.Opposite(m.Next(g))] || !isUnused[m.Opposite(m.Prev(g))] {
			return nil, fmt.Errorf("%w: mesh border loop only partially removed", ErrPatchInvalid)
		}
	}
	referenced := make(map[meshfix.Vertex]bool)
	for _, v := range p.vert {
		referenced[v] = true
	}
	seen := make(map[meshfix.Vertex]bool)
	for _, h := range border {
		v := m.Target(h)
		if referenced[v] || seen[v] {
			continue
		}
		seen[v] = true
		p.stale = append(p.stale, v)
	}
	slices.Sort(p.stale)
	return p, nil
}

// apply replaces the region faces with the patch. Region handles are reused
// before new ones are allocated. It returns the faces of the patch.
func (p *patchPlan) apply() []meshfix.Face {
	r, m := p.r, p.r.m
	spareF := r.faces.sorted()
	spareE := r.interiorEdges()
	spareV := r.interiorVertices()
	for i, v := range p.vert {
		if v != meshfix.NoVertex {
			continue
		}
		if n := len(spareV); n > 0 {
			v = spareV[n-1]
			spareV = spareV[:n-1]
			m.SetPoint(v, p.points[i])
		} else {
			v = m.AddVertex(p.points[i])
		}
		p.vert[i] = v
	}
	hmap := make(map[[2]meshfix.Vertex]meshfix.Halfedge, len(p.border)+3*len(p.faces))
	for k, h := range p.border {
		hmap[k] = h
	}
	halfedge := func(u, v meshfix.Vertex) meshfix.Halfedge {
		if h, ok := hmap[[2]meshfix.Vertex{u, v}]; ok {
			return h
		}
		var h meshfix.Halfedge
		if n := len(spareE); n > 0 {
			h = m.EdgeHalfedge(spareE[n-1])
			spareE = spareE[:n-1]
		} else {
			h = m.AddEdge()
		}
		hmap[[2]meshfix.Vertex{u, v}] = h
		hmap[[2]meshfix.Vertex{v, u}] = m.Opposite(h)
		return h
	}
	faces := make([]meshfix.Face, 0, len(p.faces))
	for _, f := range p.faces {
		vs := [3]meshfix.Vertex{p.vert[f[0]], p.vert[f[1]], p.vert[f[2]]}
		var face meshfix.Face
		if n := len(spareF); n > 0 {
			face = spareF[n-1]
			spareF = spareF[:n-1]
		} else {
			face = m.AddFace()
		}
		var hs [3]meshfix.Halfedge
		for j := range vs {
			hs[j] = halfedge(vs[j], vs[(j+1)%3])
		}
		for j, h := range hs {
			target := vs[(j+1)%3]
			m.SetTarget(h, target)
			m.SetFace(h, face)
			m.SetNext(h, hs[(j+1)%3])
			m.SetVertexHalfedge(target, h)
		}
		m.SetFaceHalfedge(face, hs[0])
		faces = append(faces, face)
	}
	for _, h := range p.unused {
		m.RemoveEdge(m.EdgeOf(h))
	}
	for _, f := range spareF {
		m.RemoveFace(f)
	}
	for _, e := range spareE {
		m.RemoveEdge(e)
	}
	for _, v := range spareV {
		m.RemoveVertex(v)
	}
	for _, v := range p.stale {
		m.RemoveVertex(v)
	}
	for _, v := range p.vert {
		for _, h := range m.HalfedgesAroundTarget(m.Halfedge(v)) {
			if m.IsBorder(h) {
				m.SetVertexHalfedge(v, h)
				break
			}
		}
	}
	return faces
}
