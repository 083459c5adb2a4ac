package repair

import (
	"context"
	"fmt"
	"math"

	"github.com/soypat/meshfix"
	"github.com/soypat/meshfix/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

const maxSmoothingPasses = 100

// sharpEdge reports whether the faces on both sides of h meet at a dihedral
// angle making the edge a feature worth keeping. Folds, whose normals point
// in nearly opposite directions, are not sharp.
func sharpEdge(m *meshfix.Mesh, h meshfix.Halfedge, cosAngle float64) bool {
	if m.IsBorderEdge(h) {
		return false
	}
	c := r3.Dot(m.FaceNormal(m.Face(h)), m.FaceNormal(m.Face(m.Opposite(h))))
	return -cosAngle <= c && c <= cosAngle
}

func cosDegrees(deg float64) float64 { return math.Cos(deg * math.Pi / 180) }

// localCopy returns the region as a standalone mesh. Vertex i of the copy
// corresponds to vertex verts[i] of the region.
func (r *region) localCopy() (local *meshfix.Mesh, verts []meshfix.Vertex, err error) {
	verts = r.vertices()
	index := make(map[meshfix.Vertex]int, len(verts))
	points := make([]r3.Vec, len(verts))
	for i, v := range verts {
		index[v] = i
		points[i] = r.m.Point(v)
	}
	faces := make([][3]int, 0, len(r.faces))
	for _, f := range r.faces.sorted() {
		vs := r.m.FaceVertices(f)
		faces = append(faces, [3]int{index[vs[0]], index[vs[1]], index[vs[2]]})
	}
	local, err = meshfix.NewMesh(points, faces)
	if err != nil {
		return nil, nil, fmt.Errorf("copying region: %w", err)
	}
	return local, verts, nil
}

// smooth relaxes a copy of the region and returns its triangles as a patch
// if the relaxed copy no longer self-intersects and stays inside env.
// With constrainSharp set vertices on sharp edges stay in place.
func smooth(ctx context.Context, r *region, constrainSharp bool, angle float64, env kernel.Envelope) ([]r3.Triangle, error) {
	local, _, err := r.localCopy()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatchInvalid, err)
	}
	fixed := make(map[meshfix.Vertex]bool)
	cosAngle := cosDegrees(angle)
	for _, e := range local.Edges() {
		h := local.EdgeHalfedge(e)
		if local.IsBorderEdge(h) || (constrainSharp && sharpEdge(local, h, cosAngle)) {
			fixed[local.Source(h)] = true
			fixed[local.Target(h)] = true
		}
	}
	if !relax(local, fixed) {
		return nil, fmt.Errorf("%w: no vertex free to move", ErrUnsolvableRegion)
	}
	hit, err := kernel.Detector{}.SelfIntersections(ctx, local, nil)
	if err != nil {
		return nil, err
	}
	if len(hit) > 0 {
		return nil, fmt.Errorf("%w: %d pairs still intersect after smoothing", ErrPatchInvalid, len(hit))
	}
	patch := local.Triangles(nil)
	if !inEnvelope(env, patch) {
		return nil, fmt.Errorf("%w: smoothed region leaves envelope", ErrPatchInvalid)
	}
	return patch, nil
}

// relax moves every vertex not in fixed to the average of its neighbors
// until the largest displacement becomes negligible. It reports whether
// any vertex moved.
func relax(m *meshfix.Mesh, fixed map[meshfix.Vertex]bool) bool {
	var free []meshfix.Vertex
	for _, v := range m.Vertices() {
		if !fixed[v] && m.Halfedge(v) != meshfix.NoHalfedge {
			free = append(free, v)
		}
	}
	if len(free) == 0 {
		return false
	}
	bb := m.Bounds(m.Faces())
	tol := 1e-12 * r3.Norm(r3.Sub(bb.Max, bb.Min))
	moved := false
	next := make([]r3.Vec, len(free))
	for pass := 0; pass < maxSmoothingPasses; pass++ {
		step := 0.0
		for i, v := range free {
			var sum r3.Vec
			hs := m.HalfedgesAroundTarget(m.Halfedge(v))
			for _, h := range hs {
				sum = r3.Add(sum, m.Point(m.Source(h)))
			}
			n := float64(len(hs))
			next[i] = r3.Vec{X: sum.X / n, Y: sum.Y / n, Z: sum.Z / n}
			step = math.Max(step, r3.Norm(r3.Sub(next[i], m.Point(v))))
		}
		for i, v := range free {
			m.SetPoint(v, next[i])
		}
		if step > 0 {
			moved = true
		}
		if step <= tol {
			break
		}
	}
	return moved
}

func inEnvelope(env kernel.Envelope, tris []r3.Triangle) bool {
	if env == nil {
		return true
	}
	for _, t := range tris {
		if !env.Contains(t) {
			return false
		}
	}
	return true
}
