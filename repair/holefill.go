package repair

import (
	"context"
	"fmt"

	"github.com/soypat/meshfix"
	"github.com/soypat/meshfix/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

// hole returns the polygon through the sources of cycle and, per edge, the
// third point of the triangle on the far side. Edges for which artificial
// returns true, and edges on the mesh border, get an artificial point.
func (r *region) hole(cycle []meshfix.Halfedge, artificial func(meshfix.Halfedge) bool) (points, third []r3.Vec) {
	m := r.m
	points = make([]r3.Vec, len(cycle))
	third = make([]r3.Vec, len(cycle))
	for i, h := range cycle {
		p1, p2 := m.Point(m.Source(h)), m.Point(m.Target(h))
		points[i] = p1
		g := m.Opposite(h)
		if m.IsBorder(g) || (artificial != nil && artificial(h)) {
			third[i] = kernel.ArtificialThirdPoint(p1, p2, m.Point(m.Target(m.Next(h))))
			continue
		}
		third[i] = m.Point(m.Target(m.Next(g)))
	}
	return points, third
}

// triangulate fills cycle, trying a Delaunay restricted triangulation
// before an unrestricted one. Candidates duplicating edges kept by host
// are discarded.
func (r *region) triangulate(host *region, cycle []meshfix.Halfedge, artificial func(meshfix.Halfedge) bool) ([]r3.Triangle, error) {
	points, third := r.hole(cycle, artificial)
	err := fmt.Errorf("%w: no triangulation of %d-gon", ErrPatchInvalid, len(points))
	for _, restricted := range []bool{true, false} {
		idx := kernel.TriangulateHole(points, third, restricted)
		if idx == nil {
			continue
		}
		patch := make([]r3.Triangle, len(idx))
		for i, t := range idx {
			patch[i] = r3.Triangle{points[t[0]], points[t[1]], points[t[2]]}
		}
		if err = host.duplicatesEdge(patch); err == nil {
			return patch, nil
		}
	}
	return nil, err
}

// fillHole triangulates a single border cycle of r.
func fillHole(ctx context.Context, r *region, cycle []meshfix.Halfedge, env kernel.Envelope) ([]r3.Triangle, error) {
	if !r.isSimple(cycle) {
		return nil, ErrNonSimpleBoundary
	}
	patch, err := r.triangulate(r, cycle, nil)
	if err != nil {
		return nil, err
	}
	if err := checkPatch(ctx, patch); err != nil {
		return nil, err
	}
	if !inEnvelope(env, patch) {
		return nil, fmt.Errorf("%w: hole patch leaves envelope", ErrPatchInvalid)
	}
	return patch, nil
}

// fillHoleConstrained splits r along its sharp edges and fills each part
// separately so that the sharp edges survive the repair.
func fillHoleConstrained(ctx context.Context, r *region, angle float64, env kernel.Envelope) ([]r3.Triangle, error) {
	m := r.m
	cosAngle := cosDegrees(angle)
	onBorder := make(map[meshfix.Halfedge]bool)
	for _, h := range r.borderHalfedges() {
		onBorder[h] = true
	}
	// Edges joining two region faces at a sharp angle split the region.
	crossable := func(h meshfix.Halfedge) bool {
		return !onBorder[h] && !sharpEdge(m, h, cosAngle)
	}
	artificial := func(h meshfix.Halfedge) bool {
		return !onBorder[h]
	}
	assigned := make(faceSet, len(r.faces))
	var patch []r3.Triangle
	for _, seed := range r.faces.sorted() {
		if assigned.has(seed) {
			continue
		}
		part := &region{m: m, faces: faceSet{seed: {}}}
		assigned.add(seed)
		stack := []meshfix.Face{seed}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, h := range m.FaceHalfedges(f) {
				if !crossable(h) {
					continue
				}
				g := m.Face(m.Opposite(h))
				if !assigned.has(g) {
					assigned.add(g)
					part.faces.add(g)
					stack = append(stack, g)
				}
			}
		}
		cycles := part.cycles()
		if part.euler() != 1 || len(cycles) != 1 {
			return nil, fmt.Errorf("%w: sharp edges cut a part that is not a disk", ErrPatchInvalid)
		}
		if !part.isSimple(cycles[0]) {
			return nil, ErrNonSimpleBoundary
		}
		sub, err := part.triangulate(r, cycles[0], artificial)
		if err != nil {
			return nil, err
		}
		patch = append(patch, sub...)
	}
	if err := checkPatch(ctx, patch); err != nil {
		return nil, err
	}
	if !inEnvelope(env, patch) {
		return nil, fmt.Errorf("%w: constrained patch leaves envelope", ErrPatchInvalid)
	}
	return patch, nil
}
