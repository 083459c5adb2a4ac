package repair

import (
	"context"
	"fmt"

	"github.com/soypat/meshfix"
	"github.com/soypat/meshfix/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

// fillComplex fills a region that is not a topological disk. Border cycles
// made only of mesh border edges are real holes of the input. Every other
// cycle was cut by the region and is closed with a disk. When the region
// has no such cycle only its longest real cycle is filled.
func fillComplex(ctx context.Context, r *region, cycles [][]meshfix.Halfedge, preserveGenus bool, env kernel.Envelope) ([]r3.Triangle, error) {
	if preserveGenus {
		return nil, fmt.Errorf("%w: euler characteristic %d", ErrTopologyRejected, r.euler())
	}
	if len(cycles) == 1 {
		return fillHole(ctx, r, cycles[0], env)
	}
	m := r.m
	var fake [][]meshfix.Halfedge
	for _, c := range cycles {
		for _, h := range c {
			if !m.IsBorder(m.Opposite(h)) {
				fake = append(fake, c)
				break
			}
		}
	}
	if len(fake) == 0 {
		longest, best := 0, -1.0
		for i, c := range cycles {
			if l := r.cycleLength(c); l > best {
				longest, best = i, l
			}
		}
		return fillHole(ctx, r, cycles[longest], env)
	}
	var patch []r3.Triangle
	for _, c := range fake {
		if !r.isSimple(c) {
			return nil, ErrNonSimpleBoundary
		}
		sub, err := r.triangulate(r, c, nil)
		if err != nil {
			return nil, err
		}
		patch = append(patch, sub...)
	}
	if err := checkPatch(ctx, patch); err != nil {
		return nil, err
	}
	if !inEnvelope(env, patch) {
		return nil, fmt.Errorf("%w: patch leaves envelope", ErrPatchInvalid)
	}
	return patch, nil
}

// cycleLength returns the Euclidean length of the polyline of cycle.
func (r *region) cycleLength(cycle []meshfix.Halfedge) float64 {
	var l float64
	for _, h := range cycle {
		l += r3.Norm(r3.Sub(r.m.Point(r.m.Target(h)), r.m.Point(r.m.Source(h))))
	}
	return l
}
