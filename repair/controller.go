// Package repair removes self-intersections from triangle meshes by
// replacing the faces around them with smoothed or re-triangulated patches.
//
// Intersecting faces are grouped into connected regions. Each region is
// grown, removed and refilled. Regions that cannot be repaired are retried
// at the next step with a larger neighborhood, until the step budget runs out.
package repair

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/soypat/meshfix"
	"github.com/soypat/meshfix/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

// Remove repairs the self-intersections of m in place. A nil error means no
// self-intersection was left. When the step budget runs out first the error
// wraps ErrStepBudgetExhausted and Stats.Residual holds the number of pairs
// left; m is valid in every case.
func Remove(ctx context.Context, m *meshfix.Mesh, opts ...Option) (Stats, error) {
	o, err := newOptions(opts)
	if err != nil {
		return Stats{}, err
	}
	rp := &repairer{m: m, o: o}
	return rp.run(ctx)
}

type repairer struct {
	m     *meshfix.Mesh
	o     Options
	stats Stats
	// working holds the faces scanned for intersections.
	working faceSet
	// pending holds intersecting faces not handled yet.
	pending  faceSet
	allFixed bool
}

func (rp *repairer) run(ctx context.Context) (Stats, error) {
	v := rp.o.Visitor
	v.ParametersUsed(rp.o)
	if !rp.o.PreserveGenus {
		rp.m.DuplicateNonManifoldVertices()
	}
	rp.working = newFaceSet(rp.m.Faces())
	rp.pending = make(faceSet)
	rp.allFixed = true
	v.StartMainLoop()
	defer v.EndMainLoop()
	for step := 0; step < rp.o.MaxSteps; step++ {
		if err := rp.interrupted(ctx); err != nil {
			return rp.stats, err
		}
		v.StartIteration(step)
		rp.stats.Steps++
		if len(rp.pending) == 0 {
			pairs, err := rp.detect(ctx, rp.working.sorted())
			if err != nil {
				return rp.stats, err
			}
			for _, p := range pairs {
				rp.pending.add(p[0])
				rp.pending.add(p[1])
			}
		}
		if len(rp.pending) == 0 && rp.allFixed {
			v.EndIteration(step)
			return rp.stats, nil
		}
		v.StatusUpdate(len(rp.pending))
		if err := rp.step(ctx, step); err != nil {
			return rp.stats, err
		}
		v.EndIteration(step)
	}
	pairs, err := rp.detect(ctx, rp.working.sorted())
	if err != nil {
		return rp.stats, err
	}
	if len(pairs) == 0 {
		return rp.stats, nil
	}
	rp.stats.Residual = len(pairs)
	return rp.stats, fmt.Errorf("%w: %d intersecting pairs left after %d steps", ErrStepBudgetExhausted, len(pairs), rp.o.MaxSteps)
}

// interrupted reports why the repair must stop now, if it must.
func (rp *repairer) interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("repair: %w", err)
	}
	if rp.o.Visitor.Stop() {
		return ErrStopped
	}
	return nil
}

// detect returns the intersecting pairs among faces the filter keeps.
func (rp *repairer) detect(ctx context.Context, faces []meshfix.Face) ([][2]meshfix.Face, error) {
	pairs, err := rp.o.Detector.SelfIntersections(ctx, rp.m, faces)
	if err != nil {
		return nil, fmt.Errorf("repair: detecting self-intersections: %w", err)
	}
	if rp.o.Filter == nil {
		return pairs, nil
	}
	kept := pairs[:0]
	for _, p := range pairs {
		if !rp.o.Filter(p[0], p[1]) {
			kept = append(kept, p)
		}
	}
	return kept, nil
}

// step handles every pending region once. If no region changed the pending
// set is kept for the next step, which grows regions further.
func (rp *repairer) step(ctx context.Context, step int) error {
	v := rp.o.Visitor
	saved := maps.Clone(rp.pending)
	changed := false
	rp.allFixed = true
	for len(rp.pending) > 0 {
		if err := rp.interrupted(ctx); err != nil {
			return err
		}
		v.StartComponent()
		v.StatusUpdate(len(rp.pending))
		seed := slices.Min(slices.Collect(maps.Keys(rp.pending)))
		r := collectRegion(rp.m, seed, rp.pending, step+rp.o.ExpansionRings)
		if rp.o.Local {
			pairs, err := rp.detect(ctx, r.faces.sorted())
			if err != nil {
				return err
			}
			if len(pairs) == 0 {
				rp.forget(r)
				v.EndComponent(nil)
				continue
			}
		}
		rp.forget(r)
		if len(r.faces) == 1 {
			rp.stats.Unsolved++
			v.EndComponent(fmt.Errorf("%w: single face", ErrUnsolvableRegion))
			continue
		}
		for f := range r.faces {
			rp.working.add(f)
		}
		err := rp.repairRegion(ctx, r)
		switch {
		case err == nil:
			changed = true
		case ctx.Err() != nil:
			return fmt.Errorf("repair: %w", ctx.Err())
		case errors.Is(err, ErrTopologyRejected):
			rp.stats.TopologyRejected++
			rp.allFixed = false
		default:
			rp.stats.Unsolved++
			rp.allFixed = false
		}
		v.EndComponent(err)
	}
	if !changed {
		rp.pending = saved
	}
	return nil
}

func (rp *repairer) forget(r *region) {
	for f := range r.faces {
		delete(rp.pending, f)
	}
}

// repairRegion tries smoothing (local mode only) and then hole filling on r.
func (rp *repairer) repairRegion(ctx context.Context, r *region) error {
	var env kernel.Envelope
	if rp.o.Envelope != nil {
		env = rp.o.Envelope(r.triangles())
	}
	if rp.o.Local {
		for _, sharp := range []bool{true, false} {
			patch, err := smooth(ctx, r, sharp, rp.o.DihedralAngle, env)
			if err == nil {
				err = rp.apply(r, patch)
			}
			if err == nil {
				if sharp {
					rp.stats.ConstrainedSmoothing++
				} else {
					rp.stats.UnconstrainedSmoothing++
				}
				return nil
			}
			if ctx.Err() != nil {
				return err
			}
		}
	}
	cycles := r.cycles()
	if len(cycles) == 0 {
		return fmt.Errorf("%w: region has no border", ErrUnsolvableRegion)
	}
	if r.euler() != 1 || len(cycles) != 1 {
		patch, err := fillComplex(ctx, r, cycles, rp.o.PreserveGenus, env)
		if err == nil {
			err = rp.apply(r, patch)
		}
		if err != nil {
			return err
		}
		rp.stats.UnconstrainedHoleFilling++
		return nil
	}
	if rp.o.Local {
		patch, err := fillHoleConstrained(ctx, r, rp.o.DihedralAngle, env)
		if err == nil {
			err = rp.apply(r, patch)
		}
		if err == nil {
			rp.stats.ConstrainedHoleFilling++
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
	}
	patch, err := fillHole(ctx, r, cycles[0], env)
	if err == nil {
		err = rp.apply(r, patch)
	}
	if err != nil {
		return err
	}
	rp.stats.UnconstrainedHoleFilling++
	return nil
}

// apply swaps r for patch in the mesh and updates the working set.
func (rp *repairer) apply(r *region, patch []r3.Triangle) error {
	plan, err := r.plan(patch)
	if err != nil {
		return err
	}
	for f := range r.faces {
		delete(rp.working, f)
	}
	for _, f := range plan.apply() {
		rp.working.add(f)
	}
	return nil
}
