package repair

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/meshfix"
	"github.com/soypat/meshfix/internal/meshgen"
	"github.com/soypat/meshfix/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSmoothRecentersVertex(t *testing.T) {
	m := meshgen.Grid(5, 5)
	center := meshfix.Vertex(meshgen.GridVertex(5, 2, 2))
	m.SetPoint(center, r3.Vec{X: 1.5, Y: 0.7})
	r := &region{m: m, faces: newFaceSet(m.VertexFaces(center))}
	if len(r.faces) != 6 {
		t.Fatalf("got %d faces around center, want 6", len(r.faces))
	}
	patch, err := smooth(context.Background(), r, true, 60, nil)
	if err != nil {
		t.Fatal(err)
	}
	plan, err := r.plan(patch)
	if err != nil {
		t.Fatal(err)
	}
	plan.apply()
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(r3.Vec{X: 2, Y: 2}, m.Point(center)); diff != "" {
		t.Errorf("center point (-want +got):\n%s", diff)
	}
	if m.NumVertices() != 25 {
		t.Errorf("got %d vertices, want 25", m.NumVertices())
	}
	hit, err := kernel.DoesSelfIntersect(context.Background(), m)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("smoothed grid still self-intersects")
	}
}

func TestSmoothNeedsFreeVertex(t *testing.T) {
	m := meshgen.FoldedQuad()
	r := &region{m: m, faces: newFaceSet(m.Faces())}
	_, err := smooth(context.Background(), r, false, 60, nil)
	if !errors.Is(err, ErrUnsolvableRegion) {
		t.Errorf("got %v, want ErrUnsolvableRegion", err)
	}
}

func TestSmoothRejectedByEnvelope(t *testing.T) {
	m := meshgen.Grid(5, 5)
	center := meshfix.Vertex(meshgen.GridVertex(5, 2, 2))
	m.SetPoint(center, r3.Vec{X: 1.5, Y: 0.7})
	r := &region{m: m, faces: newFaceSet(m.VertexFaces(center))}
	reject := kernel.EnvelopeFunc(func(r3.Triangle) bool { return false })
	_, err := smooth(context.Background(), r, false, 60, reject)
	if !errors.Is(err, ErrPatchInvalid) {
		t.Errorf("got %v, want ErrPatchInvalid", err)
	}
	if m.Point(center) != (r3.Vec{X: 1.5, Y: 0.7}) {
		t.Error("rejected smoothing moved the mesh vertex")
	}
}

func TestSharpEdge(t *testing.T) {
	cos60 := cosDegrees(60)
	fold := meshgen.FoldedQuad()
	h, ok := fold.HalfedgeBetween(0, 2)
	if !ok {
		t.Fatal("fold has no edge 0-2")
	}
	if sharpEdge(fold, h, cos60) {
		t.Error("fold reported as sharp")
	}
	bent, err := meshfix.NewMesh([]r3.Vec{
		{}, {X: 1}, {Y: 1}, {Z: 1},
	}, [][3]int{{0, 1, 2}, {1, 0, 3}})
	if err != nil {
		t.Fatal(err)
	}
	h, _ = bent.HalfedgeBetween(0, 1)
	if !sharpEdge(bent, h, cos60) {
		t.Error("right angle not reported as sharp")
	}
	h, _ = bent.HalfedgeBetween(1, 2)
	if sharpEdge(bent, h, cos60) {
		t.Error("border edge reported as sharp")
	}
	flat := meshgen.Grid(3, 3)
	h, _ = flat.HalfedgeBetween(0, 4)
	if sharpEdge(flat, h, cos60) {
		t.Error("flat edge reported as sharp")
	}
}
