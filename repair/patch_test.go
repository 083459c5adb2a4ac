package repair

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/meshfix"
	"github.com/soypat/meshfix/internal/meshgen"
	"gonum.org/v1/gonum/spatial/r3"
)

// quadRegion returns the two faces of the grid quad with lower left corner (1,1).
func quadRegion(t *testing.T, m *meshfix.Mesh) *region {
	t.Helper()
	a := faceAt(t, m, r3.Vec{X: 1, Y: 1}, r3.Vec{X: 2, Y: 1}, r3.Vec{X: 2, Y: 2})
	b := faceAt(t, m, r3.Vec{X: 1, Y: 1}, r3.Vec{X: 2, Y: 2}, r3.Vec{X: 1, Y: 2})
	return &region{m: m, faces: newFaceSet([]meshfix.Face{a, b})}
}

func TestApplyFlipsDiagonal(t *testing.T) {
	m := meshgen.Grid(4, 4)
	nv, ne, nf := m.NumVertices(), m.NumEdges(), m.NumFaces()
	r := quadRegion(t, m)
	p00, p10, p11, p01 := r3.Vec{X: 1, Y: 1}, r3.Vec{X: 2, Y: 1}, r3.Vec{X: 2, Y: 2}, r3.Vec{X: 1, Y: 2}
	plan, err := r.plan([]r3.Triangle{{p00, p10, p01}, {p10, p11, p01}})
	if err != nil {
		t.Fatal(err)
	}
	faces := plan.apply()
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(faces) != 2 {
		t.Fatalf("got %d new faces, want 2", len(faces))
	}
	if m.NumVertices() != nv || m.NumEdges() != ne || m.NumFaces() != nf {
		t.Errorf("got V=%d E=%d F=%d, want %d %d %d", m.NumVertices(), m.NumEdges(), m.NumFaces(), nv, ne, nf)
	}
	v := func(i, j int) meshfix.Vertex { return meshfix.Vertex(meshgen.GridVertex(4, i, j)) }
	if _, ok := m.HalfedgeBetween(v(2, 1), v(1, 2)); !ok {
		t.Error("new diagonal missing")
	}
	if _, ok := m.HalfedgeBetween(v(1, 1), v(2, 2)); ok {
		t.Error("old diagonal still present")
	}
	for _, f := range faces {
		if diff := cmp.Diff(r3.Vec{Z: 1}, m.FaceNormal(f)); diff != "" {
			t.Errorf("face %d normal (-want +got):\n%s", f, diff)
		}
	}
}

func TestPlanRejects(t *testing.T) {
	p00, p10, p11, p01 := r3.Vec{X: 1, Y: 1}, r3.Vec{X: 2, Y: 1}, r3.Vec{X: 2, Y: 2}, r3.Vec{X: 1, Y: 2}
	for _, test := range []struct {
		name  string
		patch []r3.Triangle
	}{
		{name: "open", patch: []r3.Triangle{{p00, p10, p11}}},
		{name: "reversed", patch: []r3.Triangle{{p00, p11, p10}, {p00, p01, p11}}},
		{name: "repeated point", patch: []r3.Triangle{{p00, p10, p10}, {p10, p11, p01}}},
		{name: "repeated face", patch: []r3.Triangle{{p00, p10, p11}, {p00, p10, p11}, {p00, p11, p01}}},
	} {
		m := meshgen.Grid(4, 4)
		before, _ := m.Soup()
		_, err := quadRegion(t, m).plan(test.patch)
		if !errors.Is(err, ErrPatchInvalid) {
			t.Errorf("%s: got error %v, want ErrPatchInvalid", test.name, err)
		}
		after, _ := m.Soup()
		if diff := cmp.Diff(before, after); diff != "" {
			t.Errorf("%s: mesh modified by rejected plan:\n%s", test.name, diff)
		}
	}
}

func TestDuplicatesEdge(t *testing.T) {
	m := meshgen.Grid(4, 4)
	// The quad plus a face touching it only at (2,1). Its border halfedges
	// along y=1 may be reused, their opposites belong to kept faces.
	r := quadRegion(t, m)
	right := faceAt(t, m, r3.Vec{X: 2, Y: 1}, r3.Vec{X: 3, Y: 1}, r3.Vec{X: 3, Y: 2})
	r.faces.add(right)
	p00, p10, p20 := r3.Vec{X: 1, Y: 1}, r3.Vec{X: 2, Y: 1}, r3.Vec{X: 3, Y: 1}
	err := r.duplicatesEdge([]r3.Triangle{{p00, p10, p20}})
	if err != nil {
		t.Errorf("border halfedges reported as duplicates: %v", err)
	}
	err = r.duplicatesEdge([]r3.Triangle{{p10, p00, p20}})
	if !errors.Is(err, ErrPatchInvalid) {
		t.Errorf("reversed border edge: got %v, want ErrPatchInvalid", err)
	}
}

func TestCheckPatch(t *testing.T) {
	ctx := context.Background()
	a, b, c, d := r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1}, r3.Vec{Y: 1}
	if err := checkPatch(ctx, []r3.Triangle{{a, b, c}, {a, c, d}}); err != nil {
		t.Errorf("valid square: %v", err)
	}
	for _, test := range []struct {
		name  string
		patch []r3.Triangle
	}{
		{name: "empty"},
		{name: "duplicate", patch: []r3.Triangle{{a, b, c}, {b, c, a}}},
		{name: "inconsistent", patch: []r3.Triangle{{a, b, c}, {a, d, c}}},
		{name: "folded", patch: []r3.Triangle{{a, b, c}, {a, c, r3.Vec{X: 0.75, Y: 0.25}}}},
		{name: "fin", patch: []r3.Triangle{{a, b, c}, {b, a, d}, {a, b, r3.Vec{Z: 1}}}},
	} {
		if err := checkPatch(ctx, test.patch); !errors.Is(err, ErrPatchInvalid) {
			t.Errorf("%s: got %v, want ErrPatchInvalid", test.name, err)
		}
	}
}
