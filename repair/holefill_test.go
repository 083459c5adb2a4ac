package repair

import (
	"context"
	"testing"

	"github.com/soypat/meshfix"
	"github.com/soypat/meshfix/internal/meshgen"
)

func TestFillHoleConstrainedKeepsBend(t *testing.T) {
	m := meshgen.BentGrid(7, 6, 3)
	// Two rows of quads on each side of the bend, three quads tall.
	var faces []meshfix.Face
	for _, f := range m.Faces() {
		c := m.Triangle(f).Centroid()
		if c.X > 1 && c.Z < 2 && c.Y > 1 && c.Y < 4 {
			faces = append(faces, f)
		}
	}
	if len(faces) != 24 {
		t.Fatalf("got %d region faces, want 24", len(faces))
	}
	r := &region{m: m, faces: newFaceSet(faces)}
	patch, err := fillHoleConstrained(context.Background(), r, 60, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(patch) != 16 {
		t.Errorf("got %d patch triangles, want 8 per side", len(patch))
	}
	for _, tri := range patch {
		var flat, raised bool
		for _, p := range tri {
			flat = flat || p.X < 3
			raised = raised || p.Z > 0
		}
		if flat && raised {
			t.Errorf("triangle %v straddles the bend", tri)
		}
	}
	plan, err := r.plan(patch)
	if err != nil {
		t.Fatal(err)
	}
	plan.apply()
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	// Only the two free vertices on each side go, the bend vertices stay.
	if m.NumVertices() != 38 {
		t.Errorf("got %d vertices, want 38", m.NumVertices())
	}
	if selfIntersects(t, m) {
		t.Error("filled bend self-intersects")
	}
}
