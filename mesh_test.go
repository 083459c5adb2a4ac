package meshfix

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r3"
)

func quad(t *testing.T) *Mesh {
	t.Helper()
	m, err := NewMesh([]r3.Vec{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}, [][3]int{{0, 1, 2}, {0, 2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewMesh(t *testing.T) {
	m := quad(t)
	if m.NumVertices() != 4 || m.NumEdges() != 5 || m.NumFaces() != 2 {
		t.Fatalf("got V=%d E=%d F=%d, want 4 5 2", m.NumVertices(), m.NumEdges(), m.NumFaces())
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	cycles := m.BorderCycles()
	if len(cycles) != 1 || len(cycles[0]) != 4 {
		t.Fatalf("want one border cycle of 4 halfedges, got %v", cycles)
	}
	h, ok := m.HalfedgeBetween(0, 2)
	if !ok || m.IsBorderEdge(h) {
		t.Fatal("diagonal must exist and be interior")
	}
	if _, ok := m.HalfedgeBetween(1, 3); ok {
		t.Fatal("unexpected edge between 1 and 3")
	}
	for _, v := range m.Vertices() {
		if !m.IsBorderVertex(v) {
			t.Errorf("vertex %d should be on the border", v)
		}
		if !m.IsBorder(m.Halfedge(v)) {
			t.Errorf("border vertex %d not anchored on border", v)
		}
	}
	if got := m.Degree(0); got != 3 {
		t.Errorf("degree of vertex 0: got %d, want 3", got)
	}
	if got := m.VertexFaces(0); len(got) != 2 {
		t.Errorf("vertex 0 faces: got %v", got)
	}
	n := m.FaceNormal(0)
	if diff := cmp.Diff(r3.Vec{Z: 1}, n); diff != "" {
		t.Errorf("normal mismatch (-want +got):\n%s", diff)
	}
}

func TestNewMeshErrors(t *testing.T) {
	pts := []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}, {X: 1, Y: 1}}
	for _, test := range []struct {
		name  string
		faces [][3]int
		want  error
	}{
		{name: "degenerate", faces: [][3]int{{0, 1, 1}}, want: ErrDegenerateFace},
		{name: "flipped neighbour", faces: [][3]int{{0, 1, 2}, {0, 1, 4}}, want: ErrNonManifoldEdge},
		{name: "three faces on edge", faces: [][3]int{{0, 1, 2}, {1, 0, 3}, {1, 0, 4}}, want: ErrNonManifoldEdge},
	} {
		_, err := NewMesh(pts, test.faces)
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got %v, want %v", test.name, err, test.want)
		}
	}
	if _, err := NewMesh(pts, [][3]int{{0, 1, 9}}); err == nil {
		t.Error("expected out of range error")
	}
}

func TestFromTriangles(t *testing.T) {
	a, b, c, d := r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1}, r3.Vec{Y: 1}
	jitter := r3.Vec{X: 1e-7}
	m, err := FromTriangles([]r3.Triangle{{a, b, c}, {r3.Add(a, jitter), c, d}}, 1e-5)
	if err != nil {
		t.Fatal(err)
	}
	if m.NumVertices() != 4 || m.NumFaces() != 2 {
		t.Fatalf("got V=%d F=%d, want 4 2", m.NumVertices(), m.NumFaces())
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	pts, faces := m.Soup()
	if len(pts) != 4 || len(faces) != 2 {
		t.Fatalf("soup sizes %d %d", len(pts), len(faces))
	}
}

func TestStorageReuse(t *testing.T) {
	m := quad(t)
	m.RemoveFace(1)
	f := m.AddFace()
	if f != 1 {
		t.Errorf("face storage not reused: got %d", f)
	}
	v := m.AddVertex(r3.Vec{Z: 3})
	m.RemoveVertex(v)
	if !m.IsRemovedVertex(v) {
		t.Fatal("vertex not removed")
	}
	if got := m.AddVertex(r3.Vec{}); got != v {
		t.Errorf("vertex storage not reused: got %d want %d", got, v)
	}
	h := m.AddEdge()
	m.RemoveEdge(m.EdgeOf(h))
	if got := m.AddEdge(); got != h {
		t.Errorf("edge storage not reused: got %d want %d", got, h)
	}
	c := m.Clone()
	c.SetPoint(0, r3.Vec{Z: 9})
	if m.Point(0) == c.Point(0) {
		t.Error("clone shares positions")
	}
}

func TestDuplicateNonManifoldVertices(t *testing.T) {
	// Two triangles touching at vertex 0 only.
	m, err := NewMesh([]r3.Vec{
		{}, {X: 1}, {X: 1, Y: 1}, {X: -1}, {X: -1, Y: -1},
	}, [][3]int{{0, 1, 2}, {0, 3, 4}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Vertex{0}, m.NonManifoldVertices()); diff != "" {
		t.Fatalf("non-manifold vertices (-want +got):\n%s", diff)
	}
	if n := m.DuplicateNonManifoldVertices(); n != 1 {
		t.Fatalf("created %d vertices, want 1", n)
	}
	if m.NumVertices() != 6 {
		t.Fatalf("got %d vertices", m.NumVertices())
	}
	if len(m.NonManifoldVertices()) != 0 {
		t.Fatal("vertex still non-manifold")
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if m.Point(5) != m.Point(0) {
		t.Error("duplicate must share position")
	}
}
