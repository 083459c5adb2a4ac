package meshgen

import (
	"testing"

	"github.com/soypat/meshfix"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestGrid(t *testing.T) {
	m := Grid(4, 3)
	if m.NumVertices() != 12 || m.NumFaces() != 12 {
		t.Fatalf("got V=%d F=%d, want V=12 F=12", m.NumVertices(), m.NumFaces())
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	for _, f := range m.Faces() {
		if n := m.FaceNormal(f); n.Z != 1 {
			t.Fatalf("face %d normal %v, want +Z", f, n)
		}
	}
	if cycles := m.BorderCycles(); len(cycles) != 1 || len(cycles[0]) != 10 {
		t.Errorf("got border cycles %v, want one of length 10", cycles)
	}
}

func TestGridWithHole(t *testing.T) {
	m := GridWithHole(6, 6, 2, 2)
	if m.NumFaces() != 48 {
		t.Fatalf("got %d faces, want 48", m.NumFaces())
	}
	if cycles := m.BorderCycles(); len(cycles) != 2 {
		t.Errorf("got %d border cycles, want 2", len(cycles))
	}
}

func TestBentGrid(t *testing.T) {
	m := BentGrid(7, 4, 3)
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if p := m.Point(meshfix.Vertex(GridVertex(7, 6, 1))); p != (r3.Vec{X: 3, Y: 1, Z: 3}) {
		t.Errorf("got corner %v, want (3,1,3)", p)
	}
	for _, f := range m.Faces() {
		n := m.FaceNormal(f)
		if n != (r3.Vec{Z: 1}) && n != (r3.Vec{X: -1}) {
			t.Errorf("face %d normal %v, want +Z or -X", f, n)
		}
	}
}

func TestSphere(t *testing.T) {
	m, err := Sphere(1, 16)
	if err != nil {
		t.Fatal(err)
	}
	if m.NumFaces() == 0 {
		t.Fatal("empty sphere")
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	bb := m.Bounds(m.Faces())
	if bb.Max.X > 1.01 || bb.Min.X < -1.01 {
		t.Errorf("sphere bounds %v exceed radius", bb)
	}
}
