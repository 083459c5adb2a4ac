package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/meshfix/internal/meshgen"
	"github.com/soypat/meshfix/render"
)

func TestOBJRoundTrip(t *testing.T) {
	m := meshgen.Grid(4, 3)
	path := filepath.Join(t.TempDir(), "grid.obj")
	fp, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := render.WriteOBJ(fp, m); err != nil {
		t.Fatal(err)
	}
	if err := fp.Close(); err != nil {
		t.Fatal(err)
	}
	got, err := render.LoadOBJ(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m.Triangles(nil), got); diff != "" {
		t.Errorf("OBJ readback (-want +got):\n%s", diff)
	}
	welded, err := render.ToMesh(got, 0)
	if err != nil {
		t.Fatal(err)
	}
	if welded.NumVertices() != m.NumVertices() || welded.NumFaces() != m.NumFaces() {
		t.Errorf("welded mesh has %d vertices and %d faces, want %d and %d",
			welded.NumVertices(), welded.NumFaces(), m.NumVertices(), m.NumFaces())
	}
}
