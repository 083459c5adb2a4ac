package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/meshfix"
	"gonum.org/v1/gonum/spatial/r3"
)

// LoadOBJ reads the faces of a Wavefront OBJ file as triangles. Polygons
// are fanned into triangles.
func LoadOBJ(path string) ([]r3.Triangle, error) {
	mesh, err := fauxgl.LoadOBJ(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	tris := make([]r3.Triangle, len(mesh.Triangles))
	for i, t := range mesh.Triangles {
		tris[i] = r3.Triangle{
			fromFauxgl(t.V1.Position),
			fromFauxgl(t.V2.Position),
			fromFauxgl(t.V3.Position),
		}
	}
	return tris, nil
}

// WriteOBJ writes the live vertices and faces of m as an indexed OBJ.
func WriteOBJ(w io.Writer, m *meshfix.Mesh) error {
	points, faces := m.Soup()
	bw := bufio.NewWriter(w)
	for _, p := range points {
		fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
	}
	for _, f := range faces {
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	return bw.Flush()
}

func fromFauxgl(v fauxgl.Vector) r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

func toFauxgl(v r3.Vec) fauxgl.Vector { return fauxgl.Vector{X: v.X, Y: v.Y, Z: v.Z} }
