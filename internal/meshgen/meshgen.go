// Package meshgen builds small procedural meshes used to exercise the repair code.
package meshgen

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	"github.com/soypat/meshfix"
	"gonum.org/v1/gonum/spatial/r3"
)

// GridVertex returns the vertex index of grid point (i,j) in a grid nx vertices wide.
func GridVertex(nx, i, j int) int { return j*nx + i }

// GridSoup returns the points and faces of a flat nx by ny vertex grid with
// unit spacing in the XY plane, faces pointing +Z. Every quad is split along
// its (i,j)-(i+1,j+1) diagonal. Quads for which skip returns true are left out.
func GridSoup(nx, ny int, skip func(i, j int) bool) ([]r3.Vec, [][3]int) {
	pts := make([]r3.Vec, 0, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			pts = append(pts, r3.Vec{X: float64(i), Y: float64(j)})
		}
	}
	var faces [][3]int
	for j := 0; j+1 < ny; j++ {
		for i := 0; i+1 < nx; i++ {
			if skip != nil && skip(i, j) {
				continue
			}
			v00 := GridVertex(nx, i, j)
			v10 := GridVertex(nx, i+1, j)
			v11 := GridVertex(nx, i+1, j+1)
			v01 := GridVertex(nx, i, j+1)
			faces = append(faces, [3]int{v00, v10, v11}, [3]int{v00, v11, v01})
		}
	}
	return pts, faces
}

// Grid returns the mesh of GridSoup(nx, ny, nil).
func Grid(nx, ny int) *meshfix.Mesh {
	return must(meshfix.NewMesh(GridSoup(nx, ny, nil)))
}

// GridWithHole returns a grid missing the quad whose lower left corner is (hi,hj).
func GridWithHole(nx, ny, hi, hj int) *meshfix.Mesh {
	return must(meshfix.NewMesh(GridSoup(nx, ny, func(i, j int) bool {
		return i == hi && j == hj
	})))
}

// BentGrid returns Grid(nx, ny) with the columns beyond x=bend rotated a
// right angle upwards about the line x=bend.
func BentGrid(nx, ny, bend int) *meshfix.Mesh {
	pts, faces := GridSoup(nx, ny, nil)
	b := float64(bend)
	for i, p := range pts {
		if p.X > b {
			pts[i] = r3.Vec{X: b, Y: p.Y, Z: p.X - b}
		}
	}
	return must(meshfix.NewMesh(pts, faces))
}

// FoldedQuad returns two triangles sharing edge a-c whose apexes lie on the
// same side of it, so that one folds over the other.
func FoldedQuad() *meshfix.Mesh {
	return must(meshfix.NewMesh([]r3.Vec{
		{}, {X: 1, Y: 1}, {X: 2}, {X: 1, Y: 0.5},
	}, [][3]int{{0, 1, 2}, {0, 2, 3}}))
}

// Sphere tessellates a sphere of the given radius with marching cubes over
// a grid of cells divisions along its longest side.
func Sphere(radius float64, cells int) (*meshfix.Mesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("meshgen: sphere: %w", err)
	}
	tris := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))
	soup := make([]r3.Triangle, len(tris))
	for i, t := range tris {
		for j := 0; j < 3; j++ {
			soup[i][j] = r3.Vec{X: t[j].X, Y: t[j].Y, Z: t[j].Z}
		}
	}
	return meshfix.FromTriangles(soup, 0)
}

func must(m *meshfix.Mesh, err error) *meshfix.Mesh {
	if err != nil {
		panic("bug: " + err.Error())
	}
	return m
}
