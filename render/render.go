// Package render reads and writes triangle meshes as STL and OBJ files and
// draws shaded previews of them.
package render

import (
	"io"

	"github.com/soypat/meshfix"
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer streams triangles. ReadTriangles fills t and returns the number
// of triangles read, or io.EOF once the stream is exhausted.
type Renderer interface {
	ReadTriangles(t []r3.Triangle) (int, error)
}

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.ReadAll implementation.
func RenderAll(r Renderer) ([]r3.Triangle, error) {
	var err error
	var nt int
	result := make([]r3.Triangle, 0, 1<<12)
	buf := make([]r3.Triangle, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// SoupRenderer streams a fixed slice of triangles.
type SoupRenderer struct {
	buf []r3.Triangle
}

// NewSoupRenderer returns a Renderer reading tris in order.
func NewSoupRenderer(tris []r3.Triangle) *SoupRenderer {
	return &SoupRenderer{buf: tris}
}

// NewMeshRenderer returns a Renderer reading the live faces of m in order.
func NewMeshRenderer(m *meshfix.Mesh) *SoupRenderer {
	return NewSoupRenderer(m.Triangles(nil))
}

// ReadTriangles copies the next triangles into t.
func (s *SoupRenderer) ReadTriangles(t []r3.Triangle) (int, error) {
	if len(s.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(t, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

// Len returns the number of triangles left to read.
func (s *SoupRenderer) Len() int { return len(s.buf) }

// ToMesh welds a triangle soup into a mesh, merging vertices closer than tol.
func ToMesh(tris []r3.Triangle, tol float64) (*meshfix.Mesh, error) {
	return meshfix.FromTriangles(tris, tol)
}
