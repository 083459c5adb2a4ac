package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/meshfix/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// View places the preview camera. Positions are in the bi-unit cube the
// model is fitted to before drawing.
type View struct {
	Eye    r3.Vec
	Center r3.Vec
	Up     r3.Vec
	Near   float64
	Far    float64
	// Fovy is the vertical field of view in degrees.
	Fovy float64
}

// DefaultView looks at the model from an isometric corner with Z up.
var DefaultView = View{
	Eye:  r3.Vec{X: 2.4, Y: 2.4, Z: 2.4},
	Up:   r3.Vec{Z: 1},
	Near: 1,
	Far:  10,
	Fovy: 30,
}

// supersampling factor of the preview before it is downscaled.
const previewScale = 2

// Preview draws a Phong shaded image of tris, width by height pixels.
func Preview(tris []r3.Triangle, width, height int, view View) (image.Image, error) {
	if len(tris) == 0 {
		return nil, errors.New("nothing to preview")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New("preview size must be positive")
	}
	faux := make([]*fauxgl.Triangle, 0, len(tris))
	for _, t := range tris {
		if d3.UnitNormal(t) == (r3.Vec{}) {
			continue
		}
		faux = append(faux, fauxgl.NewTriangleForPoints(toFauxgl(t[0]), toFauxgl(t[1]), toFauxgl(t[2])))
	}
	if len(faux) == 0 {
		return nil, errors.New("only degenerate triangles to preview")
	}
	mesh := fauxgl.NewTriangleMesh(faux)
	var (
		eye    = toFauxgl(view.Eye)
		center = toFauxgl(view.Center)
		up     = toFauxgl(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		color  = fauxgl.HexColor("#468966")
	)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(width*previewScale, height*previewScale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(view.Fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	return resize.Resize(uint(width), uint(height), context.Image(), resize.Bilinear), nil
}

// SavePNG writes img to a PNG file at path.
func SavePNG(path string, img image.Image) error {
	return fauxgl.SavePNG(path, img)
}
