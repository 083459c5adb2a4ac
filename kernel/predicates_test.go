package kernel

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestOrient3D(t *testing.T) {
	a, b, c := r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1}
	for _, test := range []struct {
		d    r3.Vec
		want int
	}{
		{d: r3.Vec{Z: -1}, want: 1},
		{d: r3.Vec{Z: 1}, want: -1},
		{d: r3.Vec{X: 0.3, Y: 0.3}, want: 0},
		{d: r3.Vec{X: 5, Y: -7}, want: 0},
		{d: r3.Vec{X: 0.3, Y: 0.3, Z: 1e-300}, want: -1},
	} {
		if got := Orient3D(a, b, c, test.d); got != test.want {
			t.Errorf("orient3d(%v): got %d, want %d", test.d, got, test.want)
		}
	}
}

func TestOrient2D(t *testing.T) {
	a, b := r2.Vec{}, r2.Vec{X: 3, Y: 3}
	for _, test := range []struct {
		c    r2.Vec
		want int
	}{
		{c: r2.Vec{X: 1, Y: 1}, want: 0},
		{c: r2.Vec{X: 1, Y: 1 + 1e-15}, want: 1},
		{c: r2.Vec{X: 1 + 1e-15, Y: 1}, want: -1},
		{c: r2.Vec{X: -4, Y: -4}, want: 0},
	} {
		if got := Orient2D(a, b, test.c); got != test.want {
			t.Errorf("orient2d(%v): got %d, want %d", test.c, got, test.want)
		}
	}
}

func TestProjectorKeepsOrientation(t *testing.T) {
	for _, tri := range []r3.Triangle{
		{{}, {X: 1}, {Y: 1}},
		{{}, {Y: 1}, {X: 1}},
		{{}, {Y: 1}, {Z: 1}},
		{{}, {Z: 1}, {Y: 1}},
		{{}, {Z: 1}, {X: 1}},
		{{}, {X: 1}, {Z: 1}},
	} {
		pr := newProjector(tri.Normal())
		if got := Orient2D(pr.project(tri[0]), pr.project(tri[1]), pr.project(tri[2])); got != 1 {
			t.Errorf("triangle %v projected with orientation %d", tri, got)
		}
	}
}
