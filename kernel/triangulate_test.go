package kernel

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/meshfix/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// planarThirds returns artificial third points for a hole lying in a plane,
// using the hole centroid as the inside reference.
func planarThirds(pts []r3.Vec) []r3.Vec {
	c := d3.Set(pts).Centroid()
	third := make([]r3.Vec, len(pts))
	for j := range pts {
		third[j] = ArtificialThirdPoint(pts[j], pts[(j+1)%len(pts)], c)
	}
	return third
}

func checkFill(t *testing.T, name string, pts []r3.Vec, tris [][3]int, wantArea float64) {
	t.Helper()
	if len(tris) != len(pts)-2 {
		t.Fatalf("%s: got %d triangles, want %d", name, len(tris), len(pts)-2)
	}
	area := 0.0
	for _, tri := range tris {
		if !(tri[0] < tri[1] && tri[1] < tri[2]) {
			t.Errorf("%s: triangle %v not in increasing order", name, tri)
		}
		n := r3.Triangle{pts[tri[0]], pts[tri[1]], pts[tri[2]]}.Normal()
		if n.Z <= 0 {
			t.Errorf("%s: triangle %v flipped", name, tri)
		}
		area += 0.5 * r3.Norm(n)
	}
	if math.Abs(area-wantArea) > 1e-9 {
		t.Errorf("%s: area %g, want %g", name, area, wantArea)
	}
}

func TestTriangulateHole(t *testing.T) {
	square := []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}
	var pentagon []r3.Vec
	for i := 0; i < 5; i++ {
		a := 2 * math.Pi * float64(i) / 5
		pentagon = append(pentagon, r3.Vec{X: math.Cos(a), Y: math.Sin(a)})
	}
	pentArea := 2.5 * math.Sin(2*math.Pi/5)
	// L shaped hexagon, not convex.
	ell := []r3.Vec{{}, {X: 2}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {Y: 2}}
	for _, restricted := range []bool{false, true} {
		checkFill(t, "square", square, TriangulateHole(square, planarThirds(square), restricted), 1)
		checkFill(t, "pentagon", pentagon, TriangulateHole(pentagon, planarThirds(pentagon), restricted), pentArea)
		checkFill(t, "ell", ell, TriangulateHole(ell, planarThirds(ell), restricted), 3)
	}
}

func TestTriangulateHoleSmall(t *testing.T) {
	tri := []r3.Vec{{}, {X: 1}, {Y: 1}}
	if diff := cmp.Diff([][3]int{{0, 1, 2}}, TriangulateHole(tri, planarThirds(tri), true)); diff != "" {
		t.Errorf("triangle hole mismatch (-want +got):\n%s", diff)
	}
	line := []r3.Vec{{}, {X: 1}, {X: 2}}
	if got := TriangulateHole(line, line, false); got != nil {
		t.Errorf("collinear hole filled with %v", got)
	}
	if got := TriangulateHole(tri[:2], tri[:2], false); got != nil {
		t.Errorf("two point hole filled with %v", got)
	}
}

// A quad folded over its diagonal is refilled using the other diagonal.
func TestTriangulateHoleFold(t *testing.T) {
	a, b, c, d := r3.Vec{}, r3.Vec{X: 1, Y: 1}, r3.Vec{X: 2}, r3.Vec{X: 1, Y: 0.5}
	pts := []r3.Vec{a, b, c, d}
	third := []r3.Vec{
		ArtificialThirdPoint(a, b, c),
		ArtificialThirdPoint(b, c, a),
		ArtificialThirdPoint(c, d, a),
		ArtificialThirdPoint(d, a, c),
	}
	for _, restricted := range []bool{false, true} {
		got := TriangulateHole(pts, third, restricted)
		if diff := cmp.Diff([][3]int{{0, 1, 3}, {1, 2, 3}}, got); diff != "" {
			t.Errorf("restricted=%v: fold fill mismatch (-want +got):\n%s", restricted, diff)
		}
	}
}

func TestArtificialThirdPoint(t *testing.T) {
	got := ArtificialThirdPoint(r3.Vec{}, r3.Vec{X: 2}, r3.Vec{X: 5, Y: 1})
	want := r3.Vec{X: 1, Y: -math.Sqrt(3)}
	if !d3.EqualWithin(got, want, 1e-12) {
		t.Errorf("got %v, want %v", got, want)
	}
}
