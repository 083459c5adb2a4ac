package kernel

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestIntersect(t *testing.T) {
	base := Face{
		T: r3.Triangle{{}, {X: 2}, {Y: 2}},
		V: [3]int{0, 1, 2},
	}
	for _, test := range []struct {
		name string
		f    Face
		want bool
	}{
		{
			name: "piercing",
			f:    Face{T: r3.Triangle{{X: 0.5, Y: 0.5, Z: -1}, {X: 0.5, Y: 0.5, Z: 1}, {X: 3, Y: 3}}, V: [3]int{3, 4, 5}},
			want: true,
		},
		{
			name: "above",
			f:    Face{T: r3.Triangle{{X: 0.5, Y: 0.5, Z: 4}, {X: 0.5, Y: 0.5, Z: 6}, {X: 3, Y: 3, Z: 5}}, V: [3]int{3, 4, 5}},
			want: false,
		},
		{
			name: "touching corner",
			f:    Face{T: r3.Triangle{{}, {X: -1, Z: 1}, {Y: -1, Z: 1}}, V: [3]int{3, 4, 5}},
			want: true,
		},
		{
			name: "shared corner",
			f:    Face{T: r3.Triangle{{}, {X: -1, Z: 1}, {Y: -1, Z: 1}}, V: [3]int{0, 4, 5}},
			want: false,
		},
		{
			name: "shared corner crossing",
			f:    Face{T: r3.Triangle{{}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1}}, V: [3]int{0, 4, 5}},
			want: true,
		},
		{
			name: "shared edge flat",
			f:    Face{T: r3.Triangle{{X: 2}, {}, {Y: -2}}, V: [3]int{1, 0, 5}},
			want: false,
		},
		{
			name: "shared edge folded",
			f:    Face{T: r3.Triangle{{X: 2}, {}, {X: 0.5, Y: 0.5}}, V: [3]int{1, 0, 5}},
			want: true,
		},
		{
			name: "shared edge bent",
			f:    Face{T: r3.Triangle{{X: 2}, {}, {X: 0.5, Y: 0.5, Z: 0.1}}, V: [3]int{1, 0, 5}},
			want: false,
		},
		{
			name: "coplanar overlap",
			f:    Face{T: r3.Triangle{{X: 0.5, Y: 0.5}, {X: 2.5, Y: 0.5}, {X: 0.5, Y: 2.5}}, V: [3]int{3, 4, 5}},
			want: true,
		},
		{
			name: "coplanar inside",
			f:    Face{T: r3.Triangle{{X: 0.1, Y: 0.1}, {X: 0.5, Y: 0.1}, {X: 0.1, Y: 0.5}}, V: [3]int{3, 4, 5}},
			want: true,
		},
		{
			name: "coplanar apart",
			f:    Face{T: r3.Triangle{{X: 3, Y: 3}, {X: 5, Y: 3}, {X: 3, Y: 5}}, V: [3]int{3, 4, 5}},
			want: false,
		},
		{
			name: "same vertices",
			f:    Face{T: base.T, V: [3]int{2, 0, 1}},
			want: true,
		},
	} {
		if got := Intersect(base, test.f); got != test.want {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
		if got := Intersect(test.f, base); got != test.want {
			t.Errorf("%s swapped: got %v, want %v", test.name, got, test.want)
		}
	}
}

func TestSegmentsIntersect(t *testing.T) {
	for _, test := range []struct {
		a, b, c, d r3.Vec
		want       bool
	}{
		{a: r3.Vec{}, b: r3.Vec{X: 2, Y: 2}, c: r3.Vec{X: 2}, d: r3.Vec{Y: 2}, want: true},
		{a: r3.Vec{}, b: r3.Vec{X: 2, Y: 2}, c: r3.Vec{X: 2, Z: 1}, d: r3.Vec{Y: 2, Z: 1}, want: false},
		{a: r3.Vec{}, b: r3.Vec{X: 2}, c: r3.Vec{X: 1}, d: r3.Vec{X: 3}, want: true},
		{a: r3.Vec{}, b: r3.Vec{X: 2}, c: r3.Vec{X: 3}, d: r3.Vec{X: 4}, want: false},
		{a: r3.Vec{}, b: r3.Vec{Z: 2}, c: r3.Vec{Z: 2}, d: r3.Vec{Z: 4}, want: true},
	} {
		if got := SegmentsIntersect(test.a, test.b, test.c, test.d); got != test.want {
			t.Errorf("segments %v-%v and %v-%v: got %v, want %v", test.a, test.b, test.c, test.d, got, test.want)
		}
	}
}

func TestDegenerateTriangles(t *testing.T) {
	flat := r3.Triangle{{}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	if !degenerate(flat) {
		t.Fatal("collinear triangle not detected")
	}
	if !TrianglesIntersect(flat, r3.Triangle{{X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1}, {X: 2, Y: 0}}) {
		t.Error("segment-like triangle should meet triangle through its middle")
	}
	if TrianglesIntersect(flat, r3.Triangle{{X: 5, Z: -1}, {X: 5, Z: 1}, {X: 6}}) {
		t.Error("segment-like triangle should miss far triangle")
	}
}
