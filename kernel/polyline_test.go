package kernel

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestIsSimpleCycle(t *testing.T) {
	square := []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}
	bowtie := []r3.Vec{{}, {X: 1, Y: 1}, {X: 1}, {Y: 1}}
	lifted := []r3.Vec{{}, {X: 1, Y: 1, Z: 1}, {X: 1}, {Y: 1}}
	for _, test := range []struct {
		name string
		pts  []r3.Vec
		ids  []int
		want bool
	}{
		{name: "square", pts: square, ids: []int{0, 1, 2, 3}, want: true},
		{name: "bowtie", pts: bowtie, ids: []int{0, 1, 2, 3}, want: false},
		{name: "skew bowtie", pts: lifted, ids: []int{0, 1, 2, 3}, want: true},
		{name: "repeated corner", pts: square, ids: []int{0, 1, 0, 3}, want: false},
		{name: "triangle", pts: square[:3], ids: []int{0, 1, 2}, want: true},
		{name: "segment", pts: square[:2], ids: []int{0, 1}, want: false},
	} {
		if got := IsSimpleCycle(test.pts, test.ids); got != test.want {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}
