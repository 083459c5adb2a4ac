package kernel

import (
	"github.com/dhconnelly/rtreego"
	"github.com/soypat/meshfix/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// IsSimpleCycle reports whether the closed polyline through points has no
// two non-adjacent segments sharing a point. ids identifies the corners:
// a corner appearing twice makes the cycle non-simple, and segments that
// meet at a common corner are not tested against each other.
func IsSimpleCycle(points []r3.Vec, ids []int) bool {
	n := len(points)
	if n < 3 || len(ids) != n {
		return false
	}
	seen := make(map[int]bool, n)
	for _, id := range ids {
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	if n == 3 {
		return true
	}
	all := d3.EmptyBox()
	boxes := make([]d3.Box, n)
	for i := range points {
		boxes[i] = d3.EmptyBox().Include(points[i]).Include(points[(i+1)%n])
		all = all.Extend(boxes[i])
	}
	pad := padding(all)
	objs := make([]rtreego.Spatial, n)
	for i := range boxes {
		objs[i] = &boxed{idx: i, bb: rect(boxes[i], pad)}
	}
	tree := rtreego.NewTree(3, rtreeMinChildren, rtreeMaxChildren, objs...)
	for i := range objs {
		above := func(results []rtreego.Spatial, obj rtreego.Spatial) (refuse, abort bool) {
			return obj.(*boxed).idx <= i, false
		}
		for _, obj := range tree.SearchIntersect(objs[i].Bounds(), above) {
			j := obj.(*boxed).idx
			if ids[i] == ids[(j+1)%n] || ids[(i+1)%n] == ids[j] {
				continue
			}
			if SegmentsIntersect(points[i], points[(i+1)%n], points[j], points[(j+1)%n]) {
				return false
			}
		}
	}
	return true
}
