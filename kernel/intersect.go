package kernel

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Face is a triangle together with identifiers of its corners. Two faces
// sharing a corner identifier share that vertex in the mesh they come from,
// so touching at that vertex is not an intersection.
type Face struct {
	T r3.Triangle
	V [3]int
}

// Intersect reports whether faces a and b intersect in a way not explained by
// the vertices they share. Faces sharing all three vertices always intersect.
func Intersect(a, b Face) bool {
	var sa, sb [3]int // index in b of a's corner, or -1.
	shared := 0
	for i := range a.V {
		sa[i], sb[i] = -1, -1
	}
	for i := range a.V {
		for j := range b.V {
			if a.V[i] == b.V[j] {
				sa[i] = j
				sb[j] = i
				shared++
			}
		}
	}
	switch shared {
	case 0:
		return TrianglesIntersect(a.T, b.T)
	case 1:
		var i, j int
		for i = 0; sa[i] < 0; i++ {
		}
		j = sa[i]
		// Rotate so the shared vertex comes first.
		p := r3.Triangle{a.T[i], a.T[(i+1)%3], a.T[(i+2)%3]}
		q := r3.Triangle{b.T[j], b.T[(j+1)%3], b.T[(j+2)%3]}
		return sharedVertexIntersect(p, q)
	case 2:
		var i, j int
		for i = 0; sa[i] >= 0; i++ {
		}
		for j = 0; sb[j] >= 0; j++ {
		}
		return sharedEdgeIntersect(a.T[(i+1)%3], a.T[(i+2)%3], a.T[i], b.T[j])
	}
	return true
}

// TrianglesIntersect reports whether closed triangles p and q share a point.
func TrianglesIntersect(p, q r3.Triangle) bool {
	if degenerate(p) {
		a, b := longestEdge(p)
		return SegmentTriangle(a, b, q)
	}
	if degenerate(q) {
		a, b := longestEdge(q)
		return SegmentTriangle(a, b, p)
	}
	var oq, op [3]int
	for i := range q {
		oq[i] = Orient3D(p[0], p[1], p[2], q[i])
		op[i] = Orient3D(q[0], q[1], q[2], p[i])
	}
	if sameStrictSign(oq) || sameStrictSign(op) {
		return false
	}
	if oq == [3]int{} {
		return coplanarTriangles(p, q)
	}
	for i := range p {
		if segmentTriangle(p[i], p[(i+1)%3], q) || segmentTriangle(q[i], q[(i+1)%3], p) {
			return true
		}
	}
	return false
}

// SegmentTriangle reports whether the closed segment ab meets the closed triangle t.
func SegmentTriangle(a, b r3.Vec, t r3.Triangle) bool {
	if degenerate(t) {
		c, d := longestEdge(t)
		return SegmentsIntersect(a, b, c, d)
	}
	return segmentTriangle(a, b, t)
}

// segmentTriangle is SegmentTriangle for a triangle known not to be degenerate.
func segmentTriangle(a, b r3.Vec, t r3.Triangle) bool {
	sa := Orient3D(t[0], t[1], t[2], a)
	sb := Orient3D(t[0], t[1], t[2], b)
	if sa == sb && sa != 0 {
		return false
	}
	if sa == 0 && sb == 0 {
		pr := newProjector(t.Normal())
		return segmentTriangle2(pr.project(a), pr.project(b),
			pr.project(t[0]), pr.project(t[1]), pr.project(t[2]))
	}
	// Segment crosses or touches the plane: the line through ab must pass
	// through the triangle.
	o0 := Orient3D(a, b, t[0], t[1])
	o1 := Orient3D(a, b, t[1], t[2])
	o2 := Orient3D(a, b, t[2], t[0])
	return (o0 >= 0 && o1 >= 0 && o2 >= 0) || (o0 <= 0 && o1 <= 0 && o2 <= 0)
}

// SegmentsIntersect reports whether closed segments ab and cd share a point.
// Non-coplanar segments never intersect.
func SegmentsIntersect(a, b, c, d r3.Vec) bool {
	if Orient3D(a, b, c, d) != 0 {
		return false
	}
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	if n2 := r3.Cross(r3.Sub(b, a), r3.Sub(d, a)); r3.Norm2(n2) > r3.Norm2(n) {
		n = n2
	}
	if n3 := r3.Cross(r3.Sub(d, c), r3.Sub(a, c)); r3.Norm2(n3) > r3.Norm2(n) {
		n = n3
	}
	var pr projector
	if n == (r3.Vec{}) {
		// All four points collinear: project along the axis the line varies least in.
		dir := r3.Sub(b, a)
		if dir == (r3.Vec{}) {
			dir = r3.Sub(d, c)
		}
		pr = newProjector(leastAxis(dir))
	} else {
		pr = newProjector(n)
	}
	return segments2(pr.project(a), pr.project(b), pr.project(c), pr.project(d))
}

// sharedEdgeIntersect tests triangles (u,v,a) and (v,u,b) sharing edge uv.
// They intersect only when folded onto each other.
func sharedEdgeIntersect(u, v, a, b r3.Vec) bool {
	if Orient3D(u, v, a, b) != 0 {
		return false
	}
	pr := newProjector(r3.Triangle{u, v, a}.Normal())
	pu, pv := pr.project(u), pr.project(v)
	oa := Orient2D(pu, pv, pr.project(a))
	ob := Orient2D(pu, pv, pr.project(b))
	return oa != 0 && oa == ob
}

// sharedVertexIntersect tests triangles p and q whose first corner is shared.
func sharedVertexIntersect(p, q r3.Triangle) bool {
	if degenerate(p) || degenerate(q) {
		return false
	}
	return segmentTriangle(p[1], p[2], q) || segmentTriangle(q[1], q[2], p)
}

func coplanarTriangles(p, q r3.Triangle) bool {
	pr := newProjector(p.Normal())
	var a, b [3]r2.Vec
	for i := range p {
		a[i] = pr.project(p[i])
		b[i] = pr.project(q[i])
	}
	for i := range a {
		if segmentTriangle2(a[i], a[(i+1)%3], b[0], b[1], b[2]) {
			return true
		}
	}
	return pointInTriangle2(b[0], a[0], a[1], a[2])
}

func segmentTriangle2(a, b, t0, t1, t2 r2.Vec) bool {
	if pointInTriangle2(a, t0, t1, t2) || pointInTriangle2(b, t0, t1, t2) {
		return true
	}
	return segments2(a, b, t0, t1) || segments2(a, b, t1, t2) || segments2(a, b, t2, t0)
}

func pointInTriangle2(p, a, b, c r2.Vec) bool {
	o0, o1, o2 := Orient2D(a, b, p), Orient2D(b, c, p), Orient2D(c, a, p)
	return (o0 >= 0 && o1 >= 0 && o2 >= 0) || (o0 <= 0 && o1 <= 0 && o2 <= 0)
}

func segments2(a, b, c, d r2.Vec) bool {
	o1, o2 := Orient2D(a, b, c), Orient2D(a, b, d)
	o3, o4 := Orient2D(c, d, a), Orient2D(c, d, b)
	if o1 != o2 && o3 != o4 && o1*o2 <= 0 && o3*o4 <= 0 {
		if o1 != 0 || o2 != 0 {
			return true
		}
	}
	return (o1 == 0 && onSegment2(a, b, c)) || (o2 == 0 && onSegment2(a, b, d)) ||
		(o3 == 0 && onSegment2(c, d, a)) || (o4 == 0 && onSegment2(c, d, b))
}

// onSegment2 reports whether p, known collinear with ab, lies within the segment.
func onSegment2(a, b, p r2.Vec) bool {
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}

func sameStrictSign(o [3]int) bool {
	return o[0] == o[1] && o[1] == o[2] && o[0] != 0
}

func degenerate(t r3.Triangle) bool {
	if n := t.Normal(); abs(n.X)+abs(n.Y)+abs(n.Z) > 1e-3*r3.Norm2(r3.Sub(t[1], t[0])) {
		return false
	}
	return Orient3D(t[0], t[1], t[2], r3.Add(t[0], r3.Vec{X: 1})) == 0 &&
		Orient3D(t[0], t[1], t[2], r3.Add(t[0], r3.Vec{Y: 1})) == 0 &&
		Orient3D(t[0], t[1], t[2], r3.Add(t[0], r3.Vec{Z: 1})) == 0
}

func longestEdge(t r3.Triangle) (r3.Vec, r3.Vec) {
	best, bi := -1.0, 0
	for i := range t {
		if l := r3.Norm2(r3.Sub(t[(i+1)%3], t[i])); l > best {
			best, bi = l, i
		}
	}
	return t[bi], t[(bi+1)%3]
}

// leastAxis returns the unit axis along which dir has the smallest magnitude.
func leastAxis(dir r3.Vec) r3.Vec {
	ax, ay, az := abs(dir.X), abs(dir.Y), abs(dir.Z)
	switch {
	case ax <= ay && ax <= az:
		return r3.Vec{X: 1}
	case ay <= az:
		return r3.Vec{Y: 1}
	}
	return r3.Vec{Z: 1}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
