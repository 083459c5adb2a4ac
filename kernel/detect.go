package kernel

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/soypat/meshfix"
	"github.com/soypat/meshfix/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// R-tree node fan out.
const (
	rtreeMinChildren = 8
	rtreeMaxChildren = 24
)

// boxed is a triangle stored in an R-tree.
type boxed struct {
	idx int
	bb  rtreego.Rect
}

func (b *boxed) Bounds() rtreego.Rect { return b.bb }

// rect converts bb to an R-tree rectangle padded by pad on every side so
// that touching boxes overlap.
func rect(bb d3.Box, pad float64) rtreego.Rect {
	bb = bb.Enlarge(d3.Elem(2 * pad))
	r, err := rtreego.NewRectFromPoints(
		rtreego.Point{bb.Min.X, bb.Min.Y, bb.Min.Z},
		rtreego.Point{bb.Max.X, bb.Max.Y, bb.Max.Z},
	)
	if err != nil {
		panic("bug: " + err.Error())
	}
	return r
}

// padding returns the box padding used for a set of triangles with bounds bb.
func padding(bb d3.Box) float64 {
	return 1e-9*bb.Diagonal() + 1e-300
}

// Detector finds intersecting face pairs. Candidate pairs come from an
// R-tree over face bounding boxes and are checked concurrently.
type Detector struct {
	// Workers bounds the goroutines used for exact checks.
	// Zero uses GOMAXPROCS.
	Workers int
}

// Pairs returns the index pairs (i<j) of faces that intersect, sorted.
func (d Detector) Pairs(ctx context.Context, faces []Face) ([][2]int, error) {
	if len(faces) < 2 {
		return nil, nil
	}
	all := d3.EmptyBox()
	boxes := make([]d3.Box, len(faces))
	for i := range faces {
		boxes[i] = d3.TriangleBox(faces[i].T)
		all = all.Extend(boxes[i])
	}
	pad := padding(all)
	objs := make([]rtreego.Spatial, len(faces))
	for i := range faces {
		objs[i] = &boxed{idx: i, bb: rect(boxes[i], pad)}
	}
	tree := rtreego.NewTree(3, rtreeMinChildren, rtreeMaxChildren, objs...)
	var candidates [][2]int
	for i := range faces {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		above := func(results []rtreego.Spatial, obj rtreego.Spatial) (refuse, abort bool) {
			return obj.(*boxed).idx <= i, false
		}
		for _, obj := range tree.SearchIntersect(objs[i].Bounds(), above) {
			candidates = append(candidates, [2]int{i, obj.(*boxed).idx})
		}
	}
	return d.narrow(ctx, faces, candidates)
}

func (d Detector) narrow(ctx context.Context, faces []Face, candidates [][2]int) ([][2]int, error) {
	workers := d.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	const chunk = 256
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		pairs [][2]int
		next  = make(chan [][2]int)
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var local [][2]int
			for batch := range next {
				for _, c := range batch {
					if Intersect(faces[c[0]], faces[c[1]]) {
						local = append(local, c)
					}
				}
			}
			mu.Lock()
			pairs = append(pairs, local...)
			mu.Unlock()
		}()
	}
	var err error
	for start := 0; start < len(candidates); start += chunk {
		if err = ctx.Err(); err != nil {
			break
		}
		next <- candidates[start:min(start+chunk, len(candidates))]
	}
	close(next)
	wg.Wait()
	if err != nil {
		return nil, err
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs, nil
}

// MeshFaces returns the kernel faces of the given mesh faces, corners
// identified by vertex handle.
func MeshFaces(m *meshfix.Mesh, faces []meshfix.Face) []Face {
	kf := make([]Face, len(faces))
	for i, f := range faces {
		vs := m.FaceVertices(f)
		kf[i] = Face{
			T: r3.Triangle{m.Point(vs[0]), m.Point(vs[1]), m.Point(vs[2])},
			V: [3]int{int(vs[0]), int(vs[1]), int(vs[2])},
		}
	}
	return kf
}

// SelfIntersections returns the pairs of faces among faces that intersect.
// If faces is nil every live face of m is checked.
func (d Detector) SelfIntersections(ctx context.Context, m *meshfix.Mesh, faces []meshfix.Face) ([][2]meshfix.Face, error) {
	if faces == nil {
		faces = m.Faces()
	}
	idx, err := d.Pairs(ctx, MeshFaces(m, faces))
	if err != nil {
		return nil, err
	}
	out := make([][2]meshfix.Face, len(idx))
	for i, p := range idx {
		out[i] = [2]meshfix.Face{faces[p[0]], faces[p[1]]}
	}
	return out, nil
}

// SelfIntersections returns all intersecting face pairs of m using a default Detector.
func SelfIntersections(ctx context.Context, m *meshfix.Mesh) ([][2]meshfix.Face, error) {
	return Detector{}.SelfIntersections(ctx, m, nil)
}

// DoesSelfIntersect reports whether any two faces of m intersect.
func DoesSelfIntersect(ctx context.Context, m *meshfix.Mesh) (bool, error) {
	pairs, err := SelfIntersections(ctx, m)
	return len(pairs) > 0, err
}

// SoupIntersects reports whether triangles, whose corners are identified by
// equal positions, intersect each other.
func SoupIntersects(ctx context.Context, tris []r3.Triangle) (bool, error) {
	ids := make(map[r3.Vec]int)
	faces := make([]Face, len(tris))
	for i, t := range tris {
		faces[i].T = t
		for j, p := range t {
			id, ok := ids[p]
			if !ok {
				id = len(ids)
				ids[p] = id
			}
			faces[i].V[j] = id
		}
	}
	pairs, err := Detector{}.Pairs(ctx, faces)
	return len(pairs) > 0, err
}
