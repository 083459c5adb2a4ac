package kernel

import (
	"math"

	georeal "github.com/golang/geo/r3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Error bound coefficients for the floating point filters, from
// Shewchuk's adaptive predicates.
const (
	o3dErrBound = (7 + 56*epsilon) * epsilon
	o2dErrBound = (3 + 16*epsilon) * epsilon
	epsilon     = 0x1p-53
)

// Orient3D returns the sign of the volume of the tetrahedron abcd:
// +1 if d lies below the plane through a, b, c (seen from where a, b, c
// appear counter clockwise), -1 if above and 0 if the four points are coplanar.
// The result is exact.
func Orient3D(a, b, c, d r3.Vec) int {
	ad, bd, cd := r3.Sub(a, d), r3.Sub(b, d), r3.Sub(c, d)
	bdxcdy := bd.X * cd.Y
	cdxbdy := cd.X * bd.Y
	cdxady := cd.X * ad.Y
	adxcdy := ad.X * cd.Y
	adxbdy := ad.X * bd.Y
	bdxady := bd.X * ad.Y
	det := ad.Z*(bdxcdy-cdxbdy) + bd.Z*(cdxady-adxcdy) + cd.Z*(adxbdy-bdxady)
	permanent := (math.Abs(bdxcdy)+math.Abs(cdxbdy))*math.Abs(ad.Z) +
		(math.Abs(cdxady)+math.Abs(adxcdy))*math.Abs(bd.Z) +
		(math.Abs(adxbdy)+math.Abs(bdxady))*math.Abs(cd.Z)
	if det > o3dErrBound*permanent {
		return 1
	} else if -det > o3dErrBound*permanent {
		return -1
	}
	return orient3DExact(a, b, c, d)
}

func orient3DExact(a, b, c, d r3.Vec) int {
	pd := precise(d)
	ad := precise(a).Sub(pd)
	bd := precise(b).Sub(pd)
	cd := precise(c).Sub(pd)
	return ad.Dot(bd.Cross(cd)).Sign()
}

// Orient2D returns +1 if a, b, c are counter clockwise, -1 if clockwise
// and 0 if collinear. The result is exact.
func Orient2D(a, b, c r2.Vec) int {
	detl := (a.X - c.X) * (b.Y - c.Y)
	detr := (a.Y - c.Y) * (b.X - c.X)
	det := detl - detr
	sum := math.Abs(detl) + math.Abs(detr)
	if det > o2dErrBound*sum {
		return 1
	} else if -det > o2dErrBound*sum {
		return -1
	}
	pc := georeal.NewPreciseVector(c.X, c.Y, 0)
	ac := georeal.NewPreciseVector(a.X, a.Y, 0).Sub(pc)
	bc := georeal.NewPreciseVector(b.X, b.Y, 0).Sub(pc)
	return ac.Cross(bc).Z.Sign()
}

func precise(v r3.Vec) georeal.PreciseVector {
	return georeal.NewPreciseVector(v.X, v.Y, v.Z)
}

// projector drops the coordinate axis along which a plane normal is largest,
// mapping a plane to 2D without collapsing it.
type projector int

func newProjector(n r3.Vec) projector {
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case az >= ax && az >= ay:
		if n.Z < 0 {
			return projector(-3)
		}
		return 3
	case ay >= ax:
		if n.Y < 0 {
			return projector(-2)
		}
		return 2
	default:
		if n.X < 0 {
			return projector(-1)
		}
		return 1
	}
}

// project keeps orientation: a counter clockwise triangle seen from the
// side the normal points to stays counter clockwise.
func (pr projector) project(v r3.Vec) r2.Vec {
	switch pr {
	case 3:
		return r2.Vec{X: v.X, Y: v.Y}
	case -3:
		return r2.Vec{X: v.Y, Y: v.X}
	case 2:
		return r2.Vec{X: v.Z, Y: v.X}
	case -2:
		return r2.Vec{X: v.X, Y: v.Z}
	case 1:
		return r2.Vec{X: v.Y, Y: v.Z}
	default:
		return r2.Vec{X: v.Z, Y: v.Y}
	}
}
