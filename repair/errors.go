package repair

import "errors"

var (
	// ErrUnsolvableRegion is reported for regions no strategy could repair,
	// including regions made of a single face.
	ErrUnsolvableRegion = errors.New("repair: unsolvable region")
	// ErrNonSimpleBoundary is reported when two non-adjacent segments of a
	// region boundary intersect, making its triangulation ill-posed.
	ErrNonSimpleBoundary = errors.New("repair: region boundary is not simple")
	// ErrTopologyRejected is reported for regions that are not topological
	// disks when the genus must be preserved.
	ErrTopologyRejected = errors.New("repair: region is not a disk and genus is preserved")
	// ErrPatchInvalid is reported when a candidate patch fails validation.
	ErrPatchInvalid = errors.New("repair: invalid patch")
	// ErrStepBudgetExhausted is returned by Remove when self-intersections
	// remain after the last step. The mesh is left valid.
	ErrStepBudgetExhausted = errors.New("repair: step budget exhausted")
	// ErrStopped is returned by Remove when the visitor requested a stop.
	ErrStopped = errors.New("repair: stopped by visitor")
)
