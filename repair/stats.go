package repair

// Stats counts how regions were handled during a call to Remove.
type Stats struct {
	ConstrainedSmoothing     int
	UnconstrainedSmoothing   int
	ConstrainedHoleFilling   int
	UnconstrainedHoleFilling int
	// Unsolved regions were left as they were.
	Unsolved int
	// TopologyRejected regions were not disks and were left as they were.
	TopologyRejected int
	// Steps is the number of detection rounds started.
	Steps int
	// Residual is the number of intersecting pairs left when Remove fails.
	Residual int
}

// Repaired returns the number of regions replaced.
func (s Stats) Repaired() int {
	return s.ConstrainedSmoothing + s.UnconstrainedSmoothing +
		s.ConstrainedHoleFilling + s.UnconstrainedHoleFilling
}
