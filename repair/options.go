package repair

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/soypat/meshfix"
	"github.com/soypat/meshfix/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

// Detector reports the pairs of faces among faces that intersect.
// kernel.Detector is the default implementation.
type Detector interface {
	SelfIntersections(ctx context.Context, m *meshfix.Mesh, faces []meshfix.Face) ([][2]meshfix.Face, error)
}

// PairFilter reports whether a detected pair should be ignored.
type PairFilter func(a, b meshfix.Face) bool

// EnvelopeFactory returns the envelope candidate patches of a region must
// stay in, given the region's triangles before repair.
type EnvelopeFactory func(region []r3.Triangle) kernel.Envelope

// Options configures Remove.
type Options struct {
	// ExpansionRings is the number of face rings added around every region
	// on top of the current step number.
	ExpansionRings int
	// Local restricts repair to self-intersections within each region and
	// enables smoothing and constrained hole filling.
	Local bool
	// DihedralAngle in degrees below which interior edges are sharp.
	DihedralAngle float64
	// MaxSteps bounds the number of detection and repair rounds.
	MaxSteps int
	// Epsilon is the envelope radius around the original region
	// geometry. Zero disables the envelope unless Envelope is set.
	Epsilon float64
	// PreserveGenus rejects regions that are not topological disks.
	PreserveGenus bool
	// Envelope overrides the envelope built from Epsilon.
	Envelope EnvelopeFactory
	Detector Detector
	Filter   PairFilter
	Visitor  Visitor
}

// DefaultOptions returns the configuration used by Remove for the given mode.
func DefaultOptions(local bool) Options {
	steps := 7
	if local {
		steps = 2
	}
	return Options{
		Local:         local,
		DihedralAngle: 60,
		MaxSteps:      steps,
		PreserveGenus: true,
		Detector:      kernel.Detector{},
		Visitor:       NopVisitor{},
	}
}

// Option modifies Options.
type Option func(*Options) error

// WithExpansionRings grows every region by n extra rings of faces.
func WithExpansionRings(n int) Option {
	return func(o *Options) error {
		if n < 0 {
			return fmt.Errorf("repair: negative expansion rings %d", n)
		}
		o.ExpansionRings = n
		return nil
	}
}

// WithLocal selects local repair. Unless WithMaxSteps is given the step
// budget follows the mode.
func WithLocal(local bool) Option {
	return func(o *Options) error {
		o.Local = local
		return nil
	}
}

// WithDihedralAngle sets the sharp edge threshold in degrees.
func WithDihedralAngle(deg float64) Option {
	return func(o *Options) error {
		if !(deg > 0 && deg < 180) {
			return fmt.Errorf("repair: dihedral angle %g outside (0,180)", deg)
		}
		o.DihedralAngle = deg
		return nil
	}
}

// WithMaxSteps sets the step budget.
func WithMaxSteps(n int) Option {
	return func(o *Options) error {
		if n < 1 {
			return fmt.Errorf("repair: max steps %d must be positive", n)
		}
		o.MaxSteps = n
		return nil
	}
}

// WithEpsilon keeps patches within eps of the original region geometry.
func WithEpsilon(eps float64) Option {
	return func(o *Options) error {
		if eps < 0 {
			return fmt.Errorf("repair: negative envelope epsilon %g", eps)
		}
		o.Epsilon = eps
		return nil
	}
}

// WithPreserveGenus sets whether non-disk regions are rejected.
func WithPreserveGenus(preserve bool) Option {
	return func(o *Options) error {
		o.PreserveGenus = preserve
		return nil
	}
}

// WithEnvelope sets the envelope factory.
func WithEnvelope(f EnvelopeFactory) Option {
	return func(o *Options) error {
		o.Envelope = f
		return nil
	}
}

// WithDetector sets the pair detector.
func WithDetector(d Detector) Option {
	return func(o *Options) error {
		if d == nil {
			return errors.New("repair: nil detector")
		}
		o.Detector = d
		return nil
	}
}

// WithPairFilter discards detected pairs for which f returns true.
func WithPairFilter(f PairFilter) Option {
	return func(o *Options) error {
		o.Filter = f
		return nil
	}
}

// WithVisitor sets the visitor notified of progress.
func WithVisitor(v Visitor) Option {
	return func(o *Options) error {
		if v == nil {
			return errors.New("repair: nil visitor")
		}
		o.Visitor = v
		return nil
	}
}

// WithLogger reports progress to l.
func WithLogger(l *log.Logger) Option {
	return WithVisitor(LogVisitor{Logger: l})
}

func newOptions(opts []Option) (Options, error) {
	o := DefaultOptions(false)
	o.MaxSteps = 0
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return Options{}, err
		}
	}
	if o.MaxSteps == 0 {
		o.MaxSteps = DefaultOptions(o.Local).MaxSteps
	}
	if o.Envelope == nil && o.Epsilon > 0 {
		eps := o.Epsilon
		o.Envelope = func(region []r3.Triangle) kernel.Envelope {
			return kernel.NewEnvelope(region, eps)
		}
	}
	return o, nil
}
