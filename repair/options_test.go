package repair

import (
	"testing"

	"github.com/soypat/meshfix/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewOptionsSteps(t *testing.T) {
	for _, test := range []struct {
		opts []Option
		want int
	}{
		{want: 7},
		{opts: []Option{WithLocal(true)}, want: 2},
		{opts: []Option{WithLocal(true), WithMaxSteps(3)}, want: 3},
		{opts: []Option{WithMaxSteps(3), WithLocal(false)}, want: 3},
	} {
		o, err := newOptions(test.opts)
		if err != nil {
			t.Fatal(err)
		}
		if o.MaxSteps != test.want {
			t.Errorf("got %d steps, want %d", o.MaxSteps, test.want)
		}
	}
}

func TestNewOptionsInvalid(t *testing.T) {
	for name, opt := range map[string]Option{
		"rings":    WithExpansionRings(-1),
		"angle0":   WithDihedralAngle(0),
		"angle180": WithDihedralAngle(180),
		"steps":    WithMaxSteps(0),
		"epsilon":  WithEpsilon(-1),
		"detector": WithDetector(nil),
		"visitor":  WithVisitor(nil),
	} {
		if _, err := newOptions([]Option{opt}); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestNewOptionsEnvelope(t *testing.T) {
	o, err := newOptions(nil)
	if err != nil {
		t.Fatal(err)
	}
	if o.Envelope != nil {
		t.Error("envelope set without epsilon")
	}
	o, err = newOptions([]Option{WithEpsilon(0.1)})
	if err != nil {
		t.Fatal(err)
	}
	if o.Envelope == nil {
		t.Fatal("epsilon did not install an envelope")
	}
	flat := []r3.Triangle{{{}, {X: 1}, {Y: 1}}}
	env := o.Envelope(flat)
	if !env.Contains(r3.Triangle{{Z: 0.05}, {X: 0.5, Z: 0.05}, {Y: 0.5, Z: 0.05}}) {
		t.Error("triangle within epsilon rejected")
	}
	if env.Contains(r3.Triangle{{Z: 0.5}, {X: 0.5, Z: 0.5}, {Y: 0.5, Z: 0.5}}) {
		t.Error("triangle beyond epsilon accepted")
	}

	custom := kernel.EnvelopeFunc(func(r3.Triangle) bool { return true })
	o, err = newOptions([]Option{WithEpsilon(0.1), WithEnvelope(func([]r3.Triangle) kernel.Envelope { return custom })})
	if err != nil {
		t.Fatal(err)
	}
	if !o.Envelope(flat).Contains(r3.Triangle{{Z: 9}, {X: 1, Z: 9}, {Y: 1, Z: 9}}) {
		t.Error("explicit envelope overridden by epsilon")
	}
}
