package repair

import (
	"log"
)

// Visitor is notified as Remove progresses and may stop it. Remove calls
// the visitor from the goroutine it runs on.
type Visitor interface {
	// Stop is polled between steps and between regions.
	Stop() bool
	// StatusUpdate reports the number of faces waiting to be processed.
	StatusUpdate(pending int)
	StartMainLoop()
	EndMainLoop()
	StartIteration(step int)
	EndIteration(step int)
	StartComponent()
	// EndComponent reports how the region ended, nil meaning repaired or
	// found free of intersections.
	EndComponent(err error)
	// ParametersUsed reports the resolved options before repair starts.
	ParametersUsed(o Options)
}

// NopVisitor ignores every event and never stops.
type NopVisitor struct{}

func (NopVisitor) Stop() bool { return false }
func (NopVisitor) StatusUpdate(int) {}
func (NopVisitor) StartMainLoop() {}
func (NopVisitor) EndMainLoop() {}
func (NopVisitor) StartIteration(int) {}
func (NopVisitor) EndIteration(int) {}
func (NopVisitor) StartComponent() {}
func (NopVisitor) EndComponent(error) {}
func (NopVisitor) ParametersUsed(Options) {}

// LogVisitor prints progress to Logger.
type LogVisitor struct {
	NopVisitor
	Logger *log.Logger
}

func (v LogVisitor) StatusUpdate(pending int) {
	v.Logger.Printf("%d faces pending", pending)
}

func (v LogVisitor) StartIteration(step int) {
	v.Logger.Printf("step %d", step)
}

func (v LogVisitor) EndComponent(err error) {
	if err != nil {
		v.Logger.Printf("region left unrepaired: %v", err)
		return
	}
	v.Logger.Print("region done")
}

func (v LogVisitor) ParametersUsed(o Options) {
	v.Logger.Printf("local=%v genus=%v steps=%d angle=%g eps=%g rings=%d",
		o.Local, o.PreserveGenus, o.MaxSteps, o.DihedralAngle, o.Epsilon, o.ExpansionRings)
}
