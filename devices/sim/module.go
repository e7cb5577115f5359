// Package sim provides simulated devices for sessions with no hardware
// attached: a motor and a detector that live purely in memory. They are also
// what integration tests load, since they can never be offline.
package sim

import (
	"context"
	"sync"

	"github.com/apsbeam/beamglue/internal/device"
	"github.com/apsbeam/beamglue/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// MotorInput defines the construction parameters for a simulated motor.
type MotorInput struct {
	Position float64 `cty:"position"`
	Velocity float64 `cty:"velocity"`
}

// Motor is an in-memory positioner.
type Motor struct {
	device.Base

	mu       sync.Mutex
	position float64
	velocity float64
}

// Position returns the current position.
func (m *Motor) Position() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// Move sets the position immediately. A simulated move has no travel time.
func (m *Motor) Move(target float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = target
}

func constructMotor(ctx context.Context, b *registry.Build) (device.Device, error) {
	in := b.Input.(*MotorInput)
	velocity := in.Velocity
	if velocity == 0 {
		velocity = 1
	}
	return &Motor{
		Base:     device.NewBase(b.Name, b.Labels),
		position: in.Position,
		velocity: velocity,
	}, nil
}

// DetectorInput defines the construction parameters for a simulated detector.
type DetectorInput struct {
	// Counts is the fixed reading every trigger produces.
	Counts int `cty:"counts"`
}

// Detector is an in-memory counting detector.
type Detector struct {
	device.Base

	counts int
}

// Read returns the detector reading for the last trigger.
func (d *Detector) Read() int { return d.counts }

func constructDetector(ctx context.Context, b *registry.Build) (device.Device, error) {
	in := b.Input.(*DetectorInput)
	return &Detector{
		Base:   device.NewBase(b.Name, b.Labels),
		counts: in.Counts,
	}, nil
}

// Register registers the simulated factories with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFactory("sim.motor", &registry.Factory{
		NewInput:  func() any { return new(MotorInput) },
		Construct: constructMotor,
	})
	r.RegisterFactory("sim.detector", &registry.Factory{
		NewInput:  func() any { return new(DetectorInput) },
		Construct: constructDetector,
	})
}
