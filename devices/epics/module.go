// Package epics provides proxies for EPICS-addressed hardware: motors and
// single-PV signals. Construction only validates addressing; the channel
// access protocol itself belongs to the external device layer, so a device
// built here is a handle, not an open connection.
package epics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apsbeam/beamglue/internal/device"
	"github.com/apsbeam/beamglue/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// MotorInput defines the construction parameters for an EPICS motor.
type MotorInput struct {
	Prefix    string `cty:"prefix"`
	EGU       string `cty:"egu"`
	Precision int    `cty:"precision"`
}

// Motor is a positioner addressed by an EPICS motor record.
type Motor struct {
	device.Base

	prefix    string
	egu       string
	precision int
}

// Prefix returns the process-variable prefix of the motor record.
func (m *Motor) Prefix() string { return m.prefix }

// EGU returns the engineering units label, e.g. "mm" or "degrees".
func (m *Motor) EGU() string { return m.egu }

// Precision returns the display precision.
func (m *Motor) Precision() int { return m.precision }

func constructMotor(ctx context.Context, b *registry.Build) (device.Device, error) {
	in := b.Input.(*MotorInput)
	if err := validatePrefix(in.Prefix); err != nil {
		return nil, err
	}
	if in.Precision < 0 {
		return nil, fmt.Errorf("precision must not be negative, got %d", in.Precision)
	}
	return &Motor{
		Base:      device.NewBase(b.Name, b.Labels),
		prefix:    in.Prefix,
		egu:       in.EGU,
		precision: in.Precision,
	}, nil
}

// SignalInput defines the construction parameters for a single-PV signal.
type SignalInput struct {
	Prefix  string `cty:"prefix"`
	WritePV string `cty:"write_pv"`
}

// Signal is a readback (and optionally writable) process variable.
type Signal struct {
	device.Base

	prefix  string
	writePV string
}

// Prefix returns the readback PV name.
func (s *Signal) Prefix() string { return s.prefix }

// WritePV returns the setpoint PV name, empty for read-only signals.
func (s *Signal) WritePV() string { return s.writePV }

// Writable reports whether the signal has a setpoint PV.
func (s *Signal) Writable() bool { return s.writePV != "" }

func constructSignal(ctx context.Context, b *registry.Build) (device.Device, error) {
	in := b.Input.(*SignalInput)
	if err := validatePrefix(in.Prefix); err != nil {
		return nil, err
	}
	return &Signal{
		Base:    device.NewBase(b.Name, b.Labels),
		prefix:  in.Prefix,
		writePV: in.WritePV,
	}, nil
}

// validatePrefix rejects addresses that cannot name an EPICS record.
func validatePrefix(prefix string) error {
	if prefix == "" {
		return errors.New("prefix is required")
	}
	if strings.ContainsAny(prefix, " \t") {
		return fmt.Errorf("prefix %q must not contain whitespace", prefix)
	}
	return nil
}

// Register registers the EPICS factories with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFactory("epics.Motor", &registry.Factory{
		NewInput:  func() any { return new(MotorInput) },
		Construct: constructMotor,
	})
	r.RegisterFactory("epics.Signal", &registry.Factory{
		NewInput:  func() any { return new(SignalInput) },
		Construct: constructSignal,
	})
}
