// Package shutter provides the beam shutter proxy. A shutter is either
// EPICS-backed (operating mode) or simulated (no beam, commissioning, or
// off-site development); the manifest picks per instance.
package shutter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/apsbeam/beamglue/internal/device"
	"github.com/apsbeam/beamglue/internal/registry"
)

// Shutter operation modes.
const (
	ModeEPICS     = "epics"
	ModeSimulated = "simulated"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the construction parameters for a shutter.
type Input struct {
	Mode   string `cty:"mode"`
	Prefix string `cty:"prefix"`
}

// Shutter is an openable/closable beam shutter.
type Shutter struct {
	device.Base

	mode   string
	prefix string

	mu   sync.Mutex
	open bool
}

// Mode returns the shutter's operation mode.
func (s *Shutter) Mode() string { return s.mode }

// Prefix returns the PV prefix, empty in simulated mode.
func (s *Shutter) Prefix() string { return s.prefix }

// IsOpen reports the last commanded state. Simulated shutters track state in
// memory; EPICS shutters delegate actual hardware state to the external
// device layer and only track the command here.
func (s *Shutter) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Open commands the shutter open.
func (s *Shutter) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
}

// Close commands the shutter closed.
func (s *Shutter) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

func construct(ctx context.Context, b *registry.Build) (device.Device, error) {
	in := b.Input.(*Input)
	mode := in.Mode
	if mode == "" {
		mode = ModeSimulated
	}
	switch mode {
	case ModeEPICS:
		if in.Prefix == "" {
			return nil, errors.New("prefix is required in epics mode")
		}
	case ModeSimulated:
		if in.Prefix != "" {
			return nil, fmt.Errorf("prefix %q given, but simulated shutters take none", in.Prefix)
		}
	default:
		return nil, fmt.Errorf("unknown mode %q (want %q or %q)", in.Mode, ModeEPICS, ModeSimulated)
	}
	return &Shutter{
		Base:   device.NewBase(b.Name, b.Labels),
		mode:   mode,
		prefix: in.Prefix,
	}, nil
}

// Register registers the shutter factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFactory("usaxs.Shutter", &registry.Factory{
		NewInput:  func() any { return new(Input) },
		Construct: construct,
	})
}
