// Package amplifier provides the current-amplifier proxy and its
// auto-ranging wrapper. The auto-ranging factory is the one place the load
// order convention becomes visible: it looks its amplifier and counter up in
// the session namespace, so those devices must come from an earlier manifest
// (or an earlier entry of the same one).
package amplifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/apsbeam/beamglue/devices/scaler"
	"github.com/apsbeam/beamglue/internal/device"
	"github.com/apsbeam/beamglue/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the construction parameters for an amplifier.
type Input struct {
	Prefix string    `cty:"prefix"`
	Gains  []float64 `cty:"gains"`
}

// Amplifier is a programmable-gain current amplifier.
type Amplifier struct {
	device.Base

	prefix string
	gains  []float64
}

// Prefix returns the process-variable prefix of the amplifier.
func (a *Amplifier) Prefix() string { return a.prefix }

// Gains returns the selectable gain table, lowest first.
func (a *Amplifier) Gains() []float64 {
	out := make([]float64, len(a.gains))
	copy(out, a.gains)
	return out
}

func construct(ctx context.Context, b *registry.Build) (device.Device, error) {
	in := b.Input.(*Input)
	if in.Prefix == "" {
		return nil, errors.New("prefix is required")
	}
	if len(in.Gains) == 0 {
		return nil, errors.New("a non-empty gain table is required")
	}
	for i := 1; i < len(in.Gains); i++ {
		if in.Gains[i] <= in.Gains[i-1] {
			return nil, fmt.Errorf("gain table must be strictly increasing, got %v", in.Gains)
		}
	}
	gains := make([]float64, len(in.Gains))
	copy(gains, in.Gains)
	return &Amplifier{
		Base:   device.NewBase(b.Name, b.Labels),
		prefix: in.Prefix,
		gains:  gains,
	}, nil
}

// AutorangeInput defines the construction parameters for an auto-ranging
// amplifier. Amplifier and Counter name devices already in the namespace.
type AutorangeInput struct {
	Amplifier string `cty:"amplifier"`
	Counter   string `cty:"counter"`
	Channel   string `cty:"channel"`
}

// Autorange pairs an amplifier with the scaler channel that measures its
// output, and picks gains so the channel stays in range.
type Autorange struct {
	device.Base

	amp     *Amplifier
	counter *scaler.Scaler
	channel int
}

// Amplifier returns the wrapped amplifier.
func (a *Autorange) Amplifier() *Amplifier { return a.amp }

// Counter returns the scaler the wrapper reads.
func (a *Autorange) Counter() *scaler.Scaler { return a.counter }

// Channel returns the scaler channel index the wrapper watches.
func (a *Autorange) Channel() int { return a.channel }

func constructAutorange(ctx context.Context, b *registry.Build) (device.Device, error) {
	in := b.Input.(*AutorangeInput)
	if in.Amplifier == "" || in.Counter == "" || in.Channel == "" {
		return nil, errors.New("amplifier, counter, and channel are all required")
	}

	dev, ok := b.Devices.Get(in.Amplifier)
	if !ok {
		return nil, fmt.Errorf("amplifier %q is not in the namespace; it must load before this device", in.Amplifier)
	}
	amp, ok := dev.(*Amplifier)
	if !ok {
		return nil, fmt.Errorf("device %q is a %T, not an amplifier", in.Amplifier, dev)
	}

	dev, ok = b.Devices.Get(in.Counter)
	if !ok {
		return nil, fmt.Errorf("counter %q is not in the namespace; it must load before this device", in.Counter)
	}
	counter, ok := dev.(*scaler.Scaler)
	if !ok {
		return nil, fmt.Errorf("device %q is a %T, not a scaler", in.Counter, dev)
	}

	idx, ok := counter.Channel(in.Channel)
	if !ok {
		return nil, fmt.Errorf("scaler %q has no channel labeled %q", in.Counter, in.Channel)
	}

	return &Autorange{
		Base:    device.NewBase(b.Name, b.Labels),
		amp:     amp,
		counter: counter,
		channel: idx,
	}, nil
}

// Register registers the amplifier factories with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFactory("usaxs.Amplifier", &registry.Factory{
		NewInput:  func() any { return new(Input) },
		Construct: construct,
	})
	r.RegisterFactory("usaxs.AutorangeAmplifier", &registry.Factory{
		NewInput:  func() any { return new(AutorangeInput) },
		Construct: constructAutorange,
	})
}
