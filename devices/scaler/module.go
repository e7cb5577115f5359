// Package scaler provides the counting-scaler proxy. A scaler has up to 32
// channels; manifests name the channels they care about so downstream
// devices (auto-ranging amplifiers, mostly) can reference a channel by label
// instead of by index.
package scaler

import (
	"context"
	"errors"
	"fmt"

	"github.com/apsbeam/beamglue/internal/device"
	"github.com/apsbeam/beamglue/internal/registry"
)

// channelCount is the channel capacity of the scaler record.
const channelCount = 32

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the construction parameters for a scaler.
type Input struct {
	Prefix   string         `cty:"prefix"`
	Channels map[string]int `cty:"channels"`
}

// Scaler is a multi-channel counter addressed by an EPICS scaler record.
type Scaler struct {
	device.Base

	prefix   string
	channels map[string]int
}

// Prefix returns the process-variable prefix of the scaler record.
func (s *Scaler) Prefix() string { return s.prefix }

// Channel returns the channel index registered under label.
func (s *Scaler) Channel(label string) (int, bool) {
	idx, ok := s.channels[label]
	return idx, ok
}

// ChannelLabels returns the number of named channels.
func (s *Scaler) ChannelLabels() int { return len(s.channels) }

func construct(ctx context.Context, b *registry.Build) (device.Device, error) {
	in := b.Input.(*Input)
	if in.Prefix == "" {
		return nil, errors.New("prefix is required")
	}
	if len(in.Channels) == 0 {
		return nil, errors.New("at least one named channel is required")
	}
	byIndex := make(map[int]string, len(in.Channels))
	for label, idx := range in.Channels {
		if idx < 1 || idx > channelCount {
			return nil, fmt.Errorf("channel %q: index %d out of range 1..%d", label, idx, channelCount)
		}
		if other, dup := byIndex[idx]; dup {
			return nil, fmt.Errorf("channels %q and %q both claim index %d", other, label, idx)
		}
		byIndex[idx] = label
	}
	channels := make(map[string]int, len(in.Channels))
	for label, idx := range in.Channels {
		channels[label] = idx
	}
	return &Scaler{
		Base:     device.NewBase(b.Name, b.Labels),
		prefix:   in.Prefix,
		channels: channels,
	}, nil
}

// Register registers the scaler factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFactory("epics.Scaler", &registry.Factory{
		NewInput:  func() any { return new(Input) },
		Construct: construct,
	})
}
