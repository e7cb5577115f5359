package scaler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apsbeam/beamglue/internal/registry"
)

func TestConstruct(t *testing.T) {
	dev, err := construct(context.Background(), &registry.Build{
		Name:   "scaler0",
		Labels: []string{"scalers"},
		Input: &Input{
			Prefix:   "usxLAX:vsc:c0",
			Channels: map[string]int{"seconds": 1, "I0": 2, "upd": 4},
		},
	})
	require.NoError(t, err)

	s := dev.(*Scaler)
	assert.Equal(t, "usxLAX:vsc:c0", s.Prefix())
	assert.Equal(t, 3, s.ChannelLabels())

	idx, ok := s.Channel("I0")
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = s.Channel("trd")
	assert.False(t, ok)
}

func TestConstructErrors(t *testing.T) {
	cases := []struct {
		name string
		in   *Input
	}{
		{"missing prefix", &Input{Channels: map[string]int{"I0": 2}}},
		{"no channels", &Input{Prefix: "p"}},
		{"index too small", &Input{Prefix: "p", Channels: map[string]int{"I0": 0}}},
		{"index too large", &Input{Prefix: "p", Channels: map[string]int{"I0": 33}}},
		{"duplicate index", &Input{Prefix: "p", Channels: map[string]int{"I0": 2, "I00": 2}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := construct(context.Background(), &registry.Build{Name: "s", Input: tc.in})
			assert.Error(t, err)
		})
	}
}
