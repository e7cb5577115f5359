package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apsbeam/beamglue/internal/device"
)

func noopConstruct(ctx context.Context, b *Build) (device.Device, error) {
	base := device.NewBase(b.Name, b.Labels)
	return base, nil
}

func TestRegisterAndResolve(t *testing.T) {
	r := New()
	r.RegisterFactory("sim.motor", &Factory{Construct: noopConstruct})

	f, err := r.Resolve("sim.motor")
	require.NoError(t, err)
	require.NotNil(t, f)

	assert.Equal(t, []string{"sim.motor"}, r.Identifiers())
}

func TestResolveUnknownIdentifier(t *testing.T) {
	r := New()

	_, err := r.Resolve("no.such.factory")
	require.Error(t, err)

	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "no.such.factory", resErr.Factory)
	assert.Contains(t, err.Error(), "no.such.factory")
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := New()
	r.RegisterFactory("sim.motor", &Factory{Construct: noopConstruct})

	assert.Panics(t, func() {
		r.RegisterFactory("sim.motor", &Factory{Construct: noopConstruct})
	})
}

func TestRegisterWithoutConstructPanics(t *testing.T) {
	r := New()

	assert.Panics(t, func() {
		r.RegisterFactory("broken", &Factory{})
	})
	assert.Panics(t, func() {
		r.RegisterFactory("nil", nil)
	})
}

func TestIdentifiersSorted(t *testing.T) {
	r := New()
	r.RegisterFactory("usaxs.Shutter", &Factory{Construct: noopConstruct})
	r.RegisterFactory("epics.Motor", &Factory{Construct: noopConstruct})
	r.RegisterFactory("sim.detector", &Factory{Construct: noopConstruct})

	assert.Equal(t, []string{"epics.Motor", "sim.detector", "usaxs.Shutter"}, r.Identifiers())
}
