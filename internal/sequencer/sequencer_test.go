package sequencer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/apsbeam/beamglue/internal/config"
	"github.com/apsbeam/beamglue/internal/device"
	"github.com/apsbeam/beamglue/internal/namespace"
	"github.com/apsbeam/beamglue/internal/registry"
)

// stubLoader serves canned manifests keyed by path.
type stubLoader struct {
	manifests map[string]*config.Manifest
	errs      map[string]error
}

func (l *stubLoader) LoadFile(ctx context.Context, path string) (*config.Manifest, error) {
	if err, ok := l.errs[path]; ok {
		return nil, err
	}
	m, ok := l.manifests[path]
	if !ok {
		return nil, fmt.Errorf("no manifest at %s", path)
	}
	return m, nil
}

type fakeDevice struct {
	device.Base
}

// depInput names another device that must already be in the namespace.
type depInput struct {
	Needs string `cty:"needs"`
}

// newTestRegistry registers the factory vocabulary the tests speak:
// test.ok always constructs, test.fail always errors, test.panic panics,
// and test.dep requires its "needs" device to exist already.
func newTestRegistry() *registry.Registry {
	r := registry.New()
	r.RegisterFactory("test.ok", &registry.Factory{
		Construct: func(ctx context.Context, b *registry.Build) (device.Device, error) {
			return &fakeDevice{Base: device.NewBase(b.Name, b.Labels)}, nil
		},
	})
	r.RegisterFactory("test.fail", &registry.Factory{
		Construct: func(ctx context.Context, b *registry.Build) (device.Device, error) {
			return nil, errors.New("hardware offline")
		},
	})
	r.RegisterFactory("test.panic", &registry.Factory{
		Construct: func(ctx context.Context, b *registry.Build) (device.Device, error) {
			panic("wild factory")
		},
	})
	r.RegisterFactory("test.dep", &registry.Factory{
		NewInput: func() any { return new(depInput) },
		Construct: func(ctx context.Context, b *registry.Build) (device.Device, error) {
			in := b.Input.(*depInput)
			if _, ok := b.Devices.Get(in.Needs); !ok {
				return nil, fmt.Errorf("device %q not in namespace", in.Needs)
			}
			return &fakeDevice{Base: device.NewBase(b.Name, b.Labels)}, nil
		},
	})
	return r
}

func spec(name string, params map[string]cty.Value) *config.InstanceSpec {
	if params == nil {
		params = map[string]cty.Value{}
	}
	return &config.InstanceSpec{Name: name, Params: params}
}

func group(factory string, specs ...*config.InstanceSpec) *config.DeviceGroup {
	return &config.DeviceGroup{Factory: factory, Instances: specs}
}

func manifest(path string, groups ...*config.DeviceGroup) *config.Manifest {
	return &config.Manifest{Path: path, Groups: groups}
}

func newSequencer(manifests ...*config.Manifest) (*Sequencer, *namespace.Registry) {
	loader := &stubLoader{manifests: map[string]*config.Manifest{}}
	for _, m := range manifests {
		loader.manifests[m.Path] = m
	}
	ns := namespace.New()
	return New(loader, newTestRegistry(), ns), ns
}

func TestLoadAllSucceed(t *testing.T) {
	seq, ns := newSequencer(
		manifest("a.hcl",
			group("test.ok", spec("m1", nil), spec("m2", nil)),
			group("test.ok", spec("d1", nil)),
		),
	)

	report, err := seq.Load(context.Background(), "a.hcl")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Manifests)
	assert.Equal(t, 3, report.Loaded)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 3, ns.Len())
	assert.Equal(t, []string{"m1", "m2", "d1"}, ns.Names())
}

func TestConstructionFailureIsIsolated(t *testing.T) {
	seq, ns := newSequencer(
		manifest("a.hcl",
			group("test.ok", spec("m1", nil)),
			group("test.fail", spec("broken", nil)),
			group("test.ok", spec("m2", nil)),
		),
	)

	report, err := seq.Load(context.Background(), "a.hcl")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Loaded)
	assert.Equal(t, 2, ns.Len())
	_, ok := ns.Get("broken")
	assert.False(t, ok)

	require.Len(t, report.Failures, 1)
	f := report.Failures[0]
	assert.Equal(t, "broken", f.Device)
	assert.Equal(t, "test.fail", f.Factory)
	assert.Equal(t, KindConstruction, f.Kind())

	var conErr *ConstructionError
	require.ErrorAs(t, f.Err, &conErr)
	assert.Contains(t, conErr.Error(), "hardware offline")
}

func TestFactoryPanicIsIsolated(t *testing.T) {
	seq, ns := newSequencer(
		manifest("a.hcl",
			group("test.panic", spec("angry", nil)),
			group("test.ok", spec("calm", nil)),
		),
	)

	report, err := seq.Load(context.Background(), "a.hcl")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Loaded)
	_, ok := ns.Get("calm")
	assert.True(t, ok)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, KindConstruction, report.Failures[0].Kind())
	assert.Contains(t, report.Failures[0].Err.Error(), "panicked")
}

func TestUnresolvableFactory(t *testing.T) {
	seq, ns := newSequencer(
		manifest("a.hcl",
			group("no.such.factory", spec("x1", nil), spec("x2", nil)),
			group("test.ok", spec("m1", nil)),
		),
	)

	report, err := seq.Load(context.Background(), "a.hcl")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Loaded)
	assert.Equal(t, 1, ns.Len())

	require.Len(t, report.Failures, 2)
	assert.Equal(t, "x1", report.Failures[0].Device)
	assert.Equal(t, "x2", report.Failures[1].Device)
	for _, f := range report.Failures {
		assert.Equal(t, KindResolution, f.Kind())
		var resErr *registry.ResolutionError
		assert.ErrorAs(t, f.Err, &resErr)
	}
}

func TestDuplicateNameFirstWins(t *testing.T) {
	seq, ns := newSequencer(
		manifest("a.hcl",
			group("test.ok", spec("m1", nil)),
			group("test.ok", spec("d1", nil), spec("d1", nil)),
		),
	)

	report, err := seq.Load(context.Background(), "a.hcl")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Loaded)
	assert.Equal(t, []string{"m1", "d1"}, ns.Names())

	require.Len(t, report.Failures, 1)
	f := report.Failures[0]
	assert.Equal(t, "d1", f.Device)
	assert.Equal(t, KindDuplicate, f.Kind())

	var dupErr *namespace.DuplicateNameError
	require.ErrorAs(t, f.Err, &dupErr)
	assert.Equal(t, "d1", dupErr.Name)
}

func TestCrossManifestDependencyOrder(t *testing.T) {
	makeManifests := func() []*config.Manifest {
		return []*config.Manifest{
			manifest("base.hcl", group("test.ok", spec("y", nil))),
			manifest("wrapped.hcl", group("test.dep",
				spec("x", map[string]cty.Value{"needs": cty.StringVal("y")}))),
		}
	}

	t.Run("dependency first succeeds", func(t *testing.T) {
		seq, ns := newSequencer(makeManifests()...)
		report, err := seq.Load(context.Background(), "base.hcl", "wrapped.hcl")
		require.NoError(t, err)
		assert.Equal(t, 2, report.Loaded)
		assert.Empty(t, report.Failures)
		_, ok := ns.Get("x")
		assert.True(t, ok)
	})

	t.Run("reversed order fails for the dependent", func(t *testing.T) {
		seq, ns := newSequencer(makeManifests()...)
		report, err := seq.Load(context.Background(), "wrapped.hcl", "base.hcl")
		require.NoError(t, err)
		assert.Equal(t, 1, report.Loaded)
		_, ok := ns.Get("x")
		assert.False(t, ok)

		require.Len(t, report.Failures, 1)
		assert.Equal(t, "x", report.Failures[0].Device)
		assert.Equal(t, KindConstruction, report.Failures[0].Kind())
	})
}

func TestReloadIsNotIdempotent(t *testing.T) {
	m := manifest("a.hcl", group("test.ok", spec("m1", nil), spec("m2", nil)))

	// Same session, same manifest twice: every name collides on the second
	// pass. Reload requires a fresh sequencer but shares the namespace.
	loader := &stubLoader{manifests: map[string]*config.Manifest{"a.hcl": m}}
	reg := newTestRegistry()
	ns := namespace.New()

	first := New(loader, reg, ns)
	report, err := first.Load(context.Background(), "a.hcl")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Loaded)

	second := New(loader, reg, ns)
	report, err = second.Load(context.Background(), "a.hcl")
	require.NoError(t, err)
	assert.Zero(t, report.Loaded)
	require.Len(t, report.Failures, 2)
	for _, f := range report.Failures {
		assert.Equal(t, KindDuplicate, f.Kind())
	}
	assert.Equal(t, 2, ns.Len())
}

func TestLoadTwiceOnSameSequencer(t *testing.T) {
	seq, _ := newSequencer(manifest("a.hcl", group("test.ok", spec("m1", nil))))

	_, err := seq.Load(context.Background(), "a.hcl")
	require.NoError(t, err)

	_, err = seq.Load(context.Background(), "a.hcl")
	require.ErrorIs(t, err, ErrAlreadyLoaded)
}

func TestManifestLevelFailure(t *testing.T) {
	loader := &stubLoader{
		manifests: map[string]*config.Manifest{
			"good.hcl": manifest("good.hcl", group("test.ok", spec("m1", nil))),
		},
		errs: map[string]error{"bad.hcl": errors.New("unreadable")},
	}
	ns := namespace.New()
	seq := New(loader, newTestRegistry(), ns)

	report, err := seq.Load(context.Background(), "bad.hcl", "good.hcl")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Manifests)
	assert.Equal(t, 1, report.Loaded)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "bad.hcl", report.Failures[0].Manifest)
	assert.Empty(t, report.Failures[0].Device)
	assert.Equal(t, KindManifest, report.Failures[0].Kind())
}

func TestBadParameterIsConstructionFailure(t *testing.T) {
	seq, _ := newSequencer(
		manifest("a.hcl", group("test.dep",
			spec("x", map[string]cty.Value{"wrong_param": cty.StringVal("y")}))),
	)

	report, err := seq.Load(context.Background(), "a.hcl")
	require.NoError(t, err)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, KindConstruction, report.Failures[0].Kind())
	assert.Contains(t, report.Failures[0].Err.Error(), "wrong_param")
}

func TestFactoryRenamingDeviceIsRejected(t *testing.T) {
	loader := &stubLoader{manifests: map[string]*config.Manifest{
		"a.hcl": manifest("a.hcl", group("test.rename", spec("declared", nil))),
	}}
	reg := newTestRegistry()
	reg.RegisterFactory("test.rename", &registry.Factory{
		Construct: func(ctx context.Context, b *registry.Build) (device.Device, error) {
			return &fakeDevice{Base: device.NewBase("impostor", nil)}, nil
		},
	})
	seq := New(loader, reg, namespace.New())

	report, err := seq.Load(context.Background(), "a.hcl")
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, KindConstruction, report.Failures[0].Kind())
	assert.Contains(t, report.Failures[0].Err.Error(), "impostor")
}

func TestReportSummary(t *testing.T) {
	seq, _ := newSequencer(
		manifest("a.hcl",
			group("test.ok", spec("m1", nil)),
			group("test.fail", spec("broken", nil)),
		),
	)

	report, err := seq.Load(context.Background(), "a.hcl")
	require.NoError(t, err)

	s := report.Summary()
	assert.Contains(t, s, report.Session.String())
	assert.Contains(t, s, "loaded 1 device(s)")
	assert.Contains(t, s, "1 failure(s)")
	assert.Contains(t, s, "broken")

	clean, _ := newSequencer(manifest("b.hcl", group("test.ok", spec("m1", nil))))
	cleanReport, err := clean.Load(context.Background(), "b.hcl")
	require.NoError(t, err)
	assert.Contains(t, cleanReport.Summary(), "no failures")
}
