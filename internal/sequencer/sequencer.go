package sequencer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/apsbeam/beamglue/internal/config"
	"github.com/apsbeam/beamglue/internal/ctxlog"
	"github.com/apsbeam/beamglue/internal/device"
	"github.com/apsbeam/beamglue/internal/namespace"
	"github.com/apsbeam/beamglue/internal/registry"
)

// phase tracks the sequencer's one-way lifecycle. There is no transition
// back: a sequencer loads once and is then spent.
type phase int

const (
	phaseNotStarted phase = iota
	phaseLoading
	phaseDone
)

// ErrAlreadyLoaded is returned when Load is called on a spent sequencer.
var ErrAlreadyLoaded = errors.New("load sequence already run for this session")

// Sequencer drives manifest loading in declared order for one session.
type Sequencer struct {
	loader    config.Loader
	factories *registry.Registry
	devices   *namespace.Registry
	session   uuid.UUID
	phase     phase
}

// New creates a sequencer writing into the given namespace. The namespace is
// shared: factories resolve cross-manifest dependencies through it while the
// load is still in progress.
func New(loader config.Loader, factories *registry.Registry, devices *namespace.Registry) *Sequencer {
	return &Sequencer{
		loader:    loader,
		factories: factories,
		devices:   devices,
		session:   uuid.New(),
	}
}

// Load runs the whole pipeline across the given manifest paths, in order,
// and returns the report. The only error return is misuse (loading twice);
// per-entry failures are recorded in the report, never raised, so session
// startup succeeds even when individual devices are offline.
func (s *Sequencer) Load(ctx context.Context, paths ...string) (*Report, error) {
	if s.phase != phaseNotStarted {
		return nil, ErrAlreadyLoaded
	}
	s.phase = phaseLoading

	logger := ctxlog.FromContext(ctx).With("session", s.session.String())
	report := &Report{Session: s.session, Manifests: len(paths)}

	for i, path := range paths {
		logger.Info("Loading device manifest.", "index", i, "path", path)
		manifest, err := s.loader.LoadFile(ctx, path)
		if err != nil {
			s.record(ctx, report, Failure{Manifest: path, Err: err})
			continue
		}
		s.loadManifest(ctx, manifest, report)
	}

	s.phase = phaseDone
	logger.Info("Device load sequence done.",
		"manifests", report.Manifests, "loaded", report.Loaded, "failures", len(report.Failures))
	return report, nil
}

// Session returns the load-run identifier stamped on the report.
func (s *Sequencer) Session() uuid.UUID { return s.session }

// loadManifest runs every device group of one manifest, in file order.
func (s *Sequencer) loadManifest(ctx context.Context, m *config.Manifest, report *Report) {
	for _, group := range m.Groups {
		factory, err := s.factories.Resolve(group.Factory)
		if err != nil {
			// The whole group shares the identifier; attribute the failure
			// to each declared instance so operators see what is missing.
			for _, spec := range group.Instances {
				s.record(ctx, report, Failure{
					Manifest: m.Path, Factory: group.Factory, Device: spec.Name, Err: err,
				})
			}
			continue
		}
		for _, spec := range group.Instances {
			dev, err := s.construct(ctx, factory, group.Factory, spec)
			if err != nil {
				s.record(ctx, report, Failure{
					Manifest: m.Path, Factory: group.Factory, Device: spec.Name, Err: err,
				})
				continue
			}
			if err := s.devices.Publish(dev); err != nil {
				s.record(ctx, report, Failure{
					Manifest: m.Path, Factory: group.Factory, Device: spec.Name, Err: err,
				})
				continue
			}
			report.Loaded++
		}
	}
}

// construct invokes a resolved factory for a single instance spec. Any
// failure — parameter decoding, the factory returning an error, or a factory
// panic — is wrapped in a *ConstructionError and isolated to this instance.
func (s *Sequencer) construct(ctx context.Context, f *registry.Factory, id string, spec *config.InstanceSpec) (dev device.Device, err error) {
	defer func() {
		if r := recover(); r != nil {
			dev = nil
			err = &ConstructionError{Device: spec.Name, Factory: id, Err: fmt.Errorf("factory panicked: %v", r)}
		}
	}()

	var input any
	if f.NewInput != nil {
		input = f.NewInput()
	}
	if err := registry.DecodeParams(spec.Params, input); err != nil {
		return nil, &ConstructionError{Device: spec.Name, Factory: id, Err: err}
	}

	build := &registry.Build{
		Name:    spec.Name,
		Labels:  spec.Labels,
		Input:   input,
		Devices: s.devices,
	}
	built, err := f.Construct(ctx, build)
	if err != nil {
		return nil, &ConstructionError{Device: spec.Name, Factory: id, Err: err}
	}
	if built == nil {
		return nil, &ConstructionError{Device: spec.Name, Factory: id, Err: errors.New("factory returned no device")}
	}
	if built.Name() != spec.Name {
		return nil, &ConstructionError{
			Device: spec.Name, Factory: id,
			Err: fmt.Errorf("factory named the device %q, manifest declared %q", built.Name(), spec.Name),
		}
	}
	return built, nil
}

// record appends a failure to the report and warns the operator log.
func (s *Sequencer) record(ctx context.Context, report *Report, f Failure) {
	report.Failures = append(report.Failures, f)
	ctxlog.FromContext(ctx).Warn("Device load failure.",
		"kind", f.Kind(), "manifest", f.Manifest, "factory", f.Factory, "device", f.Device, "error", f.Err)
}
