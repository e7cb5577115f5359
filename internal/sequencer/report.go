package sequencer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/apsbeam/beamglue/internal/namespace"
	"github.com/apsbeam/beamglue/internal/registry"
)

// Failure kinds, as surfaced to the operator. Duplicate names are manifest
// authoring errors; the other kinds usually mean hardware is offline or a
// manifest references a factory this build does not carry.
const (
	KindResolution   = "resolution"
	KindConstruction = "construction"
	KindDuplicate    = "duplicate-name"
	KindManifest     = "manifest"
)

// Failure is one recorded per-entry load failure.
type Failure struct {
	// Manifest is the path of the manifest the entry came from.
	Manifest string

	// Factory is the factory identifier of the failed entry, empty for
	// manifest-level failures (unreadable or unparseable file).
	Factory string

	// Device is the declared instance name, empty for manifest-level
	// failures.
	Device string

	// Err is the underlying typed error.
	Err error
}

// Kind classifies the failure for summaries and tests.
func (f Failure) Kind() string {
	var resErr *registry.ResolutionError
	var dupErr *namespace.DuplicateNameError
	var conErr *ConstructionError
	switch {
	case errors.As(f.Err, &resErr):
		return KindResolution
	case errors.As(f.Err, &dupErr):
		return KindDuplicate
	case errors.As(f.Err, &conErr):
		return KindConstruction
	default:
		return KindManifest
	}
}

// Report summarises one complete load sequence. It is returned to the
// caller rather than raised: partial failure leaves the instrument usable.
type Report struct {
	// Session identifies the load run in logs and data-stream metadata.
	Session uuid.UUID

	// Manifests is the number of manifest files the sequencer was asked to
	// load.
	Manifests int

	// Loaded is the number of devices successfully published.
	Loaded int

	// Failures holds every recorded failure, in detection order.
	Failures []Failure
}

// Summary renders a one-paragraph operator summary of the load.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "session %s: loaded %d device(s) from %d manifest(s)",
		r.Session, r.Loaded, r.Manifests)
	if len(r.Failures) == 0 {
		b.WriteString(", no failures")
		return b.String()
	}
	fmt.Fprintf(&b, ", %d failure(s):", len(r.Failures))
	for _, f := range r.Failures {
		name := f.Device
		if name == "" {
			name = f.Manifest
		}
		fmt.Fprintf(&b, "\n  [%s] %s: %v", f.Kind(), name, f.Err)
	}
	return b.String()
}
