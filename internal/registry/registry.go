package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/apsbeam/beamglue/internal/device"
	"github.com/apsbeam/beamglue/internal/namespace"
)

// Module is the interface that all device packages must implement to be
// registered with an application instance.
type Module interface {
	Register(r *Registry)
}

// Build carries everything a factory needs to construct a single device
// instance.
type Build struct {
	// Name is the session-unique device name from the manifest.
	Name string

	// Labels are the classification labels from the manifest.
	Labels []string

	// Input is the decoded parameter struct allocated by the factory's
	// NewInput, or nil for factories that take no parameters.
	Input any

	// Devices is a read-only view of the session namespace. Devices from
	// earlier manifests are visible here; devices from later ones are not.
	Devices namespace.Lookup
}

// ConstructFunc builds one device instance from a Build. Returning an error
// marks this single instance as failed; it never aborts the load sequence.
type ConstructFunc func(ctx context.Context, b *Build) (device.Device, error)

// Factory couples a parameter-struct allocator with its construct function.
type Factory struct {
	// NewInput allocates the parameter struct the manifest attributes are
	// decoded into. Nil means the factory takes no parameters.
	NewInput func() any

	// Construct builds the device.
	Construct ConstructFunc
}

// Registry holds all registered device factories for a single application
// instance, keyed by factory identifier.
type Registry struct {
	factories map[string]*Factory
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{factories: make(map[string]*Factory)}
}

// RegisterFactory registers a device factory under its manifest identifier.
// Registering the same identifier twice is a programmer error and panics.
func (r *Registry) RegisterFactory(id string, f *Factory) {
	if _, exists := r.factories[id]; exists {
		panic(fmt.Sprintf("device factory with identifier '%s' already registered", id))
	}
	if f == nil || f.Construct == nil {
		panic(fmt.Sprintf("device factory '%s' registered without a construct function", id))
	}
	slog.Debug("Registering device factory.", "id", id)
	r.factories[id] = f
}

// Resolve maps a factory identifier to its registered factory. It returns a
// *ResolutionError for unknown identifiers.
func (r *Registry) Resolve(id string) (*Factory, error) {
	f, ok := r.factories[id]
	if !ok {
		return nil, &ResolutionError{Factory: id}
	}
	return f, nil
}

// Identifiers returns all registered factory identifiers, sorted, for
// startup logging and error hints.
func (r *Registry) Identifiers() []string {
	out := make([]string, 0, len(r.factories))
	for id := range r.factories {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ResolutionError reports a factory identifier that no registered device
// module claims.
type ResolutionError struct {
	Factory string
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no device factory registered for identifier %q", e.Factory)
}
