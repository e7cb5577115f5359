// Package namespace holds the session-wide device registry: the mapping from
// device name to constructed device instance.
//
// The registry is owned by the App for one session. The load sequencer is its
// only writer during the load phase; afterward plans and interactive console
// users look devices up by name or label, and may append further entries by
// explicit action. Names are never silently overwritten — two devices sharing
// a name would corrupt plan references.
package namespace

import (
	"fmt"
	"sync"

	"github.com/apsbeam/beamglue/internal/device"
)

// Lookup is the read-only view of the registry handed to device factories.
// Factories for composite devices (auto-ranging amplifiers, for example) use
// it to find devices declared in earlier manifests.
type Lookup interface {
	Get(name string) (device.Device, bool)
	FindByLabel(label string) []device.Device
}

// Registry maps device names to device instances for a single session.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]device.Device
	order   []string
}

// New creates an empty device registry.
func New() *Registry {
	return &Registry{devices: make(map[string]device.Device)}
}

// Publish registers a device under its declared name. It returns a
// *DuplicateNameError if the name is already taken; the existing device is
// left untouched.
func (r *Registry) Publish(d device.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := d.Name()
	if _, exists := r.devices[name]; exists {
		return &DuplicateNameError{Name: name}
	}
	r.devices[name] = d
	r.order = append(r.order, name)
	return nil
}

// Get returns the device registered under name, if any.
func (r *Registry) Get(name string) (device.Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[name]
	return d, ok
}

// FindByLabel returns all devices carrying the given label, in registration
// order.
func (r *Registry) FindByLabel(label string) []device.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []device.Device
	for _, name := range r.order {
		d := r.devices[name]
		for _, l := range d.Labels() {
			if l == label {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// Names returns all registered device names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered devices.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// DuplicateNameError reports a device-name collision. It signals a manifest
// authoring error rather than a hardware failure, and is surfaced distinctly
// in load reports.
type DuplicateNameError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("device name %q is already registered", e.Name)
}
