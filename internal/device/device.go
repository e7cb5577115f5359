// Package device defines the minimal contract shared by every constructed
// hardware proxy. Concrete device types live in the top-level devices/ tree
// and embed Base to satisfy the interface.
package device

// Device is a software proxy for a piece of controllable or readable
// hardware. Implementations are constructed once by a factory and then owned
// by the session namespace for the lifetime of the process.
type Device interface {
	// Name returns the session-unique device name from the manifest.
	Name() string

	// Labels returns the classification labels attached at construction,
	// e.g. "motors" or "baseline".
	Labels() []string
}

// Base carries the name and labels every device shares. Embed it by value;
// devices never change identity after construction.
type Base struct {
	name   string
	labels []string
}

// NewBase builds the shared identity portion of a device.
func NewBase(name string, labels []string) Base {
	return Base{name: name, labels: labels}
}

// Name implements Device.
func (b Base) Name() string { return b.name }

// Labels implements Device.
func (b Base) Labels() []string { return b.labels }
