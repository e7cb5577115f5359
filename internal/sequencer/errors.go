package sequencer

import "fmt"

// ConstructionError records a factory failing while building one device
// instance: a bad parameter, an unreachable hardware address, or a missing
// dependency in the namespace.
type ConstructionError struct {
	Device  string
	Factory string
	Err     error
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	return fmt.Sprintf("constructing device %q (factory %s): %v", e.Device, e.Factory, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ConstructionError) Unwrap() error { return e.Err }
