// Package registry provides the central "glue" for the device factory system.
//
// The Registry stores the mapping between the factory identifiers used in
// device manifests (e.g. "epics.Motor") and the compiled Go constructors that
// implement them. It is an explicit registration table populated once at
// process start by the device modules; resolution is a pure map lookup with
// no side effects, so an unresolvable identifier is always a manifest
// authoring error, never a transient one.
package registry
