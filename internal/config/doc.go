// Package config defines the format-agnostic model for device manifests,
// along with the Loader interface for reading them from disk.
//
// A manifest is an ordered list of device groups; each group pairs a factory
// identifier with the ordered instances to construct from it. Order is
// semantic, not cosmetic: later entries may assume that devices declared
// earlier already exist in the session namespace. Concrete loaders, such as
// the HCL one, live in separate packages.
package config
