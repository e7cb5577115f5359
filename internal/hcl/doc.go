// Package hcl implements the config.Loader interface for HCL device
// manifests. It parses manifest files and translates them into the
// format-agnostic config model, preserving the order of device groups and of
// instances within each group — order carries meaning, since later entries
// may depend on devices constructed earlier.
package hcl
