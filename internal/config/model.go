package config

import "github.com/zclconf/go-cty/cty"

// Manifest is the unified, format-agnostic representation of one device
// manifest file. Manifests are read once at session start and immutable
// afterward.
type Manifest struct {
	// Path is the on-disk origin of the manifest, kept for failure reports.
	Path string

	// Groups holds the device groups in file order.
	Groups []*DeviceGroup
}

// DeviceGroup pairs a factory identifier with the ordered list of instances
// to construct from it.
type DeviceGroup struct {
	Factory   string
	Instances []*InstanceSpec
}

// InstanceSpec describes a single device instance: its session-unique name,
// its classification labels, and arbitrary construction parameters keyed by
// parameter name.
type InstanceSpec struct {
	Name   string
	Labels []string
	Params map[string]cty.Value
}
