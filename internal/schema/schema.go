// Package schema defines the HCL block structures for device manifest files.
package schema

import "github.com/hashicorp/hcl/v2"

// Instance represents an `instance` block within a device group: one named
// device to construct. All attributes in the body are construction
// parameters for the factory.
type Instance struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// DeviceGroup represents a `device` block from a manifest file. The label is
// the factory identifier; the nested instance blocks are constructed in file
// order.
type DeviceGroup struct {
	Factory   string      `hcl:"factory,label"`
	Instances []*Instance `hcl:"instance,block"`
}

// ManifestConfig represents the top-level structure of a device manifest
// file. Only `device` blocks are allowed at the top level; anything else is
// a decode error.
type ManifestConfig struct {
	Devices []*DeviceGroup `hcl:"device,block"`
}
