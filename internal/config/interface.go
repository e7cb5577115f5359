package config

import "context"

// Loader translates a single on-disk manifest file into the agnostic model.
// Implementations must preserve the order of device groups and of instances
// within each group exactly as written.
type Loader interface {
	LoadFile(ctx context.Context, path string) (*Manifest, error)
}
