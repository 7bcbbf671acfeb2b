package config

import "context"

// Loader is the interface for a format-specific diagram loader.
type Loader interface {
	// Load reads the definitions found at the given paths and merges them
	// into one Diagram.
	Load(ctx context.Context, paths ...string) (*Diagram, error)
}
