package config

import "context"

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Load reads every manifest file of the loader's format found under
	// paths and translates them into the format-agnostic model. Files of
	// other formats are ignored.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
