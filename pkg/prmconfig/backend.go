package prmconfig

import (
	"context"
	"io"
)

// Source is one parameter file to convert.
type Source struct {
	Path   string    // Recorded as the descriptor path
	Reader io.Reader // Content; read sequentially once
}

// Backend defines the conversion pipeline every output format implements:
// parameter text → section tree → metadata-wrapped document → serialized bytes.
type Backend interface {
	// Name returns the backend identifier (e.g., "simlog").
	Name() string

	// Format returns the output encoding the backend renders.
	Format() Format

	// Convert runs the full pipeline on src.
	Convert(ctx context.Context, src Source, opts Options) (*Bundle, error)
}
