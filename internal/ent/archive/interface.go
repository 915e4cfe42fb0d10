package archive

import "context"

// Archiver saves successful runs to a database.
type Archiver interface {
	// Save stores a run with its constructs and parts.
	Save(ctx context.Context, r Record) error

	// Close releases database connections.
	Close() error
}
