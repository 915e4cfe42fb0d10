package oligocraft

import (
	"context"

	"github.com/attilauslu/oligocraft/internal/ent/archive"
	"github.com/attilauslu/oligocraft/internal/ent/loader"
)

// OligoCraft registers oligos and BAC constructs of a CLC plate order and
// fills the plates.
type OligoCraft interface {
	// Run executes the whole pipeline for a request.
	Run(ctx context.Context, req Request) (Report, error)

	// Validate loads and merges local input files without touching the
	// registry.
	Validate(ctx context.Context, files loader.Files) (Summary, error)

	// Archive saves a successful run.
	Archive(ctx context.Context, a archive.Archiver, rep Report) error
}
