package registry

import (
	"context"

	"github.com/attilauslu/oligocraft/pkg/ent/model"
)

// Registry is the remote entity registry the pipeline reads from and
// writes to. Failures of a remote call are ExternalServiceError errors.
type Registry interface {
	// FileEntity returns a custom entity that links an uploaded CSV blob.
	FileEntity(ctx context.Context, id string) (FileEntity, error)

	// DownloadBlob saves the content of a blob to a local path.
	DownloadBlob(ctx context.Context, blobID, path string) error

	// ListEntities returns every entity of a kind in a folder with a given
	// schema.
	ListEntities(ctx context.Context, t model.Target) ([]Entity, error)

	// BulkCreate submits creation of many entities of one kind as a single
	// asynchronous task.
	BulkCreate(
		ctx context.Context,
		kind model.Kind,
		payloads []model.EntityCreate,
	) (Task, error)

	// Plate returns a plate with its wells.
	Plate(ctx context.Context, id string) (Plate, error)

	// TransferIntoContainers moves entities into plate wells.
	TransferIntoContainers(ctx context.Context, ts []Transfer) error

	// ListEntries returns notebook entries with a given name.
	ListEntries(ctx context.Context, name string) ([]Entry, error)

	// Entry returns a notebook entry with its content.
	Entry(ctx context.Context, id string) (Entry, error)

	// BulkCreateAssayResults adds rows to a notebook results table.
	BulkCreateAssayResults(
		ctx context.Context,
		rs []model.AssayResult,
		tableID string,
	) error

	// CreateBlob uploads a local file and returns the blob ID.
	CreateBlob(ctx context.Context, path, name, mimeType string) (string, error)

	// CreateEntity creates a single entity synchronously.
	CreateEntity(ctx context.Context, p model.Payload) (Entity, error)
}

// Task is an asynchronous bulk creation.
type Task interface {
	// ID of the task.
	ID() string

	// Wait blocks until the task finishes and returns created entities.
	Wait(ctx context.Context) ([]Entity, error)
}
