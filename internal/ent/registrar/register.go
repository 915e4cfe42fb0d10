// Package registrar creates registry entities for cleaned parts and
// constructs. Entities are matched by name, so registering the same rows
// again does not create duplicates.
package registrar

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
	"github.com/dustin/go-humanize"
)

// Binding tells Register how to name a row, how to build its payload and
// where to store the assigned ID.
type Binding[T any] struct {
	Name  func(T) string
	Build func(T) model.Payload
	SetID func(*T, string)
}

// Register assigns registry IDs to rows. Rows with names that already
// exist in the target get existing IDs. All other rows are created with a
// single bulk request. A name that gets no ID is a LookupError.
func Register[T any](
	ctx context.Context,
	reg registry.Registry,
	t model.Target,
	rows []T,
	b Binding[T],
) error {
	existing, err := reg.ListEntities(ctx, t)
	if err != nil {
		slog.Error("Cannot list entities", "kind", t.Kind, "folder", t.FolderID, "error", err)
		return err
	}
	known := make(map[string]string, len(existing))
	for _, e := range existing {
		known[e.Name] = e.ID
	}

	var payloads []model.EntityCreate
	queued := make(map[string]struct{})
	var found int
	for i := range rows {
		name := b.Name(rows[i])
		if _, ok := known[name]; ok {
			found++
			slog.Debug("Entity already exists", "name", name)
			continue
		}
		if _, ok := queued[name]; ok {
			continue
		}
		queued[name] = struct{}{}
		payloads = append(payloads, b.Build(rows[i]).Create())
	}

	slog.Info("Registering entities",
		"kind", t.Kind,
		"schema", t.SchemaID,
		"existing", humanize.Comma(int64(found)),
		"new", humanize.Comma(int64(len(payloads))),
	)

	if len(payloads) > 0 {
		task, err := reg.BulkCreate(ctx, t.Kind, payloads)
		if err != nil {
			slog.Error("Cannot submit bulk creation", "kind", t.Kind, "error", err)
			return err
		}
		created, err := task.Wait(ctx)
		if err != nil {
			slog.Error("Bulk creation failed", "task", task.ID(), "error", err)
			return err
		}
		for _, e := range created {
			known[e.Name] = e.ID
		}
	}

	var missing []string
	for i := range rows {
		name := b.Name(rows[i])
		id, ok := known[name]
		if !ok || id == "" {
			missing = append(missing, name)
			continue
		}
		b.SetID(&rows[i], id)
	}
	if len(missing) > 0 {
		msg := fmt.Sprintf("Registry did not return IDs for: %s", errs.Names(missing))
		slog.Error("Unresolved entities", "kind", t.Kind, "names", missing)
		return errs.New(errs.LookupError, msg)
	}
	return nil
}
