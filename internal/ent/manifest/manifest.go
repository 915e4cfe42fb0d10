// Package manifest saves the registry IDs of a run as a CSV file and
// uploads it to the registry.
package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
	"github.com/attilauslu/oligocraft/pkg/ent/table"
	"github.com/gnames/gnsys"
)

// MimeType of the manifest blob.
const MimeType = "text/csv"

// Order returns the order number from the first row of crRNA metadata.
func Order(meta *table.Table) (string, error) {
	if meta.Len() == 0 {
		return "", errs.New(errs.LookupError, "crRNA metadata has no rows with Order ID")
	}
	v, ok := meta.Row(0).Get("Order ID")
	if !ok {
		return "", errs.New(errs.LookupError, "the first row of crRNA metadata has no Order ID")
	}
	v = strings.TrimSpace(v)
	if f, err := strconv.ParseFloat(v, 64); err == nil && f == float64(int(f)) {
		v = strconv.Itoa(int(f))
	}
	return v, nil
}

// Name returns the entity name of the manifest of an order.
func Name(order string) string {
	return fmt.Sprintf("CLC_Plate%s_API_IDs", order)
}

// Table converts constructs to the manifest table.
func Table(cs []model.Construct) *table.Table {
	res := table.New(model.ManifestHeader...)
	for _, c := range cs {
		res.AppendValues(c.ManifestRow()...)
	}
	return res
}

// Write saves constructs to path.
func Write(path string, cs []model.Construct) error {
	if err := gnsys.MakeDir(filepath.Dir(path)); err != nil {
		slog.Error("Cannot create directory", "dir", filepath.Dir(path), "error", err)
		return err
	}
	if err := Table(cs).WriteCSVFile(path); err != nil {
		slog.Error("Cannot write manifest", "path", path, "error", err)
		return err
	}
	return nil
}

// Upload sends the manifest file as a blob and creates the file entity
// that links it.
func Upload(
	ctx context.Context,
	reg registry.Registry,
	cfg config.Config,
	path, order string,
) (registry.Entity, error) {
	name := Name(order)
	blobID, err := reg.CreateBlob(ctx, path, name+".csv", MimeType)
	if err != nil {
		slog.Error("Cannot upload manifest", "path", path, "error", err)
		return registry.Entity{}, err
	}

	p := model.ManifestPayload{
		Target: model.Target{
			Kind:     model.CustomEntity,
			FolderID: cfg.Folders.CSV,
			SchemaID: cfg.Schemas.CSV,
		},
		Name:   name,
		BlobID: blobID,
	}
	res, err := reg.CreateEntity(ctx, p)
	if err != nil {
		slog.Error("Cannot create manifest entity", "name", name, "error", err)
		return registry.Entity{}, err
	}
	slog.Info("Created manifest", "name", res.Name, "id", res.ID)
	return res, nil
}
