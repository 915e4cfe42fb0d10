// Package fetch downloads input CSV files from the registry and manages
// their local copies.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/attilauslu/oligocraft/internal/ent/loader"
	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/gnames/gnsys"
)

// Download saves the CSV of a file entity to the path of its role. The
// role is found in the entity name.
func Download(
	ctx context.Context,
	reg registry.Registry,
	id string,
	files loader.Files,
) (loader.Role, error) {
	slog.Info("Downloading file", "entity", id)
	fe, err := reg.FileEntity(ctx, id)
	if err != nil {
		slog.Error("Cannot get file entity", "entity", id, "error", err)
		return "", err
	}

	if !strings.HasSuffix(fe.FileName, ".csv") {
		msg := fmt.Sprintf("Are you sure %s has the correct format?", fe.FileName)
		return "", errs.New(errs.ParseError, msg)
	}

	role, ok := RoleOf(fe.Name)
	path := files[role]
	if !ok || path == "" {
		msg := fmt.Sprintf(
			"This file’s entity name doesn’t match any of the predefined naming "+
				"conventions. Entitiy name: %s. File: %s", fe.Name, fe.FileName,
		)
		return "", errs.New(errs.LookupError, msg)
	}

	if err = gnsys.MakeDir(filepath.Dir(path)); err != nil {
		slog.Error("Cannot create directory", "dir", filepath.Dir(path), "error", err)
		return "", errs.Wrap(errs.ConfigurationError, "cannot create download directory", err)
	}
	if err = reg.DownloadBlob(ctx, fe.BlobID, path); err != nil {
		slog.Error("Cannot download blob", "blob", fe.BlobID, "error", err)
		return "", err
	}
	slog.Info("File downloaded", "file", fe.FileName, "path", path)
	return role, nil
}

// RoleOf returns the first role, in the order of loader.Roles, that is a
// part of an entity name.
func RoleOf(name string) (loader.Role, bool) {
	for _, r := range loader.Roles {
		if strings.Contains(name, string(r)) {
			return r, true
		}
	}
	return "", false
}

// CheckAll returns an error that lists every role file that does not
// exist.
func CheckAll(files loader.Files) error {
	var missing []string
	for _, path := range files.Paths() {
		exists, _ := gnsys.FileExists(path)
		if !exists {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		msg := fmt.Sprintf("Missing files: %s", errs.Names(missing))
		slog.Warn("Missing input files", "files", missing)
		return errs.New(errs.LookupError, msg)
	}
	return nil
}

// Remove deletes files that exist.
func Remove(paths ...string) error {
	for _, path := range paths {
		exists, _ := gnsys.FileExists(path)
		if !exists {
			continue
		}
		if err := os.Remove(path); err != nil {
			slog.Error("Cannot remove file", "path", path, "error", err)
			return err
		}
	}
	return nil
}
