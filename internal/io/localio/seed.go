package localio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/attilauslu/oligocraft/internal/ent/blob"
	"github.com/attilauslu/oligocraft/internal/ent/kv"
	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
	"github.com/gnames/gnfmt"
)

// Seed describes registry content that exists before a run.
type Seed struct {
	// Entities are existing entities, for example strains.
	Entities []SeedEntities `json:"entities"`

	// Files are local CSV files imported as file entities.
	Files []SeedFile `json:"files"`

	// Plates are empty plates.
	Plates []SeedPlate `json:"plates"`

	// Entries are notebook entries with one results table each.
	Entries []SeedEntry `json:"entries"`
}

// SeedEntities are names of entities of a target.
type SeedEntities struct {
	Kind     model.Kind `json:"kind"`
	FolderID string     `json:"folderId"`
	SchemaID string     `json:"schemaId"`
	Names    []string   `json:"names"`
}

// SeedFile is a file entity. Name must contain the role of the file.
type SeedFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// SeedPlate is a plate with well labels.
type SeedPlate struct {
	Name  string   `json:"name"`
	Wells []string `json:"wells"`
}

// SeedEntry is a notebook entry.
type SeedEntry struct {
	Name          string `json:"name"`
	AssaySchemaID string `json:"assaySchemaId"`
}

// Seeded contains IDs of imported objects by name.
type Seeded struct {
	Files   map[string]string `json:"files"`
	Plates  map[string]string `json:"plates"`
	Entries map[string]string `json:"entries"`

	// Tables maps entry names to IDs of their results tables.
	Tables map[string]string `json:"tables"`
}

// ReadSeed reads a JSON seed file. Relative file paths are resolved
// against the directory of the seed file.
func ReadSeed(path string) (Seed, error) {
	var res Seed
	bs, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Cannot read seed file", "path", path, "error", err)
		return res, err
	}
	enc := gnfmt.GNjson{}
	if err = enc.Decode(bs, &res); err != nil {
		slog.Error("Cannot decode seed file", "path", path, "error", err)
		return res, err
	}
	dir := filepath.Dir(path)
	for i := range res.Files {
		if !filepath.IsAbs(res.Files[i].Path) {
			res.Files[i].Path = filepath.Join(dir, res.Files[i].Path)
		}
	}
	return res, nil
}

// Seed implements Local.
func (l *localio) Seed(ctx context.Context, s Seed) (Seeded, error) {
	res := Seeded{
		Files:   make(map[string]string),
		Plates:  make(map[string]string),
		Entries: make(map[string]string),
		Tables:  make(map[string]string),
	}

	for _, se := range s.Entities {
		ps := make([]model.EntityCreate, len(se.Names))
		for i, n := range se.Names {
			ps[i] = model.EntityCreate{
				Kind: se.Kind, Name: n, FolderID: se.FolderID, SchemaID: se.SchemaID,
			}
		}
		if _, err := l.BulkCreate(ctx, se.Kind, ps); err != nil {
			return res, err
		}
	}

	var rs []kv.Record
	for _, f := range s.Files {
		fe, r, err := l.seedFile(ctx, f)
		if err != nil {
			return res, err
		}
		res.Files[f.Name] = fe.ID
		rs = append(rs, r)
	}

	for _, sp := range s.Plates {
		p := registry.Plate{
			ID:    ID("plt", sp.Name),
			Name:  sp.Name,
			Wells: make(map[string]registry.Well, len(sp.Wells)),
		}
		for _, w := range sp.Wells {
			p.Wells[w] = registry.Well{
				ID:      ID("con", sp.Name+"/"+w),
				Barcode: fmt.Sprintf("%s-%s", sp.Name, w),
				Name:    fmt.Sprintf("%s %s", sp.Name, w),
			}
		}
		r, err := l.record(plateKey+p.ID, p)
		if err != nil {
			return res, err
		}
		res.Plates[p.Name] = p.ID
		rs = append(rs, r)
	}

	for _, se := range s.Entries {
		tableID := ID("tbl", se.Name)
		e := registry.Entry{
			ID:   ID("etr", se.Name),
			Name: se.Name,
			Days: []registry.Day{{Notes: []registry.Note{{
				Type:          registry.ResultsTable,
				APIID:         tableID,
				AssaySchemaID: se.AssaySchemaID,
			}}}},
		}
		r, err := l.record(entryKey+e.ID, e)
		if err != nil {
			return res, err
		}
		res.Entries[e.Name] = e.ID
		res.Tables[e.Name] = tableID
		rs = append(rs, r)
	}

	if err := l.set(rs...); err != nil {
		return res, err
	}
	slog.Info("Seeded local registry",
		"files", len(res.Files), "plates", len(res.Plates), "entries", len(res.Entries))
	return res, nil
}

func (l *localio) seedFile(ctx context.Context, f SeedFile) (registry.FileEntity, kv.Record, error) {
	var res registry.FileEntity
	fh, err := os.Open(f.Path)
	if err != nil {
		slog.Error("Cannot open seed file", "path", f.Path, "error", err)
		return res, kv.Record{}, err
	}
	defer fh.Close()

	fileName := filepath.Base(f.Path)
	info := blob.Info{Key: ID("blob", f.Name), Name: fileName}
	if _, err = l.blobs.Put(ctx, info, fh); err != nil {
		return res, kv.Record{}, err
	}
	res = registry.FileEntity{
		ID:       ID("bfi", fileKey+f.Name),
		Name:     f.Name,
		BlobID:   info.Key,
		FileName: fileName,
	}
	r, err := l.record(fileKey+res.ID, res)
	return res, r, err
}
