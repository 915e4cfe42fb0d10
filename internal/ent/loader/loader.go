// Package loader reads input CSV files and checks that they have the
// columns the pipeline needs.
package loader

import (
	"fmt"
	"log/slog"

	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/table"
)

// Inputs are the seven loaded tables of a run.
type Inputs struct {
	CrRNAMeta     *table.Table
	ReceiverMeta  *table.Table
	ScreeningMeta *table.Table
	CrRNASpec     *table.Table
	PrimersSpec   *table.Table
	Genomes       *table.Table
	Locations     *table.Table
}

func (in *Inputs) set(r Role, t *table.Table) {
	switch r {
	case CrRNAMeta:
		in.CrRNAMeta = t
	case ReceiverMeta:
		in.ReceiverMeta = t
	case ScreeningMeta:
		in.ScreeningMeta = t
	case CrRNASpec:
		in.CrRNASpec = t
	case PrimersSpec:
		in.PrimersSpec = t
	case Genomes:
		in.Genomes = t
	case Locations:
		in.Locations = t
	}
}

// Load reads a CSV file, verifies required columns and drops rows where
// every cell is empty.
func Load(path string, required []string) (*table.Table, error) {
	t, err := table.ReadCSVFile(path)
	if err != nil {
		msg := fmt.Sprintf(
			"Can't read %s. Are you sure the file you uploaded has the correct CSV format?",
			path,
		)
		slog.Warn("Cannot read CSV file", "path", path, "error", err)
		return nil, errs.Wrap(errs.ParseError, msg, err)
	}

	if miss := t.Missing(required...); len(miss) > 0 {
		msg := fmt.Sprintf(
			"Missing required columns: %s in file %s", errs.Names(miss), path,
		)
		slog.Warn("Missing required columns", "path", path, "columns", miss)
		return nil, errs.New(errs.SchemaError, msg)
	}

	return t.DropBlank(), nil
}

// LoadAll loads every role of files. Errors of all files are collected
// into an errs.List in the order of Roles.
func LoadAll(files Files) (Inputs, error) {
	var res Inputs
	var el errs.List
	for _, r := range Roles {
		path, ok := files[r]
		if !ok {
			el = el.Append(errs.New(errs.LookupError,
				fmt.Sprintf("Missing files: %s", errs.Names([]string{string(r)}))))
			continue
		}
		t, err := Load(path, Required[r])
		if err != nil {
			el = el.Append(err)
			continue
		}
		res.set(r, t)
	}
	if err := el.Err(); err != nil {
		return Inputs{}, err
	}
	return res, nil
}
