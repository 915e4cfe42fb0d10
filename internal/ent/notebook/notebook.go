// Package notebook writes construct IDs into the results table of a
// notebook entry.
package notebook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
)

// Table finds the only results table of a schema in the only entry with a
// given name.
func Table(ctx context.Context, reg registry.Registry, name, schemaID string) (string, error) {
	notFound := errs.New(errs.LookupError, fmt.Sprintf(
		"The results table cannot be retreived, Is this %s the correct notebook "+
			"name? Is there a CLC BAC Entities Registration Output results table "+
			"in this notebook?", name,
	))

	entries, err := reg.ListEntries(ctx, name)
	if err != nil {
		slog.Error("Cannot list notebook entries", "name", name, "error", err)
		return "", err
	}
	if len(entries) != 1 {
		slog.Warn("Expected one notebook entry", "name", name, "found", len(entries))
		return "", notFound
	}

	entry, err := reg.Entry(ctx, entries[0].ID)
	if err != nil {
		slog.Error("Cannot get notebook entry", "entry", entries[0].ID, "error", err)
		return "", err
	}

	var ids []string
	for _, d := range entry.Days {
		for _, n := range d.Notes {
			if n.Type == registry.ResultsTable && n.AssaySchemaID == schemaID {
				ids = append(ids, n.APIID)
			}
		}
	}
	if len(ids) != 1 {
		slog.Warn("Expected one results table", "entry", entry.ID, "found", len(ids))
		return "", notFound
	}
	return ids[0], nil
}

// Results converts constructs to assay results. Test mode writes only the
// construct ID.
func Results(cs []model.Construct, schemaID, projectID string, mode config.Mode) []model.AssayResult {
	res := make([]model.AssayResult, len(cs))
	for i, c := range cs {
		f := model.Fields{"sample": c.ExternalID}
		if mode == config.ModeProduction {
			f = model.Fields{
				"bac":                     c.ExternalID,
				"well96":                  c.Well96,
				"grna_up":                 c.GRNAUp,
				"grna_down":               c.GRNADown,
				"receiver_primer_pbe45":   c.RecPrimerD45,
				"receiver_primer_pbe48":   c.RecPrimerU48,
				"receiver_assembly_pbe45": c.RecAsmD45,
				"receiver_assembly_pbe48": c.RecAsmU48,
				"screening_primer_cf":     c.ScrPrimerF,
				"screening_primer_cr":     c.ScrPrimerR,
				"strain":                  c.Strain,
				"dna_fragment":            c.DNAFragment,
			}
		}
		res[i] = model.AssayResult{SchemaID: schemaID, ProjectID: projectID, Fields: f}
	}
	return res
}

// Write adds one result per construct to the results table of a notebook
// entry.
func Write(
	ctx context.Context,
	reg registry.Registry,
	cfg config.Config,
	name string,
	cs []model.Construct,
) error {
	tableID, err := Table(ctx, reg, name, cfg.Schemas.Result)
	if err != nil {
		return err
	}
	rs := Results(cs, cfg.Schemas.Result, cfg.ProjectID, cfg.Mode)
	if err = reg.BulkCreateAssayResults(ctx, rs, tableID); err != nil {
		slog.Error("Cannot write results", "table", tableID, "error", err)
		return err
	}
	slog.Info("Wrote notebook results", "entry", name, "rows", len(rs))
	return nil
}
