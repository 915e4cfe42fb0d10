package archio

import (
	"context"
	"log/slog"

	"github.com/attilauslu/oligocraft/internal/ent/archive"
	"github.com/dustin/go-humanize"
	"github.com/jackc/pgx/v5"
)

// Table names follow gorm naming of archive models.
const (
	runsTable       = "archived_runs"
	constructsTable = "archived_constructs"
	partsTable      = "archived_parts"
)

var constructColumns = []string{
	"run_id", "name", "bgc", "external_id", "well_96", "grna_up",
	"grna_down", "strain", "dna_fragment", "rec_primer_u_48",
	"rec_primer_d_45", "rec_asm_u_48", "rec_asm_d_45", "scr_primer_f",
	"scr_primer_r",
}

var partColumns = []string{
	"run_id", "type", "name", "external_id", "bgc", "well", "sequence",
}

func constructRows(r archive.Record) [][]any {
	res := make([][]any, len(r.Constructs))
	for i, c := range r.Constructs {
		res[i] = []any{
			c.RunID, c.Name, c.BGC, c.ExternalID, c.Well96, c.GRNAUp,
			c.GRNADown, c.Strain, c.DNAFragment, c.RecPrimerU48,
			c.RecPrimerD45, c.RecAsmU48, c.RecAsmD45, c.ScrPrimerF,
			c.ScrPrimerR,
		}
	}
	return res
}

func partRows(r archive.Record) [][]any {
	res := make([][]any, len(r.Parts))
	for i, p := range r.Parts {
		res[i] = []any{
			p.RunID, p.Type, p.Name, p.ExternalID, p.BGC, p.Well, p.Sequence,
		}
	}
	return res
}

// Save implements archive.Archiver. The run and its rows are saved in one
// transaction.
func (a *archio) Save(ctx context.Context, r archive.Record) error {
	tx, err := a.db.Begin(ctx)
	if err != nil {
		slog.Error("Cannot start transaction", "error", err)
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := `INSERT INTO ` + runsTable + `
  (id, order_number, mode, manifest_id, created_at)
  VALUES ($1, $2, $3, $4, $5)`
	_, err = tx.Exec(ctx, q, r.Run.ID, r.Run.Order, r.Run.Mode, r.Run.ManifestID, r.Run.CreatedAt)
	if err != nil {
		slog.Error("Cannot save run", "run", r.Run.ID, "error", err)
		return err
	}

	cn, err := insertRows(ctx, tx, constructsTable, constructColumns, constructRows(r))
	if err != nil {
		slog.Error("Cannot save constructs", "run", r.Run.ID, "error", err)
		return err
	}
	pn, err := insertRows(ctx, tx, partsTable, partColumns, partRows(r))
	if err != nil {
		slog.Error("Cannot save parts", "run", r.Run.ID, "error", err)
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}
	slog.Info("Saved run to archive",
		"run", r.Run.ID,
		"constructs", humanize.Comma(cn),
		"parts", humanize.Comma(pn),
	)
	return nil
}

func insertRows(ctx context.Context, tx pgx.Tx, tbl string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	return tx.CopyFrom(ctx, pgx.Identifier{tbl}, columns, pgx.CopyFromRows(rows))
}
