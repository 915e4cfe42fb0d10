// Package merger joins lab metadata with vendor plate specifications,
// derives cluster numbers and sides, and validates the result.
package merger

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/attilauslu/oligocraft/internal/ent/loader"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
	"github.com/attilauslu/oligocraft/pkg/ent/table"
	"github.com/dustin/go-humanize"
)

// Result contains cleaned parts of a run.
type Result struct {
	CrRNAs    []model.CrRNA
	Receivers []model.Receiver
	Screening []model.Screening
	Genomes   []model.Genome

	// Locations maps cluster numbers to destination wells of the 96-well
	// plate.
	Locations map[int]string
}

// All runs the three mergers and prepares genome and location mappings.
// Errors of the mergers are collected in order: crRNA, receivers,
// screening.
func All(in loader.Inputs, onlyC bool) (Result, error) {
	var res Result
	var el errs.List
	var primers *table.Table
	var err error

	res.CrRNAs, err = CrRNA(in.CrRNAMeta, in.CrRNASpec)
	el = el.Append(err)

	res.Receivers, primers, err = Receivers(in.ReceiverMeta, in.PrimersSpec)
	el = el.Append(err)
	if primers == nil {
		return Result{}, el.Err()
	}
	res.Screening, err = Screening(in.ScreeningMeta, primers, onlyC)
	el = el.Append(err)

	if err = el.Err(); err != nil {
		return Result{}, err
	}

	res.Genomes = Genomes(in.Genomes)
	res.Locations = Locations(in.Locations)

	slog.Info("Merged plate data",
		"crRNAs", humanize.Comma(int64(len(res.CrRNAs))),
		"receivers", humanize.Comma(int64(len(res.Receivers))),
		"screening", humanize.Comma(int64(len(res.Screening))),
	)
	return res, nil
}

// Genomes converts the strain names mapping to genome records.
func Genomes(t *table.Table) []model.Genome {
	res := make([]model.Genome, 0, t.Len())
	for _, r := range t.Rows() {
		res = append(res, model.Genome{
			BenchlingName: r.Value("benchling_name"),
			SelectionName: r.Value("selection_name"),
		})
	}
	return res
}

// Locations converts the plate location mapping to cluster number to well
// map. Rows without a cluster number are ignored, for duplicated clusters
// the first row wins.
func Locations(t *table.Table) map[int]string {
	res := make(map[int]string)
	for _, r := range t.DropNull("BGC_number").Rows() {
		bgc := r.Value("BGC_number")
		n, err := clusterNumber(bgc)
		if err != nil {
			slog.Warn("Skipping location without numeric cluster", "BGC_number", bgc)
			continue
		}
		if _, ok := res[n]; ok {
			continue
		}
		res[n] = r.Value("96_well_formatted")
	}
	return res
}

func clusterNumber(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// deriveBGC rewrites the BGC_number column as zero-padded 3-digit codes.
// NULL cells stay NULL.
func deriveBGC(t *table.Table, label string) error {
	var bad []string
	t.Derive("BGC_number", func(r table.Row) (string, bool) {
		v, ok := r.Get("BGC_number")
		if !ok {
			return "", false
		}
		if v == model.ControlBGC {
			return v, true
		}
		n, err := clusterNumber(v)
		if err != nil {
			bad = append(bad, v)
			return v, true
		}
		return model.BGCCode(n), true
	})
	if len(bad) > 0 {
		msg := fmt.Sprintf("%s metadata has non-numeric BGC_number: %s",
			label, errs.Names(bad))
		return errs.New(errs.ParseError, msg)
	}
	return nil
}

// override sets col to val for rows where idCol starts with prefix.
func override(t *table.Table, idCol, prefix, col string, val func(table.Row) string) {
	t.Derive(col, func(r table.Row) (string, bool) {
		if strings.HasPrefix(r.Value(idCol), prefix) {
			return val(r), true
		}
		return r.Get(col)
	})
}

func literal(s string) func(table.Row) string {
	return func(table.Row) string { return s }
}
