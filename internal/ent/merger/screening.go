package merger

import (
	"regexp"
	"strings"

	"github.com/attilauslu/oligocraft/internal/ent/xref"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
	"github.com/attilauslu/oligocraft/pkg/ent/table"
)

// Control screening primer prefixes.
const (
	ControlScreening        = "CLCactC"
	ControlScreeningForward = "CLCactCF"
	ControlScreeningReverse = "CLCactCR"
)

var locusRe = regexp.MustCompile(`CLC(\d{3})`)

var longHeader = []string{
	"BGC_number", "locus tag", "primer_name", "primer_sequences",
	"well_position", "sufix",
}

// Screening merges the normalized primers plate specification with
// screening primers metadata. Forward and reverse primers of a metadata
// row become two rows. With onlyC only locus tags that end with 'C' are
// used.
func Screening(meta, primers *table.Table, onlyC bool) ([]model.Screening, error) {
	long := pivot(meta, onlyC)

	merged, err := primers.LeftMerge(long, "primer_id", "primer_name")
	if err != nil {
		return nil, err
	}

	primerID := func(r table.Row) string { return r.Value("primer_id") }
	override(merged, "primer_id", ControlScreening, "primer_name", primerID)
	override(merged, "primer_id", ControlScreening, "BGC_number", literal(model.ControlBGC))
	override(merged, "primer_id", ControlScreeningForward, "sufix", literal(model.Forward))
	override(merged, "primer_id", ControlScreeningReverse, "sufix", literal(model.Reverse))
	merged = merged.DropNull("primer_name")

	err = xref.Validate(long, primers, merged, xref.Columns{
		OriginalID:   "primer_name",
		SpecID:       "primer_id",
		OriginalWell: "well_position",
		SpecWell:     "well_primer_idt",
		OriginalSeq:  "primer_sequences",
		SpecSeq:      "primer_seq_idt",
		Label:        "Screening",
	})
	if err != nil {
		return nil, err
	}

	res := make([]model.Screening, 0, merged.Len())
	for _, r := range merged.Rows() {
		res = append(res, model.Screening{
			Well:     r.Value("well_primer_idt"),
			ID:       r.Value("primer_id"),
			Seq:      r.Value("primer_seq_idt"),
			UL:       r.Value("ul_primers"),
			BGC:      r.Value("BGC_number"),
			LocusTag: r.Value("locus tag"),
			Suffix:   r.Value("sufix"),
		})
	}
	return res, nil
}

// pivot turns forward and reverse columns into a long table, forward rows
// first.
func pivot(meta *table.Table, onlyC bool) *table.Table {
	rows := meta.Where(func(r table.Row) bool {
		tag, ok := r.Get("locus tag")
		if !ok {
			return !onlyC
		}
		return !onlyC || strings.HasSuffix(tag, "C")
	})

	res := table.New(longHeader...)
	for _, side := range []struct{ prefix, suffix string }{
		{"f_", model.Forward},
		{"r_", model.Reverse},
	} {
		for _, r := range rows.Rows() {
			nr := table.Row{"sufix": side.suffix}
			tag, ok := r.Get("locus tag")
			if ok {
				nr["locus tag"] = tag
				if m := locusRe.FindStringSubmatch(tag); m != nil {
					nr["BGC_number"] = m[1]
				}
			}
			copyCell(r, nr, side.prefix+"primer_name", "primer_name")
			copyCell(r, nr, side.prefix+"primer_sequences(5-3)", "primer_sequences")
			copyCell(r, nr, side.prefix+"well_position", "well_position")
			res.Append(nr)
		}
	}
	return res
}

func copyCell(from, to table.Row, src, dst string) {
	if v, ok := from.Get(src); ok {
		to[table.NormName(dst)] = v
	}
}
