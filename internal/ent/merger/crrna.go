package merger

import (
	"github.com/attilauslu/oligocraft/internal/ent/plate"
	"github.com/attilauslu/oligocraft/internal/ent/xref"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
	"github.com/attilauslu/oligocraft/pkg/ent/table"
)

// Control crRNA prefixes and their fixed spacers.
const (
	ControlCrRNA     = model.ControlPrefix
	ControlCrRNAUp   = "CLCactcrRNAU"
	ControlCrRNADown = "CLCactcrRNAD"

	ControlSpacerUp   = "GAATATGGGGCCACCCCCCAC"
	ControlSpacerDown = "GCCTTTGCTTGCCTGGGCCAA"
)

var crRNAKeep = []string{"Well Position", "Sequence Name", "Sequence", "µg"}

var crRNARename = map[string]string{
	"Well Position": "well_crrna_idt",
	"Sequence Name": "crRNA_id",
	"Sequence":      "crrna_seq_idt_original",
	"µg":            "ug",
}

// CrRNA merges crRNA plate specification with crRNA metadata. Every plate
// row is kept.
func CrRNA(meta, spec *table.Table) ([]model.CrRNA, error) {
	ns, err := plate.Normalize(spec, crRNAKeep, crRNARename)
	if err != nil {
		return nil, err
	}
	ns.Derive("crrna_seq_short", cleaned("crrna_seq_idt_original", plate.CleanShort))
	ns.Derive("crrna_seq_idt", cleaned("crrna_seq_idt_original", plate.CleanIDT))

	merged, err := ns.LeftMerge(meta, "crRNA_id", "crRNA_id")
	if err != nil {
		return nil, err
	}
	if err = deriveBGC(merged, "crRNA"); err != nil {
		return nil, err
	}

	override(merged, "crRNA_id", ControlCrRNA, "BGC_number", literal(model.ControlBGC))
	override(merged, "crRNA_id", ControlCrRNAUp, "crRNA_prefix", literal(model.Upstream))
	override(merged, "crRNA_id", ControlCrRNADown, "crRNA_prefix", literal(model.Downstream))
	override(merged, "crRNA_id", ControlCrRNAUp, "crRNA", literal(ControlSpacerUp))
	override(merged, "crRNA_id", ControlCrRNADown, "crRNA", literal(ControlSpacerDown))
	merged.Derive("RNA_crrna", cleaned("crRNA", plate.ToRNA))

	err = xref.Validate(meta, ns, merged, xref.Columns{
		OriginalID:   "crRNA_id",
		SpecID:       "crRNA_id",
		OriginalWell: "Well Position",
		SpecWell:     "well_crrna_idt",
		OriginalSeq:  "RNA_crrna",
		SpecSeq:      "crrna_seq_short",
		Label:        "crRNA",
	})
	if err != nil {
		return nil, err
	}

	res := make([]model.CrRNA, 0, merged.Len())
	for _, r := range merged.Rows() {
		res = append(res, model.CrRNA{
			Well:   r.Value("well_crrna_idt"),
			ID:     r.Value("crRNA_id"),
			SeqIDT: r.Value("crrna_seq_idt"),
			Seq:    r.Value("crRNA"),
			BGC:    r.Value("BGC_number"),
			Strain: r.Value("strain_name"),
			Prefix: r.Value("crRNA_prefix"),
			Strand: r.Value("crRNA_strand"),
			Loc:    r.Value("crRNA_loc"),
			UG:     r.Value("ug"),
		})
	}
	return res, nil
}

// cleaned applies fn to a column, NULL cells stay NULL.
func cleaned(col string, fn func(string) string) func(table.Row) (string, bool) {
	return func(r table.Row) (string, bool) {
		v, ok := r.Get(col)
		if !ok {
			return "", false
		}
		return fn(v), true
	}
}
