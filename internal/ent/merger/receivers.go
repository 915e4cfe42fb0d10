package merger

import (
	"github.com/attilauslu/oligocraft/internal/ent/plate"
	"github.com/attilauslu/oligocraft/internal/ent/xref"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
	"github.com/attilauslu/oligocraft/pkg/ent/table"
)

// Control receiver primer prefixes.
const (
	ControlReceiver     = "CLCact4"
	ControlReceiverUp   = "CLCact48"
	ControlReceiverDown = "CLCact45"
)

var primersKeep = []string{
	"Well Position", "Sequence Name", "Sequence", "Final Volume µL ",
}

var primersRename = map[string]string{
	"Well Position":    "well_primer_idt",
	"Sequence Name":    "primer_id",
	"Sequence":         "primer_seq_idt",
	"Final Volume µL ": "ul_primers",
}

// NormalizePrimers prepares the primers plate specification shared by
// receiver and screening primers.
func NormalizePrimers(spec *table.Table) (*table.Table, error) {
	ns, err := plate.Normalize(spec, primersKeep, primersRename)
	if err != nil {
		return nil, err
	}
	ns.Derive("primer_seq_idt", cleaned("primer_seq_idt", plate.CleanPrimer))
	return ns, nil
}

// Receivers merges the primers plate specification with receiver primers
// metadata. Plate rows that are not receivers are dropped. It also
// returns the normalized plate specification, even when the merge fails,
// once the plate is normalized.
func Receivers(meta, spec *table.Table) ([]model.Receiver, *table.Table, error) {
	ns, err := NormalizePrimers(spec)
	if err != nil {
		return nil, nil, err
	}

	merged, err := ns.LeftMerge(meta, "primer_id", "receiver_primer_id")
	if err != nil {
		return nil, ns, err
	}
	if err = deriveBGC(merged, "Receiver"); err != nil {
		return nil, ns, err
	}

	primerID := func(r table.Row) string { return r.Value("primer_id") }
	override(merged, "primer_id", ControlReceiver, "receiver_primer_id", primerID)
	override(merged, "primer_id", ControlReceiver, "BGC_number", literal(model.ControlBGC))
	override(merged, "primer_id", ControlReceiverUp, "crRNA_prefix", literal(model.Upstream))
	override(merged, "primer_id", ControlReceiverDown, "crRNA_prefix", literal(model.Downstream))
	merged = merged.DropNull("receiver_primer_id")

	err = xref.Validate(meta, ns, merged, xref.Columns{
		OriginalID:   "receiver_primer_id",
		SpecID:       "primer_id",
		OriginalWell: "Well Position",
		SpecWell:     "well_primer_idt",
		OriginalSeq:  "receiver_primer_seq",
		SpecSeq:      "primer_seq_idt",
		Label:        "Receiver",
	})
	if err != nil {
		return nil, ns, err
	}

	res := make([]model.Receiver, 0, merged.Len())
	for _, r := range merged.Rows() {
		res = append(res, model.Receiver{
			Well:   r.Value("well_primer_idt"),
			Seq:    r.Value("primer_seq_idt"),
			UL:     r.Value("ul_primers"),
			BGC:    r.Value("BGC_number"),
			Prefix: r.Value("crRNA_prefix"),
			ID:     r.Value("receiver_primer_id"),
		})
	}
	return res, ns, nil
}
