// Package xref cross-checks lab metadata against vendor plate
// specifications.
package xref

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
	"github.com/attilauslu/oligocraft/pkg/ent/table"
)

// ExemptPrefix marks IDs of the control family. Their wells and
// sequences are not compared.
const ExemptPrefix = model.ControlPrefix

// Columns names the columns compared by Validate.
type Columns struct {
	// OriginalID is the ID column of the metadata.
	OriginalID string
	// SpecID is the ID column of the plate specification.
	SpecID string

	OriginalWell string
	SpecWell     string
	OriginalSeq  string
	SpecSeq      string

	// Label names the kind of items in messages.
	Label string

	// ExemptPrefix overrides the default ExemptPrefix.
	ExemptPrefix string
}

// Validate checks that every metadata ID is present in the plate
// specification, and that wells and sequences of merged rows agree.
// Missing IDs are reported together, the first well or sequence mismatch
// is reported alone.
func Validate(meta, spec, merged *table.Table, c Columns) error {
	exempt := c.ExemptPrefix
	if exempt == "" {
		exempt = ExemptPrefix
	}

	known := make(map[string]struct{}, spec.Len())
	for _, id := range spec.Column(c.SpecID) {
		known[id] = struct{}{}
	}

	var missing []string
	for _, r := range meta.Rows() {
		id, ok := r.Get(c.OriginalID)
		if !ok {
			continue
		}
		if _, ok = known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		slog.Warn("Items are missing from plate", "label", c.Label, "ids", missing)
		msg := fmt.Sprintf("Missing the following %s: %s", c.Label, errs.Names(missing))
		return errs.New(errs.CrossReferenceError, msg)
	}

	for _, r := range merged.Rows() {
		id := r.Value(c.SpecID)
		if strings.HasPrefix(id, exempt) {
			continue
		}
		if !same(r, c.OriginalWell, c.SpecWell) {
			msg := fmt.Sprintf("%s %s: has changed wells in plate", c.Label, id)
			slog.Warn("Well mismatch", "label", c.Label, "id", id)
			return errs.New(errs.CrossReferenceError, msg)
		}
		if !same(r, c.OriginalSeq, c.SpecSeq) {
			msg := fmt.Sprintf("%s %s: has different sequence", c.Label, id)
			slog.Warn("Sequence mismatch", "label", c.Label, "id", id)
			return errs.New(errs.CrossReferenceError, msg)
		}
	}
	return nil
}

// same compares two cells of a row. A NULL cell never equals anything.
func same(r table.Row, a, b string) bool {
	va, ok := r.Get(a)
	if !ok {
		return false
	}
	vb, ok := r.Get(b)
	if !ok {
		return false
	}
	return va == vb
}
