// Package plate normalizes vendor plate sheets and cleans the
// sequences they report.
package plate

import (
	"strings"

	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/table"
)

// Scaffold is the Alt-R tracrRNA-binding prefix of synthesized crRNAs.
const Scaffold = "/AltR1/rUrArA rUrUrU rCrUrA rCrUrA rArGrU rGrUrA rGrArU "

// Normalize keeps only the given columns of a plate sheet and
// renames them. An absent column is a ConfigurationError.
func Normalize(
	t *table.Table,
	keep []string,
	rename map[string]string,
) (*table.Table, error) {
	res, err := t.Project(keep...)
	if err != nil {
		return nil, errs.Wrap(errs.ConfigurationError, "cannot normalize plate", err)
	}
	return res.Rename(rename), nil
}

// CleanShort removes the scaffold and the synthesis annotations. The
// result is the bare spacer.
func CleanShort(seq string) string {
	seq = strings.ReplaceAll(seq, Scaffold, "")
	return clean(seq)
}

// CleanIDT removes synthesis annotations and keeps the scaffold bases.
func CleanIDT(seq string) string {
	seq = strings.ReplaceAll(seq, "/AltR1/", "")
	return clean(seq)
}

func clean(seq string) string {
	seq = strings.ReplaceAll(seq, " /AltR2/", "")
	seq = strings.ReplaceAll(seq, "r", "")
	return strings.ReplaceAll(seq, " ", "")
}

// ToRNA converts DNA bases to RNA preserving case.
func ToRNA(seq string) string {
	seq = strings.ReplaceAll(seq, "T", "U")
	return strings.ReplaceAll(seq, "t", "u")
}

// CleanPrimer removes spaces from a primer sequence.
func CleanPrimer(seq string) string {
	return strings.ReplaceAll(seq, " ", "")
}

// CanonicalWell converts a well label to an upper-case row letter followed
// by a column padded with zeros to two digits, for example "a1" to "A01".
func CanonicalWell(w string) string {
	w = strings.TrimSpace(w)
	if w == "" {
		return w
	}
	col := w[1:]
	for len(col) < 2 {
		col = "0" + col
	}
	return strings.ToUpper(w[:1]) + col
}
