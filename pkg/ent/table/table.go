// Package table provides a small column-oriented container for the CSV
// files the pipeline consumes. A cell that is absent from a row is NULL.
package table

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Row maps column names to cell values. A missing key is a NULL cell.
type Row map[string]string

// Get returns a cell and whether it is not NULL.
func (r Row) Get(col string) (string, bool) {
	v, ok := r[NormName(col)]
	return v, ok
}

// Value returns a cell or an empty string for NULL.
func (r Row) Value(col string) string {
	return r[NormName(col)]
}

// IsNull reports whether a cell is NULL.
func (r Row) IsNull(col string) bool {
	_, ok := r[NormName(col)]
	return !ok
}

func (r Row) clone() Row {
	res := make(Row, len(r))
	for k, v := range r {
		res[k] = v
	}
	return res
}

// Table is an ordered set of rows with a fixed ordered header.
type Table struct {
	header []string
	rows   []Row
}

// New creates an empty table with a given header. Column names are
// normalized with NormName.
func New(header ...string) *Table {
	h := make([]string, len(header))
	for i := range header {
		h[i] = NormName(header[i])
	}
	return &Table{header: h}
}

// NormName normalizes a column name. It applies Unicode NFKC, so 'µ'
// (micro sign) and 'μ' (Greek mu) are the same, and trims outer spaces.
func NormName(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// Header returns a copy of column names.
func (t *Table) Header() []string {
	return slices.Clone(t.header)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the rows of the table. Rows are shared, not copied.
func (t *Table) Rows() []Row {
	return t.rows
}

// Row returns the i-th row.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Has reports whether the table has a column.
func (t *Table) Has(col string) bool {
	return slices.Contains(t.header, NormName(col))
}

// Missing returns the columns from cols that are not in the header,
// preserving their order.
func (t *Table) Missing(cols ...string) []string {
	var res []string
	for _, c := range cols {
		if !t.Has(c) {
			res = append(res, c)
		}
	}
	return res
}

// Append adds a row. Keys that are not in the header are added as new
// columns.
func (t *Table) Append(r Row) {
	nr := make(Row, len(r))
	for k, v := range r {
		k = NormName(k)
		if !slices.Contains(t.header, k) {
			t.header = append(t.header, k)
		}
		nr[k] = v
	}
	t.rows = append(t.rows, nr)
}

// AppendValues adds a row from values ordered by header. Empty values
// become NULL cells.
func (t *Table) AppendValues(vals ...string) {
	r := make(Row, len(t.header))
	for i := range vals {
		if i >= len(t.header) {
			break
		}
		if vals[i] == "" {
			continue
		}
		r[t.header[i]] = vals[i]
	}
	t.rows = append(t.rows, r)
}

// Column returns all cells of a column, NULL cells as empty strings.
func (t *Table) Column(col string) []string {
	col = NormName(col)
	res := make([]string, len(t.rows))
	for i := range t.rows {
		res[i] = t.rows[i][col]
	}
	return res
}

// Project returns a new table with only the given columns, in the given
// order. It is an error if a column is absent.
func (t *Table) Project(cols ...string) (*Table, error) {
	if miss := t.Missing(cols...); len(miss) > 0 {
		return nil, fmt.Errorf("columns %q not in index %q", miss, t.header)
	}
	res := New(cols...)
	res.rows = make([]Row, len(t.rows))
	for i, r := range t.rows {
		nr := make(Row, len(cols))
		for _, c := range res.header {
			if v, ok := r[c]; ok {
				nr[c] = v
			}
		}
		res.rows[i] = nr
	}
	return res, nil
}

// Rename returns a new table where columns are renamed according to m.
// Columns absent from m keep their names.
func (t *Table) Rename(m map[string]string) *Table {
	nm := make(map[string]string, len(m))
	for k, v := range m {
		nm[NormName(k)] = NormName(v)
	}
	res := &Table{header: make([]string, len(t.header))}
	for i, h := range t.header {
		if n, ok := nm[h]; ok {
			h = n
		}
		res.header[i] = h
	}
	res.rows = make([]Row, len(t.rows))
	for i, r := range t.rows {
		nr := make(Row, len(r))
		for k, v := range r {
			if n, ok := nm[k]; ok {
				k = n
			}
			nr[k] = v
		}
		res.rows[i] = nr
	}
	return res
}

// Where returns a new table with rows that satisfy the predicate.
func (t *Table) Where(pred func(Row) bool) *Table {
	res := &Table{header: slices.Clone(t.header)}
	for _, r := range t.rows {
		if pred(r) {
			res.rows = append(res.rows, r)
		}
	}
	return res
}

// DropBlank removes rows where every cell is NULL.
func (t *Table) DropBlank() *Table {
	return t.Where(func(r Row) bool { return len(r) > 0 })
}

// DropNull removes rows where the cell of col is NULL.
func (t *Table) DropNull(col string) *Table {
	col = NormName(col)
	return t.Where(func(r Row) bool { return !r.IsNull(col) })
}

// Derive sets col for every row to the value returned by fn. If fn returns
// false the cell becomes NULL.
func (t *Table) Derive(col string, fn func(Row) (string, bool)) {
	col = NormName(col)
	if !slices.Contains(t.header, col) {
		t.header = append(t.header, col)
	}
	for _, r := range t.rows {
		if v, ok := fn(r); ok {
			r[col] = v
		} else {
			delete(r, col)
		}
	}
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	res := &Table{header: slices.Clone(t.header), rows: make([]Row, len(t.rows))}
	for i := range t.rows {
		res.rows[i] = t.rows[i].clone()
	}
	return res
}

// Concat returns a new table with rows of t followed by rows of others.
// The header is the union of headers in order of appearance.
func Concat(ts ...*Table) *Table {
	res := &Table{}
	for _, t := range ts {
		for _, h := range t.header {
			if !slices.Contains(res.header, h) {
				res.header = append(res.header, h)
			}
		}
		for _, r := range t.rows {
			res.rows = append(res.rows, r.clone())
		}
	}
	return res
}

// LeftMerge joins t (left) with right on leftOn == rightOn. Every left row
// produces one output row per matching right row, or one row with NULL
// right cells when nothing matches. NULL keys never match. Non-key right
// columns that collide with left columns get a "_y" suffix. When both key
// columns have the same name it appears once.
func (t *Table) LeftMerge(right *Table, leftOn, rightOn string) (*Table, error) {
	leftOn, rightOn = NormName(leftOn), NormName(rightOn)
	if !t.Has(leftOn) {
		return nil, fmt.Errorf("merge key %q not in left table", leftOn)
	}
	if !right.Has(rightOn) {
		return nil, fmt.Errorf("merge key %q not in right table", rightOn)
	}
	sameKey := leftOn == rightOn

	rename := make(map[string]string, len(right.header))
	res := &Table{header: slices.Clone(t.header)}
	for _, h := range right.header {
		if sameKey && h == rightOn {
			continue
		}
		n := h
		if slices.Contains(t.header, h) {
			n = h + "_y"
		}
		rename[h] = n
		res.header = append(res.header, n)
	}

	idx := make(map[string][]Row)
	for _, r := range right.rows {
		if k, ok := r[rightOn]; ok {
			idx[k] = append(idx[k], r)
		}
	}

	for _, l := range t.rows {
		var matches []Row
		if k, ok := l[leftOn]; ok {
			matches = idx[k]
		}
		if len(matches) == 0 {
			res.rows = append(res.rows, l.clone())
			continue
		}
		for _, m := range matches {
			nr := l.clone()
			for k, v := range m {
				n, ok := rename[k]
				if !ok {
					continue
				}
				nr[n] = v
			}
			res.rows = append(res.rows, nr)
		}
	}
	return res, nil
}
