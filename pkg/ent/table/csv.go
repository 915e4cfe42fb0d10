package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// ErrEmpty is returned when there is no header to read.
var ErrEmpty = errors.New("no columns to parse from file")

// ReadCSV reads a comma-separated table with a header row. Empty cells are
// NULL. Rows shorter than the header are padded with NULL cells, longer rows
// are an error.
func ReadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, bom)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}
	res := New(header...)

	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) > len(header) {
			return nil, fmt.Errorf(
				"error tokenizing data: expected %d fields in line %d, saw %d",
				len(header), line, len(row),
			)
		}
		res.AppendValues(row...)
	}
	return res, nil
}

// ReadCSVFile opens a file and reads it with ReadCSV.
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV writes the table with its header. NULL cells are written as
// empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header); err != nil {
		return err
	}
	rec := make([]string, len(t.header))
	for _, r := range t.rows {
		for i, h := range t.header {
			rec[i] = r[h]
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile creates or truncates path and writes the table into it.
func (t *Table) WriteCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err = t.WriteCSV(f); err != nil {
		return err
	}
	return f.Sync()
}
