// Package pipeline implements the staged roster transformation: verify
// emails, filter to view users, enrich against the warehouse, and join
// login activity. Each stage reads one CSV and writes the next, so any
// stage can be rerun on its own.
package pipeline

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// Row is one roster record keyed by header name. Columns absent from the
// source file read as "".
type Row map[string]string

// Table is an ordered roster with its header. Stages append columns but
// never reorder rows.
type Table struct {
	Header []string
	Rows   []Row
}

// ReadTable loads a CSV file into memory. A UTF-8 BOM on the first header
// cell is stripped; rows shorter than the header are padded with "".
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(bufio.NewReader(f))
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.Errorf("pipeline: %s is empty", path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read header of %s", path)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &Table{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: read row of %s", path)
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// WriteTable writes the table to path, columns in header order.
func WriteTable(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "pipeline: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return eris.Wrapf(err, "pipeline: write header of %s", path)
	}

	record := make([]string, len(t.Header))
	for _, row := range t.Rows {
		for i, col := range t.Header {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return eris.Wrapf(err, "pipeline: write row of %s", path)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "pipeline: flush %s", path)
	}
	return f.Close()
}

// AddColumns extends the header with any columns it does not already
// carry, preserving order of the additions.
func (t *Table) AddColumns(cols ...string) {
	seen := make(map[string]bool, len(t.Header))
	for _, c := range t.Header {
		seen[c] = true
	}
	for _, c := range cols {
		if !seen[c] {
			t.Header = append(t.Header, c)
			seen[c] = true
		}
	}
}

// Clone returns a copy of the row so stages can extend it without
// aliasing the source table.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
