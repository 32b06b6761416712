package policelog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Assemble pairs each record with its grid value. Row order is input order
// and no row is dropped.
func Assemble(records []Record, grids []string) (Table, error) {
	if len(records) != len(grids) {
		return Table{}, fmt.Errorf("assemble %d records with %d grids: %w", len(records), len(grids), ErrGridMismatch)
	}
	rows := make([]Record, len(records))
	for i, rec := range records {
		rec.Grid = grids[i]
		rows[i] = rec
	}
	return Table{Rows: rows}, nil
}

// Parse runs the whole pipeline over a raw document. The returned table has
// one row per chunk produced by Split.
func Parse(raw string) Table {
	chunks := Split(Filter(raw))
	records := make([]Record, len(chunks))
	grids := make([]string, len(chunks))
	for i, chunk := range chunks {
		records[i] = Extract(chunk)
		grids[i] = DeriveGrid(records[i].Address)
	}
	// Lengths are equal by construction.
	table, _ := Assemble(records, grids)
	return table
}

// WriteCSV renders the table with a header row and a leading unnamed,
// zero-based row index column.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{""}, Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(append([]string{strconv.Itoa(i)}, row.Values()...)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// CSV returns the table rendered by WriteCSV.
func (t Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
