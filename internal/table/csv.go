package table

import (
	"encoding/csv"
	"errors"
	"io"
)

// ReadCSV loads a table from CSV, first row as header. Short rows are
// padded with empty cells so every row matches the header width.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("csv: missing header row")
	}

	t := &Table{Columns: records[0], Rows: make([][]string, 0, len(records)-1)}
	for _, rec := range records[1:] {
		t.Rows = append(t.Rows, padRow(rec, len(t.Columns)))
	}

	return t, nil
}

// WriteCSV serializes the table as CSV with a header row.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}
