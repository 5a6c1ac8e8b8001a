package table

import (
	"errors"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads a table from the first sheet of an Excel workbook,
// first row as header.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close workbook")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("xlsx: missing header row")
	}

	t := &Table{Columns: rows[0], Rows: make([][]string, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		t.Rows = append(t.Rows, padRow(row, len(t.Columns)))
	}

	return t, nil
}

// WriteXLSX serializes the table as an Excel workbook with a single sheet.
// Cells are written as text so padded coordinates keep their exact digits.
func WriteXLSX(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)

	if err := setRow(f, sheet, 1, t.Columns); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, cells []string) error {
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
