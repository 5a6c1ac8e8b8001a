// Package table holds the ordered tabular model and the file format
// readers and writers feeding the normalization pipeline.
package table

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Table is an ordered set of columns over rows of text cells. Row and
// column order are preserved end to end; an empty cell means the value
// was absent in the source file.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Format identifies a supported file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatGeoJSON Format = "geojson"
	FormatKML     Format = "kml"
)

// DetectFormat maps a file name to its format by extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".geojson", ".json":
		return FormatGeoJSON, nil
	case ".kml":
		return FormatKML, nil
	default:
		return "", fmt.Errorf("unsupported file format: %s", filepath.Ext(name))
	}
}

// Read loads a table from r in the given format.
func Read(r io.Reader, format Format) (*Table, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r)
	case FormatGeoJSON:
		return ReadGeoJSON(r)
	case FormatKML:
		return ReadKML(r)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// padRow extends row with empty cells up to width.
func padRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}
