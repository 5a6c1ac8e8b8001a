// Package export serializes processed tables to the supported output
// formats.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/sixdp/georound/internal/geodf"
	"github.com/sixdp/georound/internal/table"
)

// ErrNeedsGeometry is returned when a geospatial output format is
// requested for a table without an assembled geometry column.
var ErrNeedsGeometry = errors.New("output format requires geometry (WKT or lon/lat columns)")

// Format is a supported output format.
type Format string

const (
	CSV     Format = "csv"
	XLSX    Format = "xlsx"
	GeoJSON Format = "geojson"
	KML     Format = "kml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case CSV, XLSX, GeoJSON, KML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported output format: %q", s)
	}
}

// ContentType returns the MIME type for downloads in this format.
func (f Format) ContentType() string {
	switch f {
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case GeoJSON:
		return "application/geo+json"
	case KML:
		return "application/vnd.google-earth.kml+xml"
	default:
		return "text/csv"
	}
}

// Ext returns the file extension for this format.
func (f Format) Ext() string {
	return string(f)
}

// Options adjusts serialization details.
type Options struct {
	// Compact minifies GeoJSON output instead of indenting it.
	Compact bool
}

// Write serializes t in the given format. gt may be nil for tabular
// formats; GeoJSON and KML require it.
func Write(w io.Writer, f Format, t *table.Table, gt *geodf.GeoTable, opts Options) error {
	switch f {
	case CSV:
		return table.WriteCSV(w, t)
	case XLSX:
		return table.WriteXLSX(w, t)
	case GeoJSON:
		if gt == nil {
			return ErrNeedsGeometry
		}
		return WriteGeoJSON(w, gt, opts)
	case KML:
		if gt == nil {
			return ErrNeedsGeometry
		}
		return WriteKML(w, gt)
	default:
		return fmt.Errorf("unsupported output format: %q", f)
	}
}
