// Package geodf assembles a geometry-aware view of a processed table,
// the way dataframe tooling promotes WKT or lon/lat columns to a
// geometry column.
package geodf

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/sixdp/georound/internal/processor"
	"github.com/sixdp/georound/internal/table"
)

// CRS is the fixed reference system every assembled table is tagged
// with. Projection handling is out of scope; the tag is passed through.
const CRS = "EPSG:4326"

// ErrNoGeometry is returned when a table has neither a usable WKT column
// nor a lon/lat column pair.
var ErrNoGeometry = errors.New("no geometry information found (WKT or lon/lat columns)")

// GeoTable pairs a table with a parallel geometry column. Geometry[i] is
// nil when row i has no parseable geometry.
type GeoTable struct {
	*table.Table

	Geometry []geom.T
	// GeometryColumn is the WKT source column, or empty when geometries
	// were built from a lon/lat pair.
	GeometryColumn string
	CRS            string
}

// Assemble picks the geometry source for a table: the first WKT-role
// column that parses for at least one row wins; otherwise the first
// column pair whose names contain "lon" and "lat". Column selection
// mirrors the behavior input files already depend on.
func Assemble(t *table.Table, roles *processor.RoleTable) (*GeoTable, error) {
	for i, name := range t.Columns {
		if roles.Resolve(name) != processor.RoleWKT {
			continue
		}
		if gt, ok := fromWKTColumn(t, i); ok {
			log.Debug().Str("column", name).Msg("Assembled geometry from WKT column")
			return gt, nil
		}
		log.Warn().Str("column", name).Msg("WKT column found but no row could be parsed")
	}

	lonIdx, latIdx := -1, -1
	for i, name := range t.Columns {
		lower := strings.ToLower(name)
		if lonIdx < 0 && strings.Contains(lower, "lon") {
			lonIdx = i
		}
		if latIdx < 0 && strings.Contains(lower, "lat") {
			latIdx = i
		}
	}
	if lonIdx >= 0 && latIdx >= 0 {
		log.Debug().
			Str("lon", t.Columns[lonIdx]).
			Str("lat", t.Columns[latIdx]).
			Msg("Assembled geometry from lon/lat columns")
		return fromLonLat(t, lonIdx, latIdx), nil
	}

	return nil, ErrNoGeometry
}

func fromWKTColumn(t *table.Table, idx int) (*GeoTable, bool) {
	geoms := make([]geom.T, len(t.Rows))
	parsed := 0
	for i, row := range t.Rows {
		cell := row[idx]
		if cell == "" {
			continue
		}
		g, err := wkt.Unmarshal(cell)
		if err != nil {
			continue
		}
		geoms[i] = g
		parsed++
	}
	if parsed == 0 {
		return nil, false
	}

	return &GeoTable{
		Table:          t,
		Geometry:       geoms,
		GeometryColumn: t.Columns[idx],
		CRS:            CRS,
	}, true
}

func fromLonLat(t *table.Table, lonIdx, latIdx int) *GeoTable {
	geoms := make([]geom.T, len(t.Rows))
	for i, row := range t.Rows {
		lon, err := strconv.ParseFloat(row[lonIdx], 64)
		if err != nil {
			continue
		}
		lat, err := strconv.ParseFloat(row[latIdx], 64)
		if err != nil {
			continue
		}
		geoms[i] = geom.NewPointFlat(geom.XY, []float64{lon, lat})
	}

	return &GeoTable{Table: t, Geometry: geoms, CRS: CRS}
}
