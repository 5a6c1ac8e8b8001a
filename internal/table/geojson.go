package table

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// GeometryColumn is the column name geometry text lands in when loading
// geospatial formats, matching the convention of dataframe tooling.
const GeometryColumn = "geometry"

// ReadGeoJSON loads a FeatureCollection as a table: one row per feature,
// properties as columns in first-seen order, geometry serialized to WKT
// in the geometry column.
func ReadGeoJSON(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, err
	}

	// properties are maps, so sort each feature's keys to keep column
	// order deterministic across runs
	var columns []string
	colIdx := make(map[string]int)
	for _, f := range fc.Features {
		keys := make([]string, 0, len(f.Properties))
		for key := range f.Properties {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if _, ok := colIdx[key]; !ok {
				colIdx[key] = len(columns)
				columns = append(columns, key)
			}
		}
	}
	geomIdx := len(columns)
	columns = append(columns, GeometryColumn)

	t := &Table{Columns: columns, Rows: make([][]string, 0, len(fc.Features))}
	for _, f := range fc.Features {
		row := make([]string, len(columns))
		for key, v := range f.Properties {
			row[colIdx[key]] = cellString(v)
		}
		if f.Geometry != nil {
			s, err := wkt.Marshal(f.Geometry)
			if err != nil {
				log.Warn().Err(err).Msg("Feature geometry could not be serialized to WKT")
			} else {
				row[geomIdx] = s
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// cellString renders a GeoJSON property value as cell text.
func cellString(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
