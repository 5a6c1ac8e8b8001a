package export

import (
	"encoding/json"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sixdp/georound/internal/geodf"
)

// WriteGeoJSON serializes an assembled table as a FeatureCollection.
// Non-geometry columns become feature properties; rows without a
// parseable geometry are skipped with a warning.
func WriteGeoJSON(w io.Writer, gt *geodf.GeoTable, opts Options) error {
	geomIdx := -1
	if gt.GeometryColumn != "" {
		geomIdx = gt.ColumnIndex(gt.GeometryColumn)
	}

	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(gt.Rows))}
	skipped := 0
	for i, row := range gt.Rows {
		if gt.Geometry[i] == nil {
			skipped++
			continue
		}

		props := make(map[string]interface{}, len(gt.Columns))
		for j, name := range gt.Columns {
			if j == geomIdx {
				continue
			}
			props[name] = row[j]
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   gt.Geometry[i],
			Properties: props,
		})
	}
	if skipped > 0 {
		log.Warn().Int("rows", skipped).Msg("Rows without geometry skipped in GeoJSON output")
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}

	if opts.Compact {
		m := minify.New()
		m.AddFunc("application/json", mjson.Minify)
		minified, err := m.Bytes("application/json", data)
		if err != nil {
			return err
		}
		data = minified
	}

	_, err = w.Write(data)
	return err
}
