package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixdp/georound/internal/export"
	"github.com/sixdp/georound/internal/geodf"
	"github.com/sixdp/georound/internal/processor"
	"github.com/sixdp/georound/internal/table"
)

func assembled(t *testing.T) *geodf.GeoTable {
	t.Helper()
	tab := &table.Table{
		Columns: []string{"name", "plot_wkt"},
		Rows: [][]string{
			{"Plot A", "POINT (36.821946 -1.283333)"},
			{"Plot B", "POLYGON ((0 0, 1.000001 0, 1.000001 1.000001, 0 0))"},
			{"Plot C", "broken"},
		},
	}
	gt, err := geodf.Assemble(tab, processor.DefaultRoleTable())
	require.NoError(t, err)
	return gt
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"csv", "xlsx", "geojson", "kml"} {
		f, err := export.ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, s, f.Ext())
		assert.NotEmpty(t, f.ContentType())
	}

	_, err := export.ParseFormat("shp")
	assert.Error(t, err)
}

func TestWriteGeoJSON(t *testing.T) {
	gt := assembled(t)

	var buf bytes.Buffer
	require.NoError(t, export.WriteGeoJSON(&buf, gt, export.Options{}))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]interface{} `json:"properties"`
			Geometry   map[string]interface{} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	// the broken row is skipped, the WKT source column is not a property
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "Plot A", fc.Features[0].Properties["name"])
	assert.NotContains(t, fc.Features[0].Properties, "plot_wkt")
	assert.Equal(t, "Point", fc.Features[0].Geometry["type"])
	assert.Equal(t, "Polygon", fc.Features[1].Geometry["type"])
}

func TestWriteGeoJSONCompact(t *testing.T) {
	gt := assembled(t)

	var pretty, compact bytes.Buffer
	require.NoError(t, export.WriteGeoJSON(&pretty, gt, export.Options{}))
	require.NoError(t, export.WriteGeoJSON(&compact, gt, export.Options{Compact: true}))

	assert.Less(t, compact.Len(), pretty.Len())
	assert.NotContains(t, compact.String(), "\n")
	assert.JSONEq(t, pretty.String(), compact.String())
}

func TestWriteKML(t *testing.T) {
	gt := assembled(t)

	var buf bytes.Buffer
	require.NoError(t, export.WriteKML(&buf, gt))

	out := buf.String()
	assert.Contains(t, out, "<kml")
	assert.Contains(t, out, "<Placemark>")
	assert.Contains(t, out, "<name>Plot A</name>")
	assert.Contains(t, out, "36.821946,-1.283333")
	assert.Contains(t, out, "<Polygon>")
	assert.Contains(t, out, "<outerBoundaryIs>")
	// the broken row produced no placemark
	assert.NotContains(t, out, "Plot C")
}

func TestWriteDispatch(t *testing.T) {
	gt := assembled(t)

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.CSV, gt.Table, gt, export.Options{}))
	assert.True(t, strings.HasPrefix(buf.String(), "name,plot_wkt"))

	buf.Reset()
	require.NoError(t, export.Write(&buf, export.XLSX, gt.Table, gt, export.Options{}))
	assert.NotZero(t, buf.Len())

	assert.ErrorIs(t, export.Write(&buf, export.GeoJSON, gt.Table, nil, export.Options{}), export.ErrNeedsGeometry)
	assert.ErrorIs(t, export.Write(&buf, export.KML, gt.Table, nil, export.Options{}), export.ErrNeedsGeometry)
}
