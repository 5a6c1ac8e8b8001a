package geodf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sixdp/georound/internal/geodf"
	"github.com/sixdp/georound/internal/processor"
	"github.com/sixdp/georound/internal/table"
)

func TestAssembleFromWKTColumn(t *testing.T) {
	tab := &table.Table{
		Columns: []string{"farmer", "plot_wkt"},
		Rows: [][]string{
			{"A", "POINT (36.821946 -1.283333)"},
			{"B", "garbage"},
			{"C", ""},
		},
	}

	gt, err := geodf.Assemble(tab, processor.DefaultRoleTable())
	require.NoError(t, err)

	assert.Equal(t, "plot_wkt", gt.GeometryColumn)
	assert.Equal(t, "EPSG:4326", gt.CRS)
	require.Len(t, gt.Geometry, 3)
	require.NotNil(t, gt.Geometry[0])
	assert.IsType(t, &geom.Point{}, gt.Geometry[0])
	// unparseable and empty rows carry nil geometry, the batch survives
	assert.Nil(t, gt.Geometry[1])
	assert.Nil(t, gt.Geometry[2])
}

func TestAssembleFallsBackToLonLat(t *testing.T) {
	tab := &table.Table{
		Columns: []string{"plot_longitude", "plot_latitude", "name"},
		Rows: [][]string{
			{"36.821946", "-1.283333", "A"},
			{"bad", "-1.2", "B"},
		},
	}

	gt, err := geodf.Assemble(tab, processor.DefaultRoleTable())
	require.NoError(t, err)

	assert.Empty(t, gt.GeometryColumn)
	require.NotNil(t, gt.Geometry[0])
	p := gt.Geometry[0].(*geom.Point)
	assert.InDelta(t, 36.821946, p.Coords().X(), 1e-12)
	assert.InDelta(t, -1.283333, p.Coords().Y(), 1e-12)
	assert.Nil(t, gt.Geometry[1])
}

func TestAssembleSkipsUnparseableWKTColumn(t *testing.T) {
	// a WKT column with zero parseable rows must not shadow lon/lat
	tab := &table.Table{
		Columns: []string{"gps_point", "long", "lat"},
		Rows:    [][]string{{"junk", "1.5", "2.5"}},
	}

	gt, err := geodf.Assemble(tab, processor.DefaultRoleTable())
	require.NoError(t, err)
	assert.Empty(t, gt.GeometryColumn)
	require.NotNil(t, gt.Geometry[0])
}

func TestAssembleNoGeometry(t *testing.T) {
	tab := &table.Table{
		Columns: []string{"farmer", "village"},
		Rows:    [][]string{{"A", "x"}},
	}

	_, err := geodf.Assemble(tab, processor.DefaultRoleTable())
	assert.ErrorIs(t, err, geodf.ErrNoGeometry)
}
