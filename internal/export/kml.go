package export

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-kml/v2"

	"github.com/sixdp/georound/internal/geodf"
)

// WriteKML serializes an assembled table as a KML document, one
// Placemark per row. A name or description column, when present, fills
// the matching KML fields; rows without geometry are skipped.
func WriteKML(w io.Writer, gt *geodf.GeoTable) error {
	nameIdx := gt.ColumnIndex("name")
	descIdx := gt.ColumnIndex("description")

	placemarks := make([]kml.Element, 0, len(gt.Rows))
	skipped := 0
	for i, row := range gt.Rows {
		if gt.Geometry[i] == nil {
			skipped++
			continue
		}

		el, err := kmlGeometry(gt.Geometry[i])
		if err != nil {
			skipped++
			continue
		}

		children := make([]kml.Element, 0, 3)
		if nameIdx >= 0 && row[nameIdx] != "" {
			children = append(children, kml.Name(row[nameIdx]))
		}
		if descIdx >= 0 && row[descIdx] != "" {
			children = append(children, kml.Description(row[descIdx]))
		}
		children = append(children, el)

		placemarks = append(placemarks, kml.Placemark(children...))
	}
	if skipped > 0 {
		log.Warn().Int("rows", skipped).Msg("Rows without geometry skipped in KML output")
	}

	return kml.KML(kml.Document(placemarks...)).WriteIndent(w, "", "  ")
}

func kmlGeometry(g geom.T) (kml.Element, error) {
	switch g := g.(type) {
	case *geom.Point:
		return kml.Point(kml.Coordinates(kmlCoord(g.Coords()))), nil
	case *geom.Polygon:
		return kmlPolygon(g), nil
	case *geom.MultiPoint:
		els := make([]kml.Element, g.NumPoints())
		for i := range els {
			els[i] = kml.Point(kml.Coordinates(kmlCoord(g.Point(i).Coords())))
		}
		return kml.MultiGeometry(els...), nil
	case *geom.MultiPolygon:
		els := make([]kml.Element, g.NumPolygons())
		for i := range els {
			els[i] = kmlPolygon(g.Polygon(i))
		}
		return kml.MultiGeometry(els...), nil
	case *geom.LineString:
		return kml.LineString(kml.Coordinates(kmlCoords(g.Coords())...)), nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %T", g)
	}
}

func kmlPolygon(p *geom.Polygon) kml.Element {
	children := make([]kml.Element, 0, p.NumLinearRings())
	for i := 0; i < p.NumLinearRings(); i++ {
		ring := kml.LinearRing(kml.Coordinates(kmlCoords(p.LinearRing(i).Coords())...))
		if i == 0 {
			children = append(children, kml.OuterBoundaryIs(ring))
		} else {
			children = append(children, kml.InnerBoundaryIs(ring))
		}
	}
	return kml.Polygon(children...)
}

func kmlCoords(coords []geom.Coord) []kml.Coordinate {
	out := make([]kml.Coordinate, len(coords))
	for i, c := range coords {
		out[i] = kmlCoord(c)
	}
	return out
}

func kmlCoord(c geom.Coord) kml.Coordinate {
	return kml.Coordinate{Lon: c.X(), Lat: c.Y()}
}
