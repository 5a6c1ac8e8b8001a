package table

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// KML input structures. Only the geometry variants this pipeline
// understands are decoded; go-kml is an encoder, so parsing is done with
// plain xml tags.
type kmlRoot struct {
	XMLName  xml.Name    `xml:"kml"`
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Folders    []kmlFolder    `xml:"Folder"`
}

type kmlFolder struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Folders    []kmlFolder    `xml:"Folder"`
}

type kmlPlacemark struct {
	Name          string      `xml:"name"`
	Description   string      `xml:"description"`
	Point         *kmlPoint   `xml:"Point"`
	Polygon       *kmlPolygon `xml:"Polygon"`
	MultiGeometry *kmlMulti   `xml:"MultiGeometry"`
}

type kmlMulti struct {
	Points   []kmlPoint   `xml:"Point"`
	Polygons []kmlPolygon `xml:"Polygon"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer kmlBoundary   `xml:"outerBoundaryIs"`
	Inner []kmlBoundary `xml:"innerBoundaryIs"`
}

type kmlBoundary struct {
	Coordinates string `xml:"LinearRing>coordinates"`
}

// ReadKML loads Placemarks (including those nested in Folders) as a
// table with name, description and a WKT geometry column.
func ReadKML(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var root kmlRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	placemarks := root.Document.Placemarks
	for _, folder := range root.Document.Folders {
		placemarks = append(placemarks, collectPlacemarks(folder)...)
	}

	t := &Table{
		Columns: []string{"name", "description", GeometryColumn},
		Rows:    make([][]string, 0, len(placemarks)),
	}
	for _, pm := range placemarks {
		row := []string{strings.TrimSpace(pm.Name), strings.TrimSpace(pm.Description), ""}
		if g := pm.geometry(); g != nil {
			s, err := wkt.Marshal(g)
			if err != nil {
				log.Warn().Err(err).Str("placemark", pm.Name).Msg("Placemark geometry could not be serialized to WKT")
			} else {
				row[2] = s
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

func collectPlacemarks(f kmlFolder) []kmlPlacemark {
	out := f.Placemarks
	for _, sub := range f.Folders {
		out = append(out, collectPlacemarks(sub)...)
	}
	return out
}

func (pm kmlPlacemark) geometry() geom.T {
	switch {
	case pm.Point != nil:
		c, ok := parseKMLCoordinate(pm.Point.Coordinates)
		if !ok {
			return nil
		}
		return geom.NewPointFlat(geom.XY, c)
	case pm.Polygon != nil:
		return pm.Polygon.geometry()
	case pm.MultiGeometry != nil:
		return pm.MultiGeometry.geometry()
	default:
		return nil
	}
}

func (p kmlPolygon) geometry() geom.T {
	rings := make([][]geom.Coord, 0, 1+len(p.Inner))

	outer := parseKMLRing(p.Outer.Coordinates)
	if outer == nil {
		return nil
	}
	rings = append(rings, outer)

	for _, b := range p.Inner {
		if ring := parseKMLRing(b.Coordinates); ring != nil {
			rings = append(rings, ring)
		}
	}

	return geom.NewPolygon(geom.XY).MustSetCoords(rings)
}

func (m kmlMulti) geometry() geom.T {
	// homogeneous collections only, polygons taking precedence
	if len(m.Polygons) > 0 {
		polys := make([][][]geom.Coord, 0, len(m.Polygons))
		for _, p := range m.Polygons {
			g := p.geometry()
			if g == nil {
				return nil
			}
			polys = append(polys, g.(*geom.Polygon).Coords())
		}
		return geom.NewMultiPolygon(geom.XY).MustSetCoords(polys)
	}

	if len(m.Points) > 0 {
		coords := make([]geom.Coord, 0, len(m.Points))
		for _, p := range m.Points {
			c, ok := parseKMLCoordinate(p.Coordinates)
			if !ok {
				return nil
			}
			coords = append(coords, geom.Coord(c))
		}
		return geom.NewMultiPoint(geom.XY).MustSetCoords(coords)
	}

	return nil
}

// parseKMLRing reads a whitespace-separated list of lon,lat[,alt] tuples.
func parseKMLRing(coordinates string) []geom.Coord {
	fields := strings.Fields(coordinates)
	if len(fields) == 0 {
		return nil
	}

	ring := make([]geom.Coord, 0, len(fields))
	for _, field := range fields {
		c, ok := parseKMLCoordinate(field)
		if !ok {
			return nil
		}
		ring = append(ring, geom.Coord(c))
	}

	return ring
}

func parseKMLCoordinate(s string) ([]float64, bool) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) < 2 {
		return nil, false
	}

	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, false
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, false
	}

	return []float64{lon, lat}, true
}
