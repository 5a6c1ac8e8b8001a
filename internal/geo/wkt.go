// Package geo normalizes the vertex precision of WKT geometries.
package geo

import (
	"github.com/rs/zerolog/log"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/sixdp/georound/internal/coord"
	"github.com/sixdp/georound/internal/metrics"
)

// DefaultPasses is how many times a WKT value is fed back through
// ProcessWKT. Two passes are what downstream consumers already expect;
// the second re-parses and reformats, which leaves values the first
// pass already normalized alone.
const DefaultPasses = 2

const logValueCap = 64

// Normalizer rewrites every vertex of supported WKT geometries to six
// decimal places. Supported variants are Point, Polygon (with holes),
// MultiPoint and MultiPolygon; anything else passes through unchanged.
type Normalizer struct {
	// Passes is the number of ProcessWKT applications per value.
	Passes int
	// CloseRings copies the formatted first vertex of every polygon ring
	// over the closing vertex, so closure stays structural rather than a
	// coincidence of per-vertex formatting.
	CloseRings bool
}

// NewNormalizer returns a Normalizer with compatibility defaults.
func NewNormalizer() *Normalizer {
	return &Normalizer{Passes: DefaultPasses, CloseRings: true}
}

// ProcessValue runs ProcessWKT over value the configured number of times.
func (n *Normalizer) ProcessValue(value string) string {
	passes := n.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}
	return coord.ApplyN(n.ProcessWKT, value, passes)
}

// ProcessWKT parses value as WKT, rewrites every vertex to six decimal
// places and serializes the result back to WKT. It never fails: text that
// does not parse, an unsupported geometry variant, or a serialization
// error all yield the input unchanged.
func (n *Normalizer) ProcessWKT(value string) string {
	g, err := wkt.Unmarshal(value)
	if err != nil {
		metrics.WKTFallbacks.Inc()
		log.Trace().Err(err).Str("value", truncate(value)).Msg("WKT left unchanged: parse failed")
		return value
	}

	var out geom.T
	switch g := g.(type) {
	case *geom.Point:
		out = n.point(g)
	case *geom.Polygon:
		out = n.polygon(g)
	case *geom.MultiPoint:
		out = n.multiPoint(g)
	case *geom.MultiPolygon:
		out = n.multiPolygon(g)
	default:
		// LineString, GeometryCollection etc. are out of scope
		return value
	}

	res, err := wkt.Marshal(out)
	if err != nil {
		metrics.WKTFallbacks.Inc()
		log.Trace().Err(err).Str("value", truncate(value)).Msg("WKT left unchanged: serialization failed")
		return value
	}

	return res
}

// Parseable reports whether value is valid WKT of any variant.
func (n *Normalizer) Parseable(value string) bool {
	_, err := wkt.Unmarshal(value)
	return err == nil
}

func (n *Normalizer) point(p *geom.Point) *geom.Point {
	return geom.NewPointFlat(geom.XY, n.vertex(p.Coords()))
}

func (n *Normalizer) multiPoint(mp *geom.MultiPoint) *geom.MultiPoint {
	coords := make([]geom.Coord, mp.NumPoints())
	for i := range coords {
		coords[i] = geom.Coord(n.vertex(mp.Point(i).Coords()))
	}
	return geom.NewMultiPoint(geom.XY).MustSetCoords(coords)
}

func (n *Normalizer) polygon(p *geom.Polygon) *geom.Polygon {
	return geom.NewPolygon(geom.XY).MustSetCoords(n.rings(p.Coords()))
}

func (n *Normalizer) multiPolygon(mp *geom.MultiPolygon) *geom.MultiPolygon {
	polys := make([][][]geom.Coord, mp.NumPolygons())
	for i := range polys {
		polys[i] = n.rings(mp.Polygon(i).Coords())
	}
	return geom.NewMultiPolygon(geom.XY).MustSetCoords(polys)
}

// rings formats the exterior ring and every hole of a polygon,
// preserving ring order and vertex counts.
func (n *Normalizer) rings(rings [][]geom.Coord) [][]geom.Coord {
	out := make([][]geom.Coord, len(rings))
	for i, ring := range rings {
		formatted := make([]geom.Coord, len(ring))
		for j, c := range ring {
			formatted[j] = geom.Coord(n.vertex(c))
		}
		if n.CloseRings && len(formatted) > 1 {
			last := len(formatted) - 1
			formatted[last] = geom.Coord{formatted[0].X(), formatted[0].Y()}
		}
		out[i] = formatted
	}
	return out
}

// vertex formats one coordinate pair, dropping any Z or M ordinates.
func (n *Normalizer) vertex(c geom.Coord) []float64 {
	return []float64{coord.FormatValue(c.X()), coord.FormatValue(c.Y())}
}

func truncate(s string) string {
	if len(s) > logValueCap {
		return s[:logValueCap] + "..."
	}
	return s
}
