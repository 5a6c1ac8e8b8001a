// Package metrics exposes Prometheus counters for the normalization pipeline.
//
// The formatter and the WKT normalizer never fail outward; these counters
// are the observable channel for values that were left untouched.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ValuesFormatted counts coordinate values successfully rewritten to
	// six decimal places.
	ValuesFormatted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "georound_values_formatted_total",
		Help: "Coordinate values rewritten to six decimal places.",
	})

	// CoordFallbacks counts values the coordinate formatter returned
	// unchanged because they could not be read as numbers.
	CoordFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "georound_coord_fallback_total",
		Help: "Values the coordinate formatter passed through unchanged.",
	})

	// WKTFallbacks counts WKT values returned unchanged because parsing
	// or re-serialization failed.
	WKTFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "georound_wkt_fallback_total",
		Help: "WKT values passed through unchanged.",
	})
)
