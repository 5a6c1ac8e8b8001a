// Package coord rewrites coordinate values to exactly six decimal places.
//
// EUDR submissions require plot coordinates with six fractional digits.
// Values that already carry more than six digits are rounded; shorter
// fractions are padded with zeros plus a literal trailing 1 instead of
// being rounded, so a padded value is distinguishable from a measured one.
package coord

import (
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sixdp/georound/internal/metrics"
)

// zeros feeding the padding rule; the sixth slot is reserved for the
// trailing 1, so at most five zeros are ever appended.
const zeroPad = "00000"

// Format returns value rewritten so its fractional part has exactly six
// digits. It never fails: anything that cannot be read as a number is
// returned unchanged and counted as a fallback.
//
// Rounding of long fractions goes through float64, which rounds to
// nearest with ties to even.
func Format(value string) string {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		metrics.CoordFallbacks.Inc()
		log.Trace().Str("value", value).Msg("Value left unformatted: not a plain number")
		return value
	}

	// Exponent and hex forms have no usable decimal text; normalize them
	// through the float path.
	if strings.ContainsAny(value, "eExX") {
		metrics.ValuesFormatted.Inc()
		return strconv.FormatFloat(f, 'f', 6, 64)
	}

	dot := strings.IndexByte(value, '.')
	if dot < 0 {
		metrics.ValuesFormatted.Inc()
		return value + ".000001"
	}

	frac := value[dot+1:]
	var out string
	if len(frac) >= 6 {
		out = strconv.FormatFloat(f, 'f', 6, 64)
	} else {
		out = value[:dot] + "." + frac + zeroPad[:5-len(frac)] + "1"
	}

	metrics.ValuesFormatted.Inc()
	return out
}

// FormatValue runs Format over the shortest decimal representation of v
// and parses the result back. Used where vertices live as binary floats.
func FormatValue(v float64) float64 {
	out, err := strconv.ParseFloat(Format(strconv.FormatFloat(v, 'f', -1, 64)), 64)
	if err != nil {
		return v
	}
	return out
}

// ApplyN feeds value through f n times, each output becoming the next
// input. The WKT pipeline runs with n=2 for compatibility with existing
// consumers; see geo.Normalizer.Passes.
func ApplyN(f func(string) string, value string, n int) string {
	for i := 0; i < n; i++ {
		value = f(value)
	}
	return value
}
