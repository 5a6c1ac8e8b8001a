package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestLogger is a middleware to log HTTP requests. Probe endpoints
// are logged at debug to keep scrape noise out of the info log.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)

		level := zerolog.InfoLevel
		if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			level = zerolog.DebugLevel
		}

		log.WithLevel(level).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.statusCode).
			Str("ip", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("Request processed")
	})
}

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader records the status for the access log, then delegates.
func (w *responseWriterWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
