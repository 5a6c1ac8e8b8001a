package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/sixdp/georound/internal/export"
	"github.com/sixdp/georound/internal/geodf"
	"github.com/sixdp/georound/internal/table"
)

// HandleProcess accepts a multipart upload ("file") plus an output
// "format" field, runs the normalization pipeline and responds with the
// processed file.
func (s *ServerContext) HandleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	outName := r.FormValue("format")
	if outName == "" {
		outName = string(export.CSV)
	}
	outFormat, err := export.ParseFormat(outName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	inFormat, err := table.DetectFormat(header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := table.Read(file, inFormat)
	if err != nil {
		log.Warn().Err(err).Str("file", header.Filename).Msg("Upload could not be loaded")
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("could not load %s file: %v", inFormat, err))
		return
	}

	res := s.newProcessor().Process(t)
	for _, warning := range res.Warnings {
		log.Warn().Str("file", header.Filename).Msg(warning)
	}

	// geometry assembly is best effort for tabular outputs, mandatory
	// for geospatial ones
	gt, err := geodf.Assemble(t, s.Roles)
	if err != nil {
		if outFormat == export.GeoJSON || outFormat == export.KML {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if errors.Is(err, geodf.ErrNoGeometry) {
			log.Warn().Str("file", header.Filename).Msg("No geometry information found; geospatial export disabled")
		}
	}

	w.Header().Set("Content-Type", outFormat.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="processed_data.%s"`, outFormat.Ext()))

	opts := export.Options{Compact: s.Config.CompactGeoJSON || r.FormValue("compact") == "1"}
	if err := export.Write(w, outFormat, t, gt, opts); err != nil {
		// headers are already sent; log and drop the connection
		log.Error().Err(err).Str("format", string(outFormat)).Msg("Export failed mid-response")
		return
	}

	log.Info().
		Str("file", header.Filename).
		Str("format", string(outFormat)).
		Int("rows", len(t.Rows)).
		Strs("columns", res.ProcessedColumns).
		Msg("File processed")
}

// HandleHealth reports liveness.
func (s *ServerContext) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
