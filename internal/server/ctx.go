// Package server handles HTTP requests and middleware.
package server

import (
	"github.com/rs/zerolog/log"

	"github.com/sixdp/georound/internal/config"
	"github.com/sixdp/georound/internal/geo"
	"github.com/sixdp/georound/internal/processor"
)

// MaxUploadBytes caps in-memory multipart parsing; larger file parts
// spill to disk.
const MaxUploadBytes = 64 << 20

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config     *config.Config
	Roles      *processor.RoleTable
	Normalizer *geo.Normalizer
}

// NewServerContext initializes the context from the configuration.
func NewServerContext(cfg *config.Config) *ServerContext {
	log.Info().
		Int("passes", cfg.Passes).
		Bool("compact_geojson", cfg.CompactGeoJSON).
		Msg("Initializing server context")

	return &ServerContext{
		Config:     cfg,
		Roles:      cfg.RoleTable(),
		Normalizer: cfg.Normalizer(),
	}
}

// newProcessor builds a per-request processor sharing the context's
// role table and normalizer settings.
func (s *ServerContext) newProcessor() *processor.Processor {
	return &processor.Processor{Roles: s.Roles, Normalizer: s.Normalizer}
}
