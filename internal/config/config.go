// Package config handles configuration loading and shared data structures.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sixdp/georound/internal/geo"
	"github.com/sixdp/georound/internal/processor"
)

// Columns overrides the accepted column names per logical role. Empty
// lists keep the built-in defaults, including the misspelled aliases
// real input files carry.
type Columns struct {
	Longitude []string `yaml:"longitude,omitempty"`
	Latitude  []string `yaml:"latitude,omitempty"`
	WKT       []string `yaml:"wkt,omitempty"`
}

// Config represents the root configuration file structure.
type Config struct {
	Columns Columns `yaml:"columns,omitempty"`

	// Passes is the number of normalization passes per WKT value.
	Passes int `yaml:"passes,omitempty"`
	// CloseRings re-closes polygon rings with the formatted first vertex.
	CloseRings *bool `yaml:"close_rings,omitempty"`
	// CompactGeoJSON minifies GeoJSON output.
	CompactGeoJSON bool `yaml:"compact_geojson,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{Passes: geo.DefaultPasses}
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Passes <= 0 {
		cfg.Passes = geo.DefaultPasses
	}

	return cfg, nil
}

// RoleTable builds the column role table for this configuration.
func (c *Config) RoleTable() *processor.RoleTable {
	return processor.NewRoleTable(c.Columns.Longitude, c.Columns.Latitude, c.Columns.WKT)
}

// Normalizer builds a geometry normalizer for this configuration.
func (c *Config) Normalizer() *geo.Normalizer {
	n := geo.NewNormalizer()
	if c.Passes > 0 {
		n.Passes = c.Passes
	}
	if c.CloseRings != nil {
		n.CloseRings = *c.CloseRings
	}
	return n
}
