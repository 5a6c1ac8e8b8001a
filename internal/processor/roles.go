// Package processor applies coordinate normalization to the recognized
// columns of a table.
package processor

import "strings"

// Role is the logical meaning of a coordinate-bearing column.
type Role int

const (
	RoleNone Role = iota
	RoleLongitude
	RoleLatitude
	RoleWKT
)

// Default accepted column names per role. The misspelled longitute and
// latitute entries are part of the compatibility surface with real input
// files and must stay.
var (
	DefaultLongitudeNames = []string{"long", "longitude", "plot_longitude", "longitute"}
	DefaultLatitudeNames  = []string{"lat", "latitude", "plot_latitude", "latitute"}
	DefaultWKTNames       = []string{"gps_point", "gps_polygon", "plot_gps_point", "plot_gps_polygon", "plot_wkt", "wkt", "geometry"}
)

// RoleTable maps accepted column names, case-insensitively, to roles.
type RoleTable struct {
	byName map[string]Role
}

// NewRoleTable builds a role table from explicit name lists. Empty lists
// fall back to the defaults for that role.
func NewRoleTable(longitude, latitude, wktNames []string) *RoleTable {
	if len(longitude) == 0 {
		longitude = DefaultLongitudeNames
	}
	if len(latitude) == 0 {
		latitude = DefaultLatitudeNames
	}
	if len(wktNames) == 0 {
		wktNames = DefaultWKTNames
	}

	rt := &RoleTable{byName: make(map[string]Role)}
	for _, name := range longitude {
		rt.byName[strings.ToLower(name)] = RoleLongitude
	}
	for _, name := range latitude {
		rt.byName[strings.ToLower(name)] = RoleLatitude
	}
	for _, name := range wktNames {
		rt.byName[strings.ToLower(name)] = RoleWKT
	}

	return rt
}

// DefaultRoleTable returns the role table for the default column names.
func DefaultRoleTable() *RoleTable {
	return NewRoleTable(nil, nil, nil)
}

// Resolve returns the role of a column name, or RoleNone.
func (rt *RoleTable) Resolve(column string) Role {
	return rt.byName[strings.ToLower(column)]
}
