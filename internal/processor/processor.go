package processor

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/sixdp/georound/internal/coord"
	"github.com/sixdp/georound/internal/geo"
	"github.com/sixdp/georound/internal/table"
)

// Processor rewrites the coordinate-bearing cells of a table in place.
// Scalar longitude/latitude cells get a single formatting pass; WKT cells
// go through the normalizer's configured number of passes.
type Processor struct {
	Roles      *RoleTable
	Normalizer *geo.Normalizer

	// Progress, when set, is invoked once per processed row.
	Progress func()
}

// New returns a Processor with default roles and normalizer settings.
func New() *Processor {
	return &Processor{
		Roles:      DefaultRoleTable(),
		Normalizer: geo.NewNormalizer(),
	}
}

// Result reports what a Process call touched. A bad cell never fails the
// batch; cells that could not be parsed are counted per column and
// surfaced as warnings.
type Result struct {
	ProcessedColumns []string
	Warnings         []string
}

// Process walks the table once, in row and column order, rewriting the
// cells of recognized columns. Empty cells and unrecognized columns are
// left untouched.
func (p *Processor) Process(t *table.Table) Result {
	type target struct {
		index     int
		name      string
		role      Role
		cells     int
		fallbacks int
	}

	var targets []*target
	for i, name := range t.Columns {
		if role := p.Roles.Resolve(name); role != RoleNone {
			targets = append(targets, &target{index: i, name: name, role: role})
		}
	}

	for _, row := range t.Rows {
		for _, tg := range targets {
			cell := row[tg.index]
			if cell == "" {
				continue
			}
			tg.cells++

			var out string
			switch tg.role {
			case RoleWKT:
				out = p.Normalizer.ProcessValue(cell)
				if out == cell && !p.Normalizer.Parseable(cell) {
					tg.fallbacks++
				}
			default:
				out = coord.Format(cell)
				if _, err := strconv.ParseFloat(cell, 64); err != nil {
					tg.fallbacks++
				}
			}
			row[tg.index] = out
		}
		if p.Progress != nil {
			p.Progress()
		}
	}

	var res Result
	for _, tg := range targets {
		res.ProcessedColumns = append(res.ProcessedColumns, tg.name)
		if tg.fallbacks > 0 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("column %q: %d of %d values could not be parsed and were left unchanged", tg.name, tg.fallbacks, tg.cells))
		}
		log.Debug().
			Str("column", tg.name).
			Int("cells", tg.cells).
			Int("fallbacks", tg.fallbacks).
			Msg("Column processed")
	}

	return res
}
