// Package source holds one transformer per raw match schema. Each maps its
// source's native columns or structure onto model.Match.
package source

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/worldcup-etl/internal/model"
)

// Source names, also recorded as model.Match.Source.
const (
	NameHistoric = "historic"
	Name2014     = "wc2014"
	Name2022     = "wc2022"
	Name2018     = "wc2018"
)

// ErrMissingColumn marks a data-contract violation: a required column could
// not be located. The source's data is skipped; other sources proceed.
var ErrMissingColumn = eris.New("source: missing required column")

// Input is the raw payload handed to a transformer. Tabular sources read
// Table; the 2018 source reads Tournament.
type Input struct {
	Table      *model.Table
	Tournament *model.Tournament2018
}

// Source transforms one raw schema into canonical matches.
type Source interface {
	// Name returns the stable identifier (e.g., "historic", "wc2018").
	Name() string

	// Transform maps the input onto canonical matches. An empty input yields
	// no matches and no error; a missing required column yields an error
	// wrapping ErrMissingColumn.
	Transform(in Input) ([]model.Match, error)
}

func missingColumn(source, column string) error {
	return eris.Wrapf(ErrMissingColumn, "source: %s: column %q", source, column)
}
