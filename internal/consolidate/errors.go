package consolidate

import (
	"fmt"

	"github.com/rotisserie/eris"
)

var (
	// ErrNoInput means every input table was nil or empty.
	ErrNoInput = eris.New("consolidate: no input tables")

	// ErrMissingColumn means the final projection lacks a required column.
	ErrMissingColumn = eris.New("consolidate: missing required column")
)

// ConsolidationError is the fatal failure of a consolidation stage. Nothing
// meaningful can be loaded when it is returned.
type ConsolidationError struct {
	Stage string
	Err   error
}

func (e *ConsolidationError) Error() string {
	return fmt.Sprintf("consolidate: %s: %v", e.Stage, e.Err)
}

func (e *ConsolidationError) Unwrap() error {
	return e.Err
}
