package table

import "errors"

// Table errors.
var (
	ErrMissingColumn = errors.New("missing column")
	ErrBadValue      = errors.New("bad value")
	ErrEmptyTable    = errors.New("table has no header")
)
