package etl

import "errors"

var (
	ErrNoInputs       = errors.New("no input files")
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrPriceParse     = errors.New("unparseable price")
	ErrQuantityParse  = errors.New("unparseable quantity")
	ErrDateParse      = errors.New("unparseable date")
)
