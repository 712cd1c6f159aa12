package workbook

import "errors"

// Sentinel kinds for workbook errors.
var (
	ErrOpen            = errors.New("workbook open failed")
	ErrSheetNotFound   = errors.New("sheet not found")
	ErrMissingColumn   = errors.New("missing required column")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrNoScoreColumns  = errors.New("no score columns")
	ErrEncode          = errors.New("workbook encode failed")
	ErrUnknownFormat   = errors.New("unknown export format")
)
