package render

import (
	"codeberg.org/halvor/revstrip/internal/errors"
)

const (
	ErrInvalidSequence  = errors.ErrorCode("render_invalid_sequence")
	ErrInvalidCellCount = errors.ErrorCode("render_invalid_cell_count")
)
