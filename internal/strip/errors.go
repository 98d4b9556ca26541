package strip

import (
	"codeberg.org/halvor/revstrip/internal/errors"
)

const (
	ErrPortOpen       = errors.ErrorCode("strip_port_open_failed")
	ErrWriteFailed    = errors.ErrorCode("strip_write_failed")
	ErrBadBrightness  = errors.ErrorCode("strip_invalid_brightness")
	ErrBadBufferSize  = errors.ErrorCode("strip_buffer_size_mismatch")
)
