package store

import (
	"codeberg.org/halvor/revstrip/internal/errors"
)

const (
	ErrStoreOpen   = errors.ErrorCode("store_open_failed")
	ErrStoreRead   = errors.ErrorCode("store_read_failed")
	ErrStoreWrite  = errors.ErrorCode("store_write_failed")
	ErrBadAddress  = errors.ErrorCode("store_bad_address")
	ErrBadSequence = errors.ErrorCode("store_bad_sequence")
)
