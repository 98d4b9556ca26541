package canbus

import (
	"codeberg.org/halvor/revstrip/internal/errors"
)

const (
	// Initialization and Lifecycle Errors
	ErrBusInit      = errors.ErrorCode("canbus_init_failed")
	ErrBusNotOpen   = errors.ErrorCode("canbus_not_open")
	ErrBusClose     = errors.ErrorCode("canbus_close_failed")
	ErrReinitFailed = errors.ErrorCode("canbus_reinit_failed")

	// Frame Errors
	ErrFrameTooShort = errors.ErrorCode("canbus_frame_too_short")
	ErrRPMOutOfRange = errors.ErrorCode("canbus_rpm_out_of_range")
	ErrWrongFrameID  = errors.ErrorCode("canbus_wrong_frame_id")
)
