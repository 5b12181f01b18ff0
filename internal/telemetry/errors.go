package telemetry

import "codeberg.org/mutker/ps3temp/internal/errors"

const (
	// Write Errors
	ErrLogCreate = errors.ErrorCode("telemetry_log_create_failed")
	ErrLogWrite  = errors.ErrorCode("telemetry_log_write_failed")
	ErrLogClose  = errors.ErrorCode("telemetry_log_close_failed")
	ErrLogClosed = errors.ErrorCode("telemetry_log_closed")

	// Read Errors
	ErrLogRead    = errors.ErrorCode("telemetry_log_read_failed")
	ErrEmptyLog   = errors.ErrorCode("telemetry_empty_log")
	ErrInvalidLog = errors.ErrorCode("telemetry_invalid_log")
)
