package collector

import "codeberg.org/mutker/ps3temp/internal/errors"

const (
	ErrInvalidOptions = errors.ErrorCode("collector_invalid_options")
	ErrFetch          = errors.ErrorCode("collector_fetch_failed")
	ErrAppend         = errors.ErrorCode("collector_append_failed")
	ErrRecord         = errors.ErrorCode("collector_record_failed")
	ErrInterrupted    = errors.ErrorCode("collector_interrupted")
)
