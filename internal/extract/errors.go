package extract

import "codeberg.org/mutker/ps3temp/internal/errors"

const (
	ErrFieldNotFound  = errors.ErrorCode("extract_field_not_found")
	ErrInvalidValue   = errors.ErrorCode("extract_invalid_value")
	ErrInvalidPattern = errors.ErrorCode("extract_invalid_pattern")
)
