package webman

import "codeberg.org/mutker/ps3temp/internal/errors"

const (
	// Transport Errors
	ErrRequestFailed    = errors.ErrorCode("webman_request_failed")
	ErrUnexpectedStatus = errors.ErrorCode("webman_unexpected_status")

	// Extraction Errors
	ErrInvalidHTML            = errors.ErrorCode("webman_invalid_html")
	ErrStatusElementNotFound  = errors.ErrorCode("webman_status_element_not_found")
	ErrStatusExtractionFailed = errors.ErrorCode("webman_status_extraction_failed")
)
