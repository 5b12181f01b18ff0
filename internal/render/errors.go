package render

import "codeberg.org/mutker/ps3temp/internal/errors"

const (
	ErrNoData     = errors.ErrorCode("render_no_data")
	ErrDraw       = errors.ErrorCode("render_draw_failed")
	ErrWriteChart = errors.ErrorCode("render_write_failed")
)
