package errors_test

import (
	stderrors "errors"
	"testing"

	"codeberg.org/mutker/ps3temp/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	errFactory := errors.New()

	err := errFactory.New(errors.ErrOutputPathNotFound)
	assert.Equal(t, "Output path does not exist", err.Error())

	err = errFactory.WithData(errors.ErrOutputPathNotFound, "./missing/")
	assert.Equal(t, "Output path does not exist: ./missing/", err.Error())

	err = errFactory.Wrap(errors.ErrReadConfig, stderrors.New("boom"))
	assert.Equal(t, "Failed to read config file: boom", err.Error())

	err = err.WithMessage("custom")
	assert.Equal(t, "custom: boom", err.Error())
}

func TestUnknownCodeUsesCodeAsMessage(t *testing.T) {
	err := errors.New().New(errors.ErrorCode("something_odd"))
	assert.Equal(t, "something_odd", err.Error())
}

func TestHasCode(t *testing.T) {
	errFactory := errors.New()
	inner := errFactory.New(errors.ErrInvalidInterval)
	outer := errFactory.Wrap(errors.ErrInvalidConfig, inner)

	assert.True(t, errors.HasCode(outer, errors.ErrInvalidConfig))
	assert.True(t, errors.HasCode(outer, errors.ErrInvalidInterval))
	assert.False(t, errors.HasCode(outer, errors.ErrAlreadyRunning))
	assert.False(t, errors.HasCode(stderrors.New("plain"), errors.ErrAlreadyRunning))
	assert.False(t, errors.HasCode(nil, errors.ErrAlreadyRunning))
}

func TestCodeOf(t *testing.T) {
	errFactory := errors.New()
	assert.Equal(t, errors.ErrAlreadyRunning, errors.CodeOf(errFactory.New(errors.ErrAlreadyRunning)))
	assert.Equal(t, errors.ErrInternal, errors.CodeOf(stderrors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	base := stderrors.New("base")
	err := errors.New().Wrap(errors.ErrInternal, base)
	assert.True(t, errors.Is(err, base))
}
