package extract_test

import (
	"testing"

	"codeberg.org/mutker/ps3temp/internal/errors"
	"codeberg.org/mutker/ps3temp/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExtractor() *extract.Extractor {
	return extract.New(
		extract.MustPattern("cpu", `CPU:\s*(\d+)°C`),
		extract.MustPattern("fan", `FAN:\s*(\d+)%`),
	)
}

func TestExtract(t *testing.T) {
	fields, err := newExtractor().Extract("CPU: 55°C  FAN: 40%")
	require.NoError(t, err)

	assert.Equal(t, extract.Fields{"cpu": 55, "fan": 40}, fields)
}

func TestExtractIgnoresSurroundingText(t *testing.T) {
	fields, err := newExtractor().Extract("uptime 01:02 FAN: 7% :: CPU:61°C trailing")
	require.NoError(t, err)

	assert.Equal(t, 61, fields["cpu"])
	assert.Equal(t, 7, fields["fan"])
}

func TestExtractMissingField(t *testing.T) {
	_, err := newExtractor().Extract("CPU: 55°C")
	require.Error(t, err)

	assert.True(t, errors.HasCode(err, extract.ErrFieldNotFound))
	field, ok := extract.Field(err)
	require.True(t, ok)
	assert.Equal(t, "fan", field)
}

func TestExtractOverflow(t *testing.T) {
	_, err := newExtractor().Extract("CPU: 99999999999999999999999°C FAN: 1%")
	require.Error(t, err)

	assert.True(t, errors.HasCode(err, extract.ErrInvalidValue))
	field, ok := extract.Field(err)
	require.True(t, ok)
	assert.Equal(t, "cpu", field)
}

func TestNewPatternRequiresGroup(t *testing.T) {
	_, err := extract.NewPattern("cpu", `CPU: \d+`)
	assert.True(t, errors.HasCode(err, extract.ErrInvalidPattern))

	_, err = extract.NewPattern("cpu", `CPU: (\d+`)
	assert.True(t, errors.HasCode(err, extract.ErrInvalidPattern))

	assert.Panics(t, func() { extract.MustPattern("cpu", `(`) })
}

func TestFieldOnForeignError(t *testing.T) {
	_, ok := extract.Field(errors.New().New(errors.ErrInternal))
	assert.False(t, ok)

	_, ok = extract.Field(nil)
	assert.False(t, ok)
}
