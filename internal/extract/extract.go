// Package extract pulls labeled integer fields out of free text.
package extract

import (
	"regexp"
	"strconv"

	"codeberg.org/mutker/ps3temp/internal/errors"
)

// Pattern labels a regular expression whose first capture group holds a
// decimal integer.
type Pattern struct {
	Field string
	Expr  *regexp.Regexp
}

// NewPattern compiles expr for field. The expression must have at least
// one capture group.
func NewPattern(field, expr string) (Pattern, error) {
	errFactory := errors.New()

	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, errFactory.Wrap(ErrInvalidPattern, err).WithMessage("invalid pattern for " + field)
	}
	if re.NumSubexp() < 1 {
		return Pattern{}, errFactory.WithData(ErrInvalidPattern, field)
	}

	return Pattern{Field: field, Expr: re}, nil
}

// MustPattern is like NewPattern but panics on error.
func MustPattern(field, expr string) Pattern {
	p, err := NewPattern(field, expr)
	if err != nil {
		panic(err)
	}

	return p
}

// InvalidValue is attached to ErrInvalidValue errors.
type InvalidValue struct {
	Field string
	Value string
}

// Fields holds extracted values keyed by field name.
type Fields map[string]int

// Extractor applies a fixed set of patterns to text.
type Extractor struct {
	patterns []Pattern
}

func New(patterns ...Pattern) *Extractor {
	return &Extractor{patterns: patterns}
}

// Extract returns every field or the first one that could not be found.
// Errors carry the field name as data.
func (x *Extractor) Extract(text string) (Fields, error) {
	errFactory := errors.New()

	fields := make(Fields, len(x.patterns))
	for _, p := range x.patterns {
		m := p.Expr.FindStringSubmatch(text)
		if m == nil {
			return nil, errFactory.WithData(ErrFieldNotFound, p.Field)
		}

		v, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, errFactory.WithData(ErrInvalidValue, InvalidValue{Field: p.Field, Value: m[1]})
		}
		fields[p.Field] = v
	}

	return fields, nil
}

// Field returns the name of the field an extraction error in err's chain
// refers to.
func Field(err error) (string, bool) {
	for err != nil {
		var appErr errors.Error
		if !errors.As(err, &appErr) {
			return "", false
		}

		switch data := appErr.GetData().(type) {
		case string:
			if appErr.Code() == ErrFieldNotFound || appErr.Code() == ErrInvalidPattern {
				return data, true
			}
		case InvalidValue:
			return data.Field, true
		}
		err = appErr.Unwrap()
	}

	return "", false
}
