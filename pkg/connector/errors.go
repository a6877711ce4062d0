package connector

import (
	"errors"
	"fmt"
)

// ErrUnsupportedType signals a column kind with no mapping rule for the
// active dialect. Fatal for the stream's table creation; never retried.
var ErrUnsupportedType = errors.New("unsupported column type")

// UnsupportedTypeError carries the column and kind that failed to map.
type UnsupportedTypeError struct {
	Column  string
	Kind    Kind
	Dialect string
}

func (e *UnsupportedTypeError) Error() string {
	if e == nil {
		return "unsupported column type"
	}
	msg := "unsupported column type"
	if e.Kind != "" {
		msg += " " + string(e.Kind)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" for column %q", e.Column)
	}
	if e.Dialect != "" {
		msg += " in dialect " + e.Dialect
	}
	return msg
}

func (e *UnsupportedTypeError) Unwrap() error {
	return ErrUnsupportedType
}

// AsUnsupportedType extracts an UnsupportedTypeError from an error chain.
func AsUnsupportedType(err error) (*UnsupportedTypeError, bool) {
	var typed *UnsupportedTypeError
	if errors.As(err, &typed) {
		return typed, true
	}
	return nil, false
}

// ErrMergeUnsupported is returned when the upsert path is requested against
// a dialect without merge support.
var ErrMergeUnsupported = errors.New("dialect does not support merge upserts")
