package errors

import (
	stdErrors "errors"
	"fmt"
)

// DecodeError reports a row in a record file that could not be turned into a record.
type DecodeError struct {
	Path string
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s:%d: malformed row: %v", e.Path, e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a DecodeError for the given file and 1-based line.
func NewDecodeError(path string, line int, err error) *DecodeError {
	return &DecodeError{Path: path, Line: line, Err: err}
}

// IsDecodeError reports whether err is a DecodeError (even when wrapped).
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return stdErrors.As(err, &decodeErr)
}
