package persist

import (
	"errors"
	"fmt"
)

// FormatError reports an existing file whose content cannot be decoded.
type FormatError struct {
	// Path is the file being loaded.
	Path string

	// Line is the 1-based line (text) or record index (binary); 0 if unknown.
	Line int

	// Text is the offending raw line, if any.
	Text string

	// Reason describes what is wrong.
	Reason string

	// Err is the underlying decoding error, if any.
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	msg := fmt.Sprintf("format error in %s", e.Path)
	if e.Line > 0 {
		msg = fmt.Sprintf("%s line %d", msg, e.Line)
	}
	msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	if e.Text != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Text)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IOError reports a failure of the storage medium (open, read, write, lock).
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsFormatError returns true if err is or wraps a *FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsIOFailure returns true if err is or wraps an *IOError.
func IsIOFailure(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}
