package parser

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates parser failures so callers can branch on the
// class of problem without string matching.
type ErrorKind string

const (
	KindIO          ErrorKind = "io"
	KindParse       ErrorKind = "parse"
	KindUnsupported ErrorKind = "unsupported_file"
	KindConfig      ErrorKind = "config"
	KindCancelled   ErrorKind = "cancelled"
)

// Error is the structured parser error. File is set for failures tied to a
// specific source file; Err is the underlying cause when one exists.
type Error struct {
	Kind    ErrorKind
	File    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.File != "" && e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.File, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.File, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a parser Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == kind
}

// IOError wraps a filesystem failure for the given file.
func IOError(file string, err error) *Error {
	return &Error{Kind: KindIO, File: file, Err: err}
}

// ParseFailure records an extraction failure with a human-readable message.
func ParseFailure(file, message string) *Error {
	return &Error{Kind: KindParse, File: file, Message: message}
}

// Unsupported marks a file no extractor handles.
func Unsupported(file string) *Error {
	return &Error{Kind: KindUnsupported, File: file, Message: "unsupported file type"}
}
