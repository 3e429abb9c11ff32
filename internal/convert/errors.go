// Package convert implements the conversion orchestrator: it threads
// options and a timeout-aware context through charset resolution, HTML
// parsing, metadata extraction, Markdown lowering, normalization, etag
// generation and token estimation, producing a single Result.
package convert

import "fmt"

// Code identifies the stable, numeric error taxonomy. Values are part of
// the external contract (internal/boundary exposes them verbatim) and must
// never be renumbered.
type Code uint32

const (
	CodeSuccess      Code = 0
	CodeParse        Code = 1
	CodeEncoding     Code = 2
	CodeTimeout      Code = 3
	CodeMemoryLimit  Code = 4
	CodeInvalidInput Code = 5
	CodeInternal     Code = 99
)

func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeParse:
		return "parse"
	case CodeEncoding:
		return "encoding"
	case CodeTimeout:
		return "timeout"
	case CodeMemoryLimit:
		return "memory_limit"
	case CodeInvalidInput:
		return "invalid_input"
	case CodeInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the Go rendition of the conversion error taxonomy. Orchestrator
// code is the only place that is allowed to construct one; every other
// internal package returns plain wrapped errors.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewParseError(format string, args ...any) *Error {
	return &Error{Code: CodeParse, Message: fmt.Sprintf(format, args...)}
}

func NewEncodingError(format string, args ...any) *Error {
	return &Error{Code: CodeEncoding, Message: fmt.Sprintf(format, args...)}
}

func NewTimeoutError(format string, args ...any) *Error {
	return &Error{Code: CodeTimeout, Message: fmt.Sprintf(format, args...)}
}

func NewMemoryLimitError(format string, args ...any) *Error {
	return &Error{Code: CodeMemoryLimit, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidInputError(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func NewInternalError(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}
