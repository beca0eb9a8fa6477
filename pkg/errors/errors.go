// Package errors provides structured error types for avlviz.
//
// Every failure that reaches a user, on the command line or over HTTP,
// carries a [Code]. Codes fall into a small set of categories, and the HTTP
// server derives its status codes from the category alone:
//
//   - [CategoryInput]: bad keys, flags, formats or configuration (400)
//   - [CategoryNotFound]: missing files, snapshots or hosted trees (404)
//   - [CategoryStructural]: a tree failed its own invariant check (500)
//   - [CategoryInternal]: everything else (500)
//
// Some codes carry a [Hint] that tells the user how to fix the input.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidKey, "not an integer: %q", s)
//	if errors.Is(err, errors.ErrCodeInvalidKey, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"slices"
)

// Code represents a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidKey      Code = "INVALID_KEY"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidStrategy Code = "INVALID_STRATEGY"
	ErrCodeInvalidVizType  Code = "INVALID_VIZ_TYPE"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"
	ErrCodeSnapshotNotFound Code = "SNAPSHOT_NOT_FOUND"

	ErrCodeInvariant Code = "INVARIANT_VIOLATION"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Category groups codes that callers handle the same way.
type Category int

const (
	CategoryInternal Category = iota
	CategoryInput
	CategoryNotFound
	CategoryStructural
)

type codeInfo struct {
	category Category
	hint     string
}

var codes = map[Code]codeInfo{
	ErrCodeInvalidInput:    {CategoryInput, ""},
	ErrCodeInvalidKey:      {CategoryInput, "keys are integers separated by spaces or commas, e.g. 30 20 10"},
	ErrCodeInvalidFormat:   {CategoryInput, "formats are svg, png, pdf, dot, json and txt"},
	ErrCodeInvalidStrategy: {CategoryInput, "layout strategies are size and depth"},
	ErrCodeInvalidVizType:  {CategoryInput, "visualization types are tree and nodelink"},
	ErrCodeInvalidConfig:   {CategoryInput, "check the config file given by --config"},
	ErrCodeInvalidPath:     {CategoryInput, ""},

	ErrCodeNotFound:         {CategoryNotFound, ""},
	ErrCodeFileNotFound:     {CategoryNotFound, ""},
	ErrCodeSnapshotNotFound: {CategoryNotFound, "list saved snapshots with: avlviz snapshot list"},

	ErrCodeInvariant: {CategoryStructural, ""},
}

// Category returns the category of c. Unknown codes are internal.
func (c Code) Category() Category {
	return codes[c].category
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain has one of codes.
func Is(err error, codes ...Code) bool {
	return slices.Contains(codes, GetCode(err))
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the first *Error in err's chain
// without its code, or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Hint returns advice for fixing err, or "" when there is none.
func Hint(err error) string {
	return codes[GetCode(err)].hint
}

// IsNotFound reports whether err carries any of the not-found codes.
func IsNotFound(err error) bool {
	return GetCode(err).Category() == CategoryNotFound
}
