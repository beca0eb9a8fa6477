package errors

import (
	"strings"
	"unicode"
)

const (
	maxNameLength = 128
	maxPathLength = 500
)

// nameRune reports whether r may appear in a snapshot name or ID.
func nameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_. ", r)
}

// ValidateName checks a snapshot name or ID. Names double as file names in
// the file store, so only letters, digits, spaces and "-_." are allowed,
// and ".." may not appear anywhere.
func ValidateName(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidInput, "name cannot be empty")
	case len(name) > maxNameLength:
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	case strings.Contains(name, ".."):
		return New(ErrCodeInvalidInput, "name %q contains \"..\"", name)
	}
	if i := strings.IndexFunc(name, func(r rune) bool { return !nameRune(r) }); i >= 0 {
		return New(ErrCodeInvalidInput, "name contains invalid character %q", []rune(name[i:])[0])
	}
	return nil
}

// ValidatePath checks an output or input file path. Any path the OS accepts
// is allowed except empty ones, overly long ones, and ones with control
// characters.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPathLength:
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	case strings.ContainsFunc(path, unicode.IsControl):
		return New(ErrCodeInvalidPath, "path contains control characters")
	}
	return nil
}
