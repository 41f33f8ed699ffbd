// Package hwconfig parses hierarchical hardware configuration files into
// raw entries with typed, access-tracked value accessors.
package hwconfig

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes a ParseError.
type ErrorKind string

const (
	// MalformedKey indicates a line or key that does not match the
	// dotted-key grammar (missing colon, empty segment, bad index).
	MalformedKey ErrorKind = "MALFORMED_KEY"

	// MalformedValue indicates a value that cannot be coerced to the
	// requested type.
	MalformedValue ErrorKind = "MALFORMED_VALUE"

	// SparseArray indicates array indices with a gap for one key prefix.
	SparseArray ErrorKind = "SPARSE_ARRAY"

	// MissingKey indicates a lookup of a key with no entry and no fallback.
	MissingKey ErrorKind = "MISSING_KEY"
)

// ParseError is the error type for configuration parsing and value access.
type ParseError struct {
	Kind    ErrorKind
	Key     string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	switch {
	case e.Key != "" && e.Line > 0:
		return fmt.Sprintf("[%s] key '%s' (line %d): %s", e.Kind, e.Key, e.Line, e.Message)
	case e.Key != "":
		return fmt.Sprintf("[%s] key '%s': %s", e.Kind, e.Key, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("[%s] line %d: %s", e.Kind, e.Line, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
}

// IsKind reports whether err is a *ParseError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	if pe, ok := err.(*ParseError); ok {
		return pe.Kind == kind
	}
	return false
}

// errMalformedKey creates an error for a key that fails the grammar.
func errMalformedKey(line int, message string) *ParseError {
	return &ParseError{Kind: MalformedKey, Line: line, Message: message}
}

// errMalformedValue creates an error for a value of the wrong type.
func errMalformedValue(key, value, expected string) *ParseError {
	return &ParseError{
		Kind:    MalformedValue,
		Key:     key,
		Message: fmt.Sprintf("invalid value '%s', expected %s", value, expected),
	}
}

// errSparseArray creates an error for a gap in an index sequence.
func errSparseArray(prefix string, indices []int) *ParseError {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = fmt.Sprintf("%d", idx)
	}
	return &ParseError{
		Kind:    SparseArray,
		Key:     prefix,
		Message: fmt.Sprintf("indices {%s} are not contiguous from 0", strings.Join(parts, ",")),
	}
}

// errMissingKey creates an error for a key with no entry.
func errMissingKey(key string) *ParseError {
	return &ParseError{Kind: MissingKey, Key: key, Message: "must be specified"}
}
