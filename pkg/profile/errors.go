package profile

import "fmt"

// ValidationKind categorizes a ValidationError.
type ValidationKind string

const (
	// OutOfRange indicates a numeric value outside its allowed range.
	OutOfRange ValidationKind = "OUT_OF_RANGE"

	// MissingRequiredArray indicates a declared array stage that lacks one
	// of its required fields.
	MissingRequiredArray ValidationKind = "MISSING_REQUIRED_ARRAY"
)

// ValidationError reports a semantically invalid configuration entry.
type ValidationError struct {
	Kind    ValidationKind
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] key '%s': %s", e.Kind, e.Key, e.Message)
}

// IsValidationKind reports whether err is a *ValidationError of the kind.
func IsValidationKind(err error, kind ValidationKind) bool {
	if ve, ok := err.(*ValidationError); ok {
		return ve.Kind == kind
	}
	return false
}

// errOutOfRange creates an error for a negative value.
func errOutOfRange(key string, value float64) *ValidationError {
	return &ValidationError{
		Kind:    OutOfRange,
		Key:     key,
		Message: fmt.Sprintf("value %v must be non-negative", value),
	}
}

// errMissingStageField creates an error for an incomplete array stage.
func errMissingStageField(key string) *ValidationError {
	return &ValidationError{
		Kind:    MissingRequiredArray,
		Key:     key,
		Message: "stage declared but field missing",
	}
}
