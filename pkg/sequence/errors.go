package sequence

import "fmt"

// EngineErrorKind categorizes an EngineError.
type EngineErrorKind string

const (
	// InvariantViolated indicates a configuration-integrity fault detected
	// while planning. Nothing is dispatched to the machine.
	InvariantViolated EngineErrorKind = "INVARIANT_VIOLATED"

	// AbortedByMachine indicates a machine fault mid-sequence. Remaining
	// stages are not executed; already-dispatched motion is not rolled back.
	AbortedByMachine EngineErrorKind = "ABORTED_BY_MACHINE"
)

// EngineError reports a runtime failure of a tool-change sequence.
type EngineError struct {
	Kind        EngineErrorKind
	State       State
	ActionIndex int
	Message     string
	Err         error
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] state %s, action %d: %v", e.Kind, e.State, e.ActionIndex, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// IsEngineKind reports whether err is an *EngineError of the given kind.
func IsEngineKind(err error, kind EngineErrorKind) bool {
	if ee, ok := err.(*EngineError); ok {
		return ee.Kind == kind
	}
	return false
}

// errInvariant creates a planning-time configuration-integrity error.
func errInvariant(message string) *EngineError {
	return &EngineError{Kind: InvariantViolated, Message: message}
}

// errAborted wraps a machine fault with the state and action it hit.
func errAborted(state State, actionIndex int, err error) *EngineError {
	return &EngineError{
		Kind:        AbortedByMachine,
		State:       state,
		ActionIndex: actionIndex,
		Err:         err,
	}
}
