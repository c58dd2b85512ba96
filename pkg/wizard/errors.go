package wizard

import "errors"

var (
	ErrWrongStep      = errors.New("event not valid for the current step")
	ErrComplete       = errors.New("wizard is already complete")
	ErrNoPreviousStep = errors.New("no previous step")
	ErrUnknownEvent   = errors.New("unknown event type")
)

// ValidationError is a failed transition guard. The step does not change and
// the same screen is shown again.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
