package floor

import "errors"

var (
	// ErrTableNotFound reports a table id outside the configured range.
	// It indicates a caller bug, never a routine race.
	ErrTableNotFound = errors.New("table not found")

	// ErrOrderNotFound reports an order id not present on the given table.
	ErrOrderNotFound = errors.New("order not found")

	// ErrMenuItemNotFound reports a menu id with no catalog entry.
	ErrMenuItemNotFound = errors.New("menu item not found")

	// ErrInvalidTransition reports an operation attempted from a state that
	// does not permit it, for operations where the caller asked for an
	// explicit outcome (combine, move).
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrMenuItemExists reports a duplicate menu id on creation.
	ErrMenuItemExists = errors.New("menu item already exists")
)

// ValidationError reports input rejected before any state mutation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func errValidation(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
