package promote

import "strings"

// validationFailedError carries the names of the failing checks so CI
// consumers can branch on them.
type validationFailedError struct{ checks []string }

func (e validationFailedError) Error() string {
	return "validation failed: " + strings.Join(e.checks, ", ")
}

// ErrValidationFailed constructs a validationFailedError.
func ErrValidationFailed(checks []string) error { return validationFailedError{checks: checks} }

// IsValidationFailed reports whether err indicates a failing validation
// verdict (as opposed to a validation that could not run).
func IsValidationFailed(err error) bool {
	_, ok := err.(validationFailedError)
	return ok
}

// FailedChecks extracts the failing check names from a validation failure,
// or nil for any other error.
func FailedChecks(err error) []string {
	if e, ok := err.(validationFailedError); ok {
		return e.checks
	}
	return nil
}
