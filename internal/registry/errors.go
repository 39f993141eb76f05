package registry

import "fmt"

// unavailableError signals that the registry could not be reached at the
// transport level (connection refused, timeout, malformed response).
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return "registry unavailable: " + e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates a registry transport failure.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}

// versionNotFoundError signals that a requested model version id is absent.
type versionNotFoundError struct {
	model   string
	version int
}

func (e versionNotFoundError) Error() string {
	return fmt.Sprintf("model version not found: %s v%d", e.model, e.version)
}

// ErrVersionNotFound constructs a versionNotFoundError.
func ErrVersionNotFound(model string, version int) error {
	return versionNotFoundError{model: model, version: version}
}

// IsVersionNotFound reports whether err indicates a missing model version.
func IsVersionNotFound(err error) bool {
	_, ok := err.(versionNotFoundError)
	return ok
}

// writeRejectedError signals that the registry refused an alias write for a
// reason other than transport failure or a missing version.
type writeRejectedError struct{ msg string }

func (e writeRejectedError) Error() string { return "alias write rejected: " + e.msg }

// ErrWriteRejected constructs a writeRejectedError.
func ErrWriteRejected(msg string) error { return writeRejectedError{msg: msg} }

// IsWriteRejected reports whether err indicates a rejected alias write.
func IsWriteRejected(err error) bool {
	_, ok := err.(writeRejectedError)
	return ok
}
