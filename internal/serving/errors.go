package serving

import "net/http"

// noModelError signals that no model is loaded yet, so inference cannot run.
// The HTTP layer maps this to 503 via StatusCode.
type noModelError struct{}

func (noModelError) Error() string   { return "no model loaded" }
func (noModelError) StatusCode() int { return http.StatusServiceUnavailable }

// ErrNoModel is returned by Predict before a successful load.
func ErrNoModel() error { return noModelError{} }

// IsNoModel reports whether err indicates the absence of an active model.
func IsNoModel(err error) bool {
	_, ok := err.(noModelError)
	return ok
}

// aliasUnsetError signals that the configured alias resolves to nothing.
// Distinct from registry unavailability for observability.
type aliasUnsetError struct{ alias string }

func (e aliasUnsetError) Error() string { return "alias unset: " + e.alias }

// ErrAliasUnset constructs an aliasUnsetError.
func ErrAliasUnset(alias string) error { return aliasUnsetError{alias: alias} }

// IsAliasUnset reports whether err indicates an unset alias.
func IsAliasUnset(err error) bool {
	_, ok := err.(aliasUnsetError)
	return ok
}
