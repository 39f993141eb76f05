package model

// artifactLoadError signals that a candidate artifact could not be read or
// deserialized into a usable scorer.
type artifactLoadError struct{ msg string }

func (e artifactLoadError) Error() string { return "artifact load: " + e.msg }

// ErrArtifactLoad constructs an artifactLoadError.
func ErrArtifactLoad(msg string) error { return artifactLoadError{msg: msg} }

// IsArtifactLoad reports whether err indicates an unreadable or malformed
// model artifact.
func IsArtifactLoad(err error) bool {
	_, ok := err.(artifactLoadError)
	return ok
}
