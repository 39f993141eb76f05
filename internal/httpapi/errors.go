package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"modelops/pkg/types"
)

// HTTPError lets service errors carry their own HTTP status code, so the
// handler layer does not need to know every error type.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFromError maps err to an HTTP status, honoring HTTPError anywhere in
// the chain and falling back otherwise.
func statusFromError(err error, fallback int) int {
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return fallback
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
