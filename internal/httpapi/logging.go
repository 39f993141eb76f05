package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// logRequest records one completed request with its route, status and
// duration, carrying the chi request id when present.
func logRequest(r *http.Request, op string, status int, dur time.Duration) {
	if zlog != nil {
		z := zlog.Info().Str("op", op).Str("path", r.URL.Path).Int("status", status).Dur("dur", dur)
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		z.Msg("request")
		return
	}
	log.Printf("%s path=%s status=%d dur=%s", op, r.URL.Path, status, dur)
}
