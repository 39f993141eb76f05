package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"modelops/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Predict(req types.PredictRequest) (types.PredictResponse, error)
	Reload(ctx context.Context) error
	Info() types.ModelInfoResponse
	Ready() bool
}

// NewMux builds the daemon's router: /predict, /reload, /model_info,
// /healthz, /readyz, /metrics.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsAllowedOrigins,
			AllowedMethods:   corsAllowedMethods,
			AllowedHeaders:   corsAllowedHeaders,
			AllowCredentials: true,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/predict", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.PredictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(req.Features) == 0 {
			writeJSONError(w, http.StatusBadRequest, "features are required")
			return
		}
		start := time.Now()
		resp, err := svc.Predict(req)
		if err != nil {
			IncrementPrediction("error")
			writeJSONError(w, statusFromError(err, http.StatusInternalServerError), err.Error())
			return
		}
		IncrementPrediction("ok")
		logRequest(r, "predict", http.StatusOK, time.Since(start))
		writeJSON(w, http.StatusOK, resp)
	})

	r.Post("/reload", func(w http.ResponseWriter, r *http.Request) {
		// Join the server base context so shutdown also cancels an
		// in-flight artifact load.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		start := time.Now()
		err := svc.Reload(ctx)
		info := svc.Info()
		SetModelLoads(info.LoadsTotal)
		if err != nil {
			IncrementReload("error")
			logRequest(r, "reload", http.StatusInternalServerError, time.Since(start))
			writeJSON(w, http.StatusInternalServerError, types.ReloadAPIResponse{
				Status:  "error",
				Message: err.Error(),
				Model:   &info,
			})
			return
		}
		IncrementReload("ok")
		logRequest(r, "reload", http.StatusOK, time.Since(start))
		writeJSON(w, http.StatusOK, types.ReloadAPIResponse{
			Status:  "ok",
			Message: "model reloaded",
			Model:   &info,
		})
	})

	r.Get("/model_info", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Info())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
