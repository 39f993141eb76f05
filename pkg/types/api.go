package types

// PredictRequest is the payload for POST /predict. Features are keyed by
// name; the active model selects and orders the columns it was trained on.
type PredictRequest struct {
	Features map[string]float64 `json:"features"`
}

// PredictResponse carries the scored probability and the thresholded label.
type PredictResponse struct {
	// Predicted probability of the positive class, in [0, 1].
	Probability float64 `json:"probability"`
	// 1 when Probability is at or above the model's decision threshold.
	Label int `json:"label"`
	// Version of the model that produced the prediction.
	ModelVersion int `json:"model_version"`
}

// ResolutionErrors distinguishes the two ways the serving process can fail
// to resolve its configured alias: the alias is simply unset, or the
// registry itself could not be reached.
type ResolutionErrors struct {
	Alias    string `json:"alias,omitempty"`
	Registry string `json:"registry,omitempty"`
	// Artifact records a resolution that found a version but could not load
	// its artifact.
	Artifact string `json:"artifact,omitempty"`
}

// ModelInfoResponse is returned by GET /model_info and reports what the
// serving process is currently running and how it got there.
type ModelInfoResponse struct {
	// Registered model name.
	Name string `json:"name"`
	// Alias the active version was resolved from.
	Alias string `json:"alias"`
	// Active version id; 0 when no model is loaded.
	Version int `json:"version"`
	// Artifact location the active model was loaded from.
	Source string `json:"source,omitempty"`
	// Whether a model is currently loaded and serving.
	Loaded bool `json:"loaded"`
	// Total successful model loads since process start.
	LoadsTotal uint64 `json:"loads_total"`
	// Uptime of the process in seconds.
	UptimeSeconds int64 `json:"uptime_seconds"`
	// Errors from the most recent resolution attempt, if any.
	Errors *ResolutionErrors `json:"errors,omitempty"`
}

// ReloadAPIResponse is returned by POST /reload.
type ReloadAPIResponse struct {
	// "ok" or "error".
	Status  string `json:"status"`
	Message string `json:"message"`
	// State after the reload attempt.
	Model *ModelInfoResponse `json:"model,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	Error string `json:"error"`
	// HTTP status code.
	Code int `json:"code"`
}

// VersionsResponse wraps the version listing returned by the CLI in JSON
// mode and by registry-backed tooling.
type VersionsResponse struct {
	ModelName string         `json:"model_name"`
	Versions  []ModelVersion `json:"versions"`
}
