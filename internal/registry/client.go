// Package registry is a typed client for the versioned model registry's
// REST surface: version listing, alias reads and the atomic alias write.
// Alias state is never cached across calls; every read goes to the wire.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"modelops/pkg/types"
)

const apiPrefix = "/api/2.0/mlflow"

// Client talks to one registry for one or more named models.
type Client struct {
	base string
	hc   *http.Client
	log  zerolog.Logger
}

// New returns a client for the registry at uri.
func New(uri string, log zerolog.Logger) *Client {
	return NewWithHTTPClient(uri, &http.Client{Timeout: 10 * time.Second}, log)
}

// NewWithHTTPClient returns a client using a caller-supplied http.Client,
// e.g. with custom timeouts or a test transport.
func NewWithHTTPClient(uri string, hc *http.Client, log zerolog.Logger) *Client {
	return &Client{base: strings.TrimRight(uri, "/"), hc: hc, log: log}
}

// modelVersionWire mirrors the registry's JSON representation of a model
// version. Version ids are strings on the wire.
type modelVersionWire struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	RunID   string   `json:"run_id"`
	Source  string   `json:"source"`
	Status  string   `json:"status"`
	Aliases []string `json:"aliases"`
}

type errorWire struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func (w modelVersionWire) toDomain() (types.ModelVersion, error) {
	v, err := strconv.Atoi(w.Version)
	if err != nil {
		return types.ModelVersion{}, fmt.Errorf("non-numeric version %q: %w", w.Version, err)
	}
	mv := types.ModelVersion{
		Version: v,
		RunID:   w.RunID,
		Source:  w.Source,
		Aliases: w.Aliases,
	}
	if mv.Aliases == nil {
		mv.Aliases = []string{}
	}
	switch w.Status {
	case "READY":
		mv.Status = types.StatusReady
	case "FAILED_REGISTRATION":
		mv.Status = types.StatusFailed
	default:
		mv.Status = types.StatusPending
	}
	return mv, nil
}

// ListVersions returns every version of the named model, descending by
// version id, each annotated with its current alias set and status.
func (c *Client) ListVersions(ctx context.Context, model string) ([]types.ModelVersion, error) {
	q := url.Values{}
	q.Set("filter", fmt.Sprintf("name='%s'", model))
	var out struct {
		ModelVersions []modelVersionWire `json:"model_versions"`
	}
	if err := c.get(ctx, "/model-versions/search", q, &out); err != nil {
		return nil, err
	}
	versions := make([]types.ModelVersion, 0, len(out.ModelVersions))
	for _, w := range out.ModelVersions {
		mv, err := w.toDomain()
		if err != nil {
			return nil, ErrUnavailable(err.Error())
		}
		versions = append(versions, mv)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Version > versions[j].Version })
	return versions, nil
}

// GetVersion fetches one version by id.
func (c *Client) GetVersion(ctx context.Context, model string, version int) (types.ModelVersion, error) {
	q := url.Values{}
	q.Set("name", model)
	q.Set("version", strconv.Itoa(version))
	var out struct {
		ModelVersion modelVersionWire `json:"model_version"`
	}
	if err := c.get(ctx, "/model-versions/get", q, &out); err != nil {
		if isResourceMissing(err) {
			return types.ModelVersion{}, ErrVersionNotFound(model, version)
		}
		return types.ModelVersion{}, err
	}
	return mustDomain(out.ModelVersion)
}

// ResolveAlias returns the version the alias currently points at, or
// (nil, nil) when the alias is unset. An unset alias is not an error.
func (c *Client) ResolveAlias(ctx context.Context, model, alias string) (*types.ModelVersion, error) {
	q := url.Values{}
	q.Set("name", model)
	q.Set("alias", alias)
	var out struct {
		ModelVersion modelVersionWire `json:"model_version"`
	}
	if err := c.get(ctx, "/registered-models/alias", q, &out); err != nil {
		if isResourceMissing(err) {
			return nil, nil
		}
		return nil, err
	}
	mv, err := mustDomain(out.ModelVersion)
	if err != nil {
		return nil, err
	}
	return &mv, nil
}

// SetAlias atomically repoints alias at version, detaching it from any
// previous version. Setting an alias to the version it already references
// is a no-op success. Last writer wins; no client-side locking.
func (c *Client) SetAlias(ctx context.Context, model, alias string, version int) error {
	body, _ := json.Marshal(map[string]string{
		"name":    model,
		"alias":   alias,
		"version": strconv.Itoa(version),
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base+apiPrefix+"/registered-models/alias", bytes.NewReader(body))
	if err != nil {
		return ErrUnavailable(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return ErrUnavailable(err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		c.log.Info().Str("model", model).Str("alias", alias).Int("version", version).
			Msg("alias set")
		return nil
	}
	ew := readErrorWire(resp)
	if ew.ErrorCode == codeNotFound {
		return ErrVersionNotFound(model, version)
	}
	if resp.StatusCode >= 500 {
		return ErrUnavailable(fmt.Sprintf("status %d: %s", resp.StatusCode, ew.Message))
	}
	return ErrWriteRejected(fmt.Sprintf("status %d: %s", resp.StatusCode, ew.Message))
}

const codeNotFound = "RESOURCE_DOES_NOT_EXIST"

// resourceMissingError is an internal marker for 404-class registry answers,
// mapped by callers to either VersionNotFound or alias-unset.
type resourceMissingError struct{ msg string }

func (e resourceMissingError) Error() string { return e.msg }

func isResourceMissing(err error) bool {
	_, ok := err.(resourceMissingError)
	return ok
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.base + apiPrefix + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return ErrUnavailable(err.Error())
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return ErrUnavailable(err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		ew := readErrorWire(resp)
		if resp.StatusCode == http.StatusNotFound || ew.ErrorCode == codeNotFound {
			return resourceMissingError{msg: ew.Message}
		}
		return ErrUnavailable(fmt.Sprintf("GET %s: status %d: %s", path, resp.StatusCode, ew.Message))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ErrUnavailable(fmt.Sprintf("GET %s: decode: %v", path, err))
	}
	return nil
}

func readErrorWire(resp *http.Response) errorWire {
	var ew errorWire
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(b, &ew); err != nil {
		ew.Message = strings.TrimSpace(string(b))
	}
	return ew
}

func mustDomain(w modelVersionWire) (types.ModelVersion, error) {
	mv, err := w.toDomain()
	if err != nil {
		return types.ModelVersion{}, ErrUnavailable(err.Error())
	}
	return mv, nil
}
