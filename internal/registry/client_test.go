package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRegistry is an in-memory stand-in for the registry's REST surface.
type fakeRegistry struct {
	mu       sync.Mutex
	versions map[int]map[string]string // version -> fields (run_id, source, status)
	aliases  map[string]int
	setCalls int
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		versions: map[int]map[string]string{},
		aliases:  map[string]int{},
	}
}

func (f *fakeRegistry) addVersion(v int, runID, source, status string) {
	f.versions[v] = map[string]string{"run_id": runID, "source": source, "status": status}
}

func (f *fakeRegistry) wire(v int) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	var aliases []string
	for a, av := range f.aliases {
		if av == v {
			aliases = append(aliases, a)
		}
	}
	fields := f.versions[v]
	return map[string]any{
		"name":    "credit-fraud",
		"version": strconv.Itoa(v),
		"run_id":  fields["run_id"],
		"source":  fields["source"],
		"status":  fields["status"],
		"aliases": aliases,
	}
}

func notFound(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error_code": "RESOURCE_DOES_NOT_EXIST",
		"message":    msg,
	})
}

func (f *fakeRegistry) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/2.0/mlflow/model-versions/search", func(w http.ResponseWriter, r *http.Request) {
		var out []map[string]any
		for v := range f.versions {
			out = append(out, f.wire(v))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"model_versions": out})
	})
	mux.HandleFunc("/api/2.0/mlflow/model-versions/get", func(w http.ResponseWriter, r *http.Request) {
		v, _ := strconv.Atoi(r.URL.Query().Get("version"))
		if _, ok := f.versions[v]; !ok {
			notFound(w, "version not found")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"model_version": f.wire(v)})
	})
	mux.HandleFunc("/api/2.0/mlflow/registered-models/alias", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var body struct {
				Name    string `json:"name"`
				Alias   string `json:"alias"`
				Version string `json:"version"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			v, _ := strconv.Atoi(body.Version)
			f.mu.Lock()
			_, exists := f.versions[v]
			if exists {
				f.aliases[body.Alias] = v
				f.setCalls++
			}
			f.mu.Unlock()
			if !exists {
				notFound(w, "version not found")
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{})
			return
		}
		f.mu.Lock()
		v, ok := f.aliases[r.URL.Query().Get("alias")]
		f.mu.Unlock()
		if !ok {
			notFound(w, "alias not found")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"model_version": f.wire(v)})
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeRegistry) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return New(srv.URL, zerolog.Nop())
}

func TestListVersionsDescendingWithAliases(t *testing.T) {
	f := newFakeRegistry()
	f.addVersion(1, "run-1", "s3://m/1", "READY")
	f.addVersion(3, "run-3", "s3://m/3", "READY")
	f.addVersion(2, "run-2", "s3://m/2", "PENDING_REGISTRATION")
	f.aliases["production"] = 3
	c := newTestClient(t, f)

	versions, err := c.ListVersions(context.Background(), "credit-fraud")
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{versions[0].Version, versions[1].Version, versions[2].Version})
	assert.Equal(t, []string{"production"}, versions[0].Aliases)
	assert.Empty(t, versions[1].Aliases)
	assert.Empty(t, versions[2].Aliases)
	assert.Equal(t, "ready", string(versions[0].Status))
	assert.Equal(t, "pending", string(versions[1].Status))
}

func TestGetVersion(t *testing.T) {
	f := newFakeRegistry()
	f.addVersion(5, "run-5", "/models/v5.json", "READY")
	c := newTestClient(t, f)

	mv, err := c.GetVersion(context.Background(), "credit-fraud", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, mv.Version)
	assert.Equal(t, "run-5", mv.RunID)
	assert.Equal(t, "/models/v5.json", mv.Source)

	_, err = c.GetVersion(context.Background(), "credit-fraud", 99)
	assert.True(t, IsVersionNotFound(err), "got %v", err)
}

func TestSetAliasResolveAliasRoundTrip(t *testing.T) {
	f := newFakeRegistry()
	f.addVersion(5, "run-5", "/models/v5.json", "READY")
	c := newTestClient(t, f)
	ctx := context.Background()

	// Unset alias resolves to nil, not an error.
	mv, err := c.ResolveAlias(ctx, "credit-fraud", "production")
	require.NoError(t, err)
	assert.Nil(t, mv)

	require.NoError(t, c.SetAlias(ctx, "credit-fraud", "production", 5))
	mv, err = c.ResolveAlias(ctx, "credit-fraud", "production")
	require.NoError(t, err)
	require.NotNil(t, mv)
	assert.Equal(t, 5, mv.Version)
}

func TestSetAliasMovesAtomically(t *testing.T) {
	f := newFakeRegistry()
	f.addVersion(3, "run-3", "/models/v3.json", "READY")
	f.addVersion(5, "run-5", "/models/v5.json", "READY")
	f.aliases["production"] = 3
	c := newTestClient(t, f)
	ctx := context.Background()

	require.NoError(t, c.SetAlias(ctx, "credit-fraud", "production", 5))
	versions, err := c.ListVersions(ctx, "credit-fraud")
	require.NoError(t, err)
	// Alias detached from 3 and attached to 5; never on both.
	assert.Equal(t, []string{"production"}, versions[0].Aliases)
	assert.Empty(t, versions[1].Aliases)
}

func TestSetAliasIdempotent(t *testing.T) {
	f := newFakeRegistry()
	f.addVersion(5, "run-5", "/models/v5.json", "READY")
	c := newTestClient(t, f)
	ctx := context.Background()

	require.NoError(t, c.SetAlias(ctx, "credit-fraud", "production", 5))
	require.NoError(t, c.SetAlias(ctx, "credit-fraud", "production", 5))
	mv, err := c.ResolveAlias(ctx, "credit-fraud", "production")
	require.NoError(t, err)
	assert.Equal(t, 5, mv.Version)
}

func TestSetAliasMissingVersion(t *testing.T) {
	f := newFakeRegistry()
	c := newTestClient(t, f)
	err := c.SetAlias(context.Background(), "credit-fraud", "production", 42)
	assert.True(t, IsVersionNotFound(err), "got %v", err)
}

func TestUnreachableRegistry(t *testing.T) {
	c := New("http://127.0.0.1:1", zerolog.Nop())
	ctx := context.Background()

	_, err := c.ListVersions(ctx, "credit-fraud")
	assert.True(t, IsUnavailable(err), "got %v", err)
	_, err = c.GetVersion(ctx, "credit-fraud", 1)
	assert.True(t, IsUnavailable(err), "got %v", err)
	_, err = c.ResolveAlias(ctx, "credit-fraud", "production")
	assert.True(t, IsUnavailable(err), "got %v", err)
	err = c.SetAlias(ctx, "credit-fraud", "production", 1)
	assert.True(t, IsUnavailable(err), "got %v", err)
}

func TestSetAliasWriteRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error_code": "INVALID_PARAMETER_VALUE",
			"message":    "alias name is reserved",
		})
	}))
	defer srv.Close()
	c := New(srv.URL, zerolog.Nop())
	err := c.SetAlias(context.Background(), "credit-fraud", "latest", 1)
	assert.True(t, IsWriteRejected(err), "got %v", err)
}
