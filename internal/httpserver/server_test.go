package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-query-cache/internal/client"
	"go-query-cache/internal/config"
	"go-query-cache/internal/interfaces"
	"go-query-cache/internal/models"
	"go-query-cache/internal/policy"
	"go-query-cache/internal/provider"
)

// mapStore is a minimal in-memory store backing the handler tests.
type mapStore struct {
	mu      sync.Mutex
	entries map[string]*models.CacheEntry
}

func newMapStore() *mapStore {
	return &mapStore{entries: make(map[string]*models.CacheEntry)}
}

func (s *mapStore) Get(key string) (*models.CacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || entry.IsExpired() {
		return nil, false
	}
	return entry, true
}

func (s *mapStore) GetStale(key string) (*models.CacheEntry, bool) {
	return s.Get(key)
}

func (s *mapStore) Set(key string, value []byte, ttl models.TTL) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := models.NewCacheEntry(value, ttl)
	s.entries[key] = &entry
}

func (s *mapStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

var _ interfaces.Store = (*mapStore)(nil)

// newTestServer wires a server over an in-memory store and returns the
// router plus a cleanup function.
func newTestServer(t *testing.T) (*mux.Router, func()) {
	t.Helper()

	cfg := config.DefaultClientConfig()
	p := provider.New(func() *client.Client {
		classifier := policy.NewClassifier(zap.NewNop(), nil, cfg)
		return client.New(cfg, newMapStore(), classifier, nil, zap.NewNop())
	})

	s := NewServer(p, zap.NewNop())
	return s.createRouter(), p.Close
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) QueryResponse {
	t.Helper()

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp
}

func TestServer_HandleQuery_FetchesThenServesFresh(t *testing.T) {
	var originHits int32
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&originHits, 1)
		fmt.Fprint(w, `{"todos":[1,2,3]}`)
	}))
	defer origin.Close()

	router, cleanup := newTestServer(t)
	defer cleanup()

	body := QueryRequest{Scope: "app", Name: "todos", OriginURL: origin.URL}

	first := postJSON(t, router, "/query", body)
	require.Equal(t, http.StatusOK, first.Code)
	resp := decodeResponse(t, first)
	assert.True(t, resp.Success)
	assert.Equal(t, models.QueryStatusFetched, resp.Status)
	assert.Equal(t, `{"todos":[1,2,3]}`, resp.Data)
	assert.NotEmpty(t, resp.Key)

	second := postJSON(t, router, "/query", body)
	require.Equal(t, http.StatusOK, second.Code)
	resp = decodeResponse(t, second)
	assert.Equal(t, models.QueryStatusFresh, resp.Status)
	assert.Equal(t, `{"todos":[1,2,3]}`, resp.Data)

	assert.Equal(t, int32(1), atomic.LoadInt32(&originHits), "fresh hit must not reach the origin")
}

func TestServer_HandleQuery_MissingOriginURL(t *testing.T) {
	router, cleanup := newTestServer(t)
	defer cleanup()

	recorder := postJSON(t, router, "/query", QueryRequest{Scope: "app", Name: "todos"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	resp := decodeResponse(t, recorder)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "origin_url")
}

func TestServer_HandleQuery_InvalidBody(t *testing.T) {
	router, cleanup := newTestServer(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader([]byte("not-json")))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestServer_HandleQuery_OriginFailureRetriedThenSurfaced(t *testing.T) {
	var originHits int32
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&originHits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer origin.Close()

	router, cleanup := newTestServer(t)
	defer cleanup()

	recorder := postJSON(t, router, "/query", QueryRequest{Scope: "app", Name: "todos", OriginURL: origin.URL})

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	resp := decodeResponse(t, recorder)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "status 500")
	assert.Equal(t, int32(2), atomic.LoadInt32(&originHits), "failed fetch is retried once")
}

func TestServer_HandleMutate_InvalidatesQueries(t *testing.T) {
	var queryHits int32
	var mutationBody []byte
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			mutationBody, _ = io.ReadAll(r.Body)
			fmt.Fprint(w, `{"id":42}`)
			return
		}
		atomic.AddInt32(&queryHits, 1)
		fmt.Fprintf(w, `{"version":%d}`, atomic.LoadInt32(&queryHits))
	}))
	defer origin.Close()

	router, cleanup := newTestServer(t)
	defer cleanup()

	queryBody := QueryRequest{Scope: "app", Name: "todos", OriginURL: origin.URL}

	first := postJSON(t, router, "/query", queryBody)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, `{"version":1}`, decodeResponse(t, first).Data)

	mutate := postJSON(t, router, "/mutate", MutateRequest{
		OriginURL:  origin.URL,
		Body:       `{"title":"buy milk"}`,
		Invalidate: []models.QueryRequest{{Scope: "app", Name: "todos"}},
	})
	require.Equal(t, http.StatusOK, mutate.Code)
	resp := decodeResponse(t, mutate)
	assert.True(t, resp.Success)
	assert.Equal(t, `{"id":42}`, resp.Data)
	assert.Equal(t, `{"title":"buy milk"}`, string(mutationBody))

	// The cached entry was dropped, so the next query refetches.
	second := postJSON(t, router, "/query", queryBody)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, models.QueryStatusFetched, decodeResponse(t, second).Status)
}

func TestServer_HandleMutate_OriginFailure(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer origin.Close()

	router, cleanup := newTestServer(t)
	defer cleanup()

	recorder := postJSON(t, router, "/mutate", MutateRequest{OriginURL: origin.URL})

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.False(t, decodeResponse(t, recorder).Success)
}

func TestServer_HandleInvalidate(t *testing.T) {
	var originHits int32
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&originHits, 1)
		fmt.Fprint(w, `{"todos":[]}`)
	}))
	defer origin.Close()

	router, cleanup := newTestServer(t)
	defer cleanup()

	queryBody := QueryRequest{Scope: "app", Name: "todos", OriginURL: origin.URL}

	first := postJSON(t, router, "/query", queryBody)
	require.Equal(t, http.StatusOK, first.Code)

	invalidate := postJSON(t, router, "/invalidate", InvalidateRequest{Scope: "app", Name: "todos"})
	require.Equal(t, http.StatusOK, invalidate.Code)
	assert.True(t, decodeResponse(t, invalidate).Success)

	second := postJSON(t, router, "/query", queryBody)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, models.QueryStatusFetched, decodeResponse(t, second).Status)
	assert.Equal(t, int32(2), atomic.LoadInt32(&originHits))
}

func TestServer_HandleHealth(t *testing.T) {
	router, cleanup := newTestServer(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestServer_MetricsEndpoint(t *testing.T) {
	router, cleanup := newTestServer(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "query_fetch_retries_total")
}

func TestServer_HandleInvalidate_Batch(t *testing.T) {
	var originHits int32
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&originHits, 1)
		fmt.Fprint(w, `{}`)
	}))
	defer origin.Close()

	router, cleanup := newTestServer(t)
	defer cleanup()

	todos := QueryRequest{Scope: "app", Name: "todos", OriginURL: origin.URL}
	profile := QueryRequest{Scope: "app", Name: "profile", OriginURL: origin.URL}

	require.Equal(t, http.StatusOK, postJSON(t, router, "/query", todos).Code)
	require.Equal(t, http.StatusOK, postJSON(t, router, "/query", profile).Code)

	invalidate := postJSON(t, router, "/invalidate", InvalidateRequest{
		Queries: []models.QueryRequest{
			{Scope: "app", Name: "todos"},
			{Scope: "app", Name: "profile"},
		},
	})
	require.Equal(t, http.StatusOK, invalidate.Code)
	assert.True(t, decodeResponse(t, invalidate).Success)

	// Both entries were dropped, so both queries refetch.
	assert.Equal(t, models.QueryStatusFetched, decodeResponse(t, postJSON(t, router, "/query", todos)).Status)
	assert.Equal(t, models.QueryStatusFetched, decodeResponse(t, postJSON(t, router, "/query", profile)).Status)
	assert.Equal(t, int32(4), atomic.LoadInt32(&originHits))
}

func TestServer_HandleInvalidate_BatchMalformed(t *testing.T) {
	router, cleanup := newTestServer(t)
	defer cleanup()

	recorder := postJSON(t, router, "/invalidate", InvalidateRequest{
		Queries: []models.QueryRequest{{Scope: "app"}},
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.False(t, decodeResponse(t, recorder).Success)
}
