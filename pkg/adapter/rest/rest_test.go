package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ajitpratap0/pipes/pkg/adapter/registry"
	"github.com/ajitpratap0/pipes/pkg/errors"
	"github.com/ajitpratap0/pipes/pkg/logger"
	"github.com/ajitpratap0/pipes/pkg/pipe"
	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type request struct {
	method string
	path   string
	query  string
	body   string
	header http.Header
}

// fakeAPI records requests and answers with a fixed status and body
type fakeAPI struct {
	mu       sync.Mutex
	requests []request
	status   int
	body     string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, request{r.Method, r.URL.Path, r.URL.RawQuery, string(data), r.Header.Clone()})
	status, body := f.status, f.body
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (f *fakeAPI) last(t *testing.T) request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func newTestPipe(t *testing.T, api *fakeAPI, settings pipe.Settings) *Pipe {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	if settings == nil {
		settings = pipe.Settings{}
	}
	settings["baseURL"] = srv.URL + "/api/"

	p, err := New("tasks", "id", settings)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.(*Pipe).Close() })
	return p.(*Pipe)
}

func TestRegistered(t *testing.T) {
	assert.True(t, registry.Has(Type))

	p, err := registry.Create(Type, "projects", "id", pipe.Settings{})
	require.NoError(t, err)
	assert.Equal(t, Type, p.Type())
	assert.Equal(t, "projects", p.(*Pipe).URL())
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, endpoint, want string
	}{
		{"", "tasks", "tasks"},
		{"http://api", "tasks", "http://api/tasks"},
		{"http://api/", "/tasks", "http://api/tasks"},
		{"http://api/v1", "", "http://api/v1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveURL(tt.base, tt.endpoint))
	}
}

func TestNew_InvalidTimeout(t *testing.T) {
	_, err := New("tasks", "id", pipe.Settings{"timeout": "eventually"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestRead_Collection(t *testing.T) {
	api := &fakeAPI{body: `[{"id":"1","title":"a"},{"id":"2","title":"b"}]`}
	p := newTestPipe(t, api, pipe.Settings{"headers": map[string]interface{}{"X-Token": "secret"}})

	recs, err := p.Read(context.Background(), pipe.ReadOptions{Query: map[string]string{"done": "false"}})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[1]["title"])

	req := api.last(t)
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/api/tasks", req.path)
	assert.Equal(t, "done=false", req.query)
	assert.Equal(t, "secret", req.header.Get("X-Token"))
	assert.Equal(t, "application/json", req.header.Get("Accept"))
}

func TestRead_SingleObject(t *testing.T) {
	api := &fakeAPI{body: `{"id":"7","title":"one"}`}
	p := newTestPipe(t, api, nil)

	recs, err := p.Read(context.Background(), pipe.ReadOptions{ID: "7"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "one", recs[0]["title"])
	assert.Equal(t, "/api/tasks/7", api.last(t).path)
}

func TestRead_EmptyBody(t *testing.T) {
	p := newTestPipe(t, &fakeAPI{}, nil)

	recs, err := p.Read(context.Background(), pipe.ReadOptions{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSave_PostWithoutID(t *testing.T) {
	api := &fakeAPI{status: http.StatusCreated, body: `{"id":"42","title":"new"}`}
	p := newTestPipe(t, api, nil)

	saved, err := p.Save(context.Background(), pipe.Record{"title": "new"})
	require.NoError(t, err)
	assert.Equal(t, "42", saved["id"])

	req := api.last(t)
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/api/tasks", req.path)
	assert.Equal(t, "application/json", req.header.Get("Content-Type"))

	var sent map[string]interface{}
	require.NoError(t, gojson.Unmarshal([]byte(req.body), &sent))
	assert.Equal(t, "new", sent["title"])
}

func TestSave_PutWithID(t *testing.T) {
	api := &fakeAPI{status: http.StatusNoContent}
	p := newTestPipe(t, api, nil)

	rec := pipe.Record{"id": "42", "title": "renamed"}
	saved, err := p.Save(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, rec, saved)

	req := api.last(t)
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/api/tasks/42", req.path)
}

func TestSave_CustomRecordID(t *testing.T) {
	api := &fakeAPI{status: http.StatusNoContent}
	srv := httptest.NewServer(api)
	defer srv.Close()

	p, err := New("tags", "uuid", pipe.Settings{"baseURL": srv.URL, "endpoint": "/v2/labels"})
	require.NoError(t, err)

	_, err = p.(*Pipe).Save(context.Background(), pipe.Record{"id": "ignored", "uuid": "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "/v2/labels/u-1", api.last(t).path)
}

func TestRemove(t *testing.T) {
	api := &fakeAPI{status: http.StatusNoContent}
	p := newTestPipe(t, api, nil)

	require.NoError(t, p.Remove(context.Background(), "a b"))
	req := api.last(t)
	assert.Equal(t, http.MethodDelete, req.method)
	assert.Equal(t, "/api/tasks/a b", req.path)

	err := p.Remove(context.Background(), "")
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status  int
		errType errors.ErrorType
	}{
		{http.StatusNotFound, errors.ErrorTypeNotFound},
		{http.StatusTooManyRequests, errors.ErrorTypeRateLimit},
		{http.StatusGatewayTimeout, errors.ErrorTypeTimeout},
		{http.StatusServiceUnavailable, errors.ErrorTypeConnection},
		{http.StatusBadRequest, errors.ErrorTypeData},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			p := newTestPipe(t, &fakeAPI{status: tt.status, body: `{"error":"x"}`}, nil)

			_, err := p.Read(context.Background(), pipe.ReadOptions{})
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.errType), err.Error())

			status, ok := errors.Detail(err, "status")
			require.True(t, ok)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestRead_MalformedBody(t *testing.T) {
	p := newTestPipe(t, &fakeAPI{body: `[{"id":`}, nil)

	_, err := p.Read(context.Background(), pipe.ReadOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestStats(t *testing.T) {
	p := newTestPipe(t, &fakeAPI{body: `[]`}, nil)

	_, err := p.Read(context.Background(), pipe.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Stats().TotalRequests)
}

func TestOperationLogCarriesContext(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })

	api := &fakeAPI{status: http.StatusServiceUnavailable}
	p := newTestPipe(t, api, nil)

	ctx := context.WithValue(context.Background(), logger.RequestIDKey, "req-7")
	_, err := p.Read(ctx, pipe.ReadOptions{})
	require.Error(t, err)

	failed := logs.FilterMessage("operation failed").All()
	require.Len(t, failed, 1)
	fields := failed[0].ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "tasks", fields["pipe"])
	assert.Equal(t, "read", fields["operation"])
	assert.Equal(t, true, fields["retryable"])

	_, err = p.Read(context.WithValue(context.Background(), logger.PipeKey, "alias"), pipe.ReadOptions{})
	require.Error(t, err)
	failed = logs.FilterMessage("operation failed").All()
	require.Len(t, failed, 2)
	assert.Equal(t, "alias", failed[1].ContextMap()["pipe"])
}
