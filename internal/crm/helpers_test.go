package crm

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	httpx "site-integrations/internal/common/http"
	"site-integrations/internal/common/logger"
)

// ==========================
// Test Helpers
// ==========================

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   map[string]interface{}
}

type route func(w http.ResponseWriter, r *http.Request)

// fakeVendor routes "METHOD /path" to canned handlers and records every call.
type fakeVendor struct {
	server *httptest.Server
	routes map[string]route

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeVendor(t *testing.T) *fakeVendor {
	t.Helper()
	f := &fakeVendor{routes: map[string]route{}}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeVendor) on(method, path string, h route) {
	f.routes[method+" "+path] = h
}

func (f *fakeVendor) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]interface{}
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	f.mu.Unlock()

	h, ok := f.routes[r.Method+" "+r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (f *fakeVendor) calls(method, path string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedRequest
	for _, req := range f.requests {
		if req.Method == method && req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

func (f *fakeVendor) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func respond(status int, body string) route {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// createdThenConflict answers the first create with created and every later one with conflict.
func createdThenConflict(created, conflict route) route {
	var calls int32
	return func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			created(w, r)
			return
		}
		conflict(w, r)
	}
}

func testClient() *httpx.Client {
	return httpx.NewClient(5 * time.Second)
}

func observedLogger(level zapcore.Level) (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return logger.NewZapAdapter(zap.New(core)), logs
}

// countingDoer counts outbound requests without touching the network.
type countingDoer struct {
	mu    sync.Mutex
	calls int
}

func (c *countingDoer) Do(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
}

func (c *countingDoer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
