// Package testutil serves recorded responses to extractors in tests.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// Router is a models.HTTPClient answering requests with the handler
// registered for their host. Unknown hosts fail the request.
type Router struct {
	mu       sync.Mutex
	handlers map[string]http.Handler
	requests []*http.Request
}

func NewRouter() *Router {
	return &Router{handlers: make(map[string]http.Handler)}
}

func (r *Router) Handle(host string, handler http.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[host] = handler
}

func (r *Router) HandleFunc(host string, handler func(http.ResponseWriter, *http.Request)) {
	r.Handle(host, http.HandlerFunc(handler))
}

func (r *Router) Do(req *http.Request) (*http.Response, error) {
	r.mu.Lock()
	handler, ok := r.handlers[req.URL.Hostname()]
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no route for host %s", req.URL.Hostname())
	}
	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	resp := recorder.Result()
	resp.Request = req
	return resp, nil
}

// Requests returns the requests seen so far, in order.
func (r *Router) Requests() []*http.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*http.Request(nil), r.requests...)
}

// Count returns how many requests were sent to host.
func (r *Router) Count(host string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int
	for _, req := range r.requests {
		if req.URL.Hostname() == host {
			count++
		}
	}
	return count
}

// Fixture reads testdata/<name> of the calling package.
func Fixture(t testing.TB, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return data
}

// Serve answers every request with status and body.
func Serve(status int, contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}
}
