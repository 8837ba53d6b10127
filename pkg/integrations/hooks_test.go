package integrations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/starctl/pkg/observability"
)

type recordingHooks struct {
	mu        sync.Mutex
	requests  []string
	statuses  []int
	retries   []int
	hits      []string
	misses    []string
	setsBytes int
}

func (h *recordingHooks) OnRequest(_ context.Context, method, _, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func (h *recordingHooks) OnError(context.Context, string, string, string, error) {}

func (h *recordingHooks) OnRetry(_ context.Context, _, _ string, attempt int, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.retries = append(h.retries, attempt)
}

func (h *recordingHooks) OnCacheHit(_ context.Context, key string)  { h.hits = append(h.hits, key) }
func (h *recordingHooks) OnCacheMiss(_ context.Context, key string) { h.misses = append(h.misses, key) }
func (h *recordingHooks) OnCacheSet(_ context.Context, _ string, n int) {
	h.setsBytes += n
}

func registerHooks(t *testing.T) *recordingHooks {
	t.Helper()
	h := &recordingHooks{}
	observability.SetHTTPHooks(h)
	observability.SetCacheHooks(h)
	t.Cleanup(observability.Reset)
	return h
}

func TestClientEmitsHTTPHooks(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	h := registerHooks(t)
	client := testClient(t, server.URL, nil)

	if err := client.Put(context.Background(), "/user/starred/o/r"); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	if len(h.requests) != 2 || h.requests[0] != "PUT /user/starred/o/r" {
		t.Errorf("requests = %v", h.requests)
	}
	if len(h.statuses) != 2 || h.statuses[0] != 503 || h.statuses[1] != 204 {
		t.Errorf("statuses = %v", h.statuses)
	}
	if len(h.retries) != 1 || h.retries[0] != 2 {
		t.Errorf("retries = %v, want [2]", h.retries)
	}
}

func TestClientEmitsCacheHooks(t *testing.T) {
	h := registerHooks(t)
	client := testClient(t, "http://unused.invalid", nil)

	var v struct{ N int }
	fetch := func() error { v.N = 1; return nil }

	ctx := context.Background()
	if err := client.Cached(ctx, "k", false, &v, fetch); err != nil {
		t.Fatal(err)
	}
	if err := client.Cached(ctx, "k", false, &v, fetch); err != nil {
		t.Fatal(err)
	}

	if len(h.misses) != 1 || len(h.hits) != 1 {
		t.Errorf("misses = %v, hits = %v", h.misses, h.hits)
	}
	if h.setsBytes == 0 {
		t.Error("OnCacheSet should report the stored size")
	}
}
