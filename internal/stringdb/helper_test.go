package stringdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/agenthands/genepath/internal/config"
	"github.com/agenthands/genepath/internal/core/model"
)

// fakeString is a STRING API stand-in that counts the requests it receives.
type fakeString struct {
	server *httptest.Server
	calls  atomic.Int32
	last   atomic.Pointer[http.Request]
}

func newFakeString(t *testing.T, handler http.HandlerFunc) *fakeString {
	t.Helper()
	f := &fakeString{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		f.last.Store(r)
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func jsonBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func testConfig(baseURL string) config.StringConfig {
	cfg := config.Default().String
	cfg.BaseURL = baseURL
	cfg.RatePerSecond = 1000
	return cfg
}

func newTestClient(t *testing.T, baseURL string) (*Client, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	return NewClient(testConfig(baseURL), zap.New(core), nil), logs
}

// countingFetcher is a Fetcher double for cache tests.
type countingFetcher struct {
	calls  int
	result []model.Interaction
	err    error
}

func (f *countingFetcher) Interactions(ctx context.Context, genes []string, threshold float64) ([]model.Interaction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}
