package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/agenthands/genepath/internal/config"
	"github.com/agenthands/genepath/internal/core"
	"github.com/agenthands/genepath/internal/core/community"
	"github.com/agenthands/genepath/internal/core/model"
	"github.com/agenthands/genepath/internal/core/render"
	"github.com/agenthands/genepath/internal/core/summary"
	"github.com/agenthands/genepath/internal/observability"
	"github.com/agenthands/genepath/internal/stringdb"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubFetcher struct {
	interactions []model.Interaction
	err          error
}

func (f *stubFetcher) Interactions(ctx context.Context, genes []string, threshold float64) ([]model.Interaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Interaction
	for _, in := range f.interactions {
		if in.Score >= threshold {
			out = append(out, in)
		}
	}
	return out, nil
}

type recordingDriver struct {
	queries int
	err     error
}

func (d *recordingDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	d.queries++
	return neo4j.EagerResult{}, d.err
}

func (d *recordingDriver) EnsureSchema(ctx context.Context) error { return nil }
func (d *recordingDriver) Close(ctx context.Context) error        { return nil }

type testEnv struct {
	router  *gin.Engine
	server  *Server
	logs    *observer.ObservedLogs
	metrics *observability.Collector
}

func newTestEnv(t *testing.T, fetcher stringdb.Fetcher) *testEnv {
	t.Helper()
	cfg := config.Default()
	obsCore, logs := observer.New(zap.InfoLevel)
	logger := zap.New(obsCore)
	metrics := observability.NewCollector("genepath_test")

	p := newPathway(t, cfg, fetcher)
	srv := NewServer(p, logger, metrics)
	return &testEnv{router: srv.SetupRouter(), server: srv, logs: logs, metrics: metrics}
}

func newPathway(t *testing.T, cfg *config.Config, fetcher stringdb.Fetcher) *core.Pathway {
	t.Helper()
	summarizer := summary.NewSummarizer(&summary.MockLLMClient{Response: "KRAS activates BRAF."}, cfg.Summary, nil, nil)
	renderer := render.NewRenderer(cfg.Render, t.TempDir(), nil)
	p := core.NewPathway(fetcher, renderer, summarizer, community.NewLabelPropagationDetector(), nil, nil, nil)
	p.DefaultThreshold = cfg.Pipeline.Threshold()
	return p
}

func (e *testEnv) post(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func fixture() *stubFetcher {
	return &stubFetcher{interactions: []model.Interaction{
		{GeneA: "EGFR", GeneB: "KRAS", Score: 0.9},
		{GeneA: "KRAS", GeneB: "BRAF", Score: 0.5},
	}}
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t, fixture())

	w := env.get("/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "MAPK1\nTP53")
	assert.Contains(t, body, `step="0.05"`)
	assert.Contains(t, body, `value="0.7"`)
}

func TestHealthAndRequestID(t *testing.T) {
	env := newTestEnv(t, fixture())

	w := env.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRunPathway(t *testing.T) {
	env := newTestEnv(t, fixture())

	req := httptest.NewRequest(http.MethodPost, "/api/pathway", strings.NewReader(`{"genes":"egfr kras braf","threshold":0.7}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var report core.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "req-42", report.ID)
	assert.Equal(t, core.StageComplete, report.Stage)
	assert.Equal(t, []string{"BRAF", "EGFR", "KRAS"}, report.Genes)
	assert.Equal(t, []model.Interaction{{GeneA: "EGFR", GeneB: "KRAS", Score: 0.9}}, report.Interactions)
	assert.Contains(t, report.Network, "vis.Network")
	assert.Contains(t, report.Summary, "activates")

	entries := env.logs.FilterMessage("Request served").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
}

func TestRunPathway_SummaryMarkupIsEscaped(t *testing.T) {
	cfg := config.Default()
	mockLLM := &summary.MockLLMClient{Response: `<img src=x onerror=alert(1)> EGFR activates KRAS`}
	p := core.NewPathway(fixture(), render.NewRenderer(cfg.Render, t.TempDir(), nil),
		summary.NewSummarizer(mockLLM, cfg.Summary, nil, nil), nil, nil, nil, nil)
	router := NewServer(p, nil, nil).SetupRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/pathway", strings.NewReader(`{"genes":"EGFR KRAS"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var report core.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.NotContains(t, report.Summary, "<img")
	assert.True(t, strings.HasPrefix(report.Summary, "&lt;img src=x onerror=alert(1)&gt;"))
	assert.Contains(t, report.Summary, "<span style='color:green;font-weight:bold'>activates</span>")
}

func TestRunPathway_InputProblems(t *testing.T) {
	env := newTestEnv(t, fixture())

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"genes":`, http.StatusBadRequest},
		{"threshold above one", `{"genes":"EGFR KRAS","threshold":1.2}`, http.StatusBadRequest},
		{"single gene", `{"genes":"TP53"}`, http.StatusUnprocessableEntity},
		{"blank", `{"genes":"   "}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.post("/api/pathway", tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRunPathway_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{err: &stringdb.UpstreamError{StatusCode: http.StatusInternalServerError}})

	w := env.post("/api/pathway", `{"genes":"EGFR KRAS"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "STRING API error: HTTP 500")
}

func TestDownloadCSV(t *testing.T) {
	env := newTestEnv(t, fixture())

	w := env.post("/api/pathway/csv", `{"genes":"EGFR KRAS BRAF","threshold":0.4}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="gene_interactions.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, "Gene A,Gene B,Confidence\nEGFR,KRAS,0.9\nKRAS,BRAF,0.5\n", w.Body.String())
}

func TestDownloadCSV_NoInteractions(t *testing.T) {
	env := newTestEnv(t, fixture())

	w := env.post("/api/pathway/csv", `{"genes":"EGFR KRAS","threshold":0.95}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Gene A,Gene B,Confidence\n", w.Body.String())
}

func TestExportPathway(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		env := newTestEnv(t, fixture())
		w := env.post("/api/pathway/export", `{"genes":"EGFR KRAS"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		env := newTestEnv(t, fixture())
		d := &recordingDriver{}
		env.server.Pathway.Driver = d

		w := env.post("/api/pathway/export", `{"genes":"EGFR KRAS"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"`+w.Header().Get(RequestIDHeader)+`","genes":2,"interactions":1}`, w.Body.String())
		assert.Equal(t, 3, d.queries)
	})

	t.Run("driver failure", func(t *testing.T) {
		env := newTestEnv(t, fixture())
		env.server.Pathway.Driver = &recordingDriver{err: errors.New("boom")}

		w := env.post("/api/pathway/export", `{"genes":"EGFR KRAS"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, fixture())
	env.post("/api/pathway", `{"genes":"EGFR KRAS"}`)

	w := env.get("/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `genepath_test_http_requests_total{method="POST",route="/api/pathway",status="200"} 1`)
}
