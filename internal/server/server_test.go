package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/hivelab/internal/element"
	"github.com/alexisbeaulieu97/hivelab/internal/engine"
	"github.com/alexisbeaulieu97/hivelab/internal/logger"
	"github.com/alexisbeaulieu97/hivelab/internal/metrics"
	"github.com/alexisbeaulieu97/hivelab/internal/resolver"
	"github.com/alexisbeaulieu97/hivelab/internal/server"
	"github.com/alexisbeaulieu97/hivelab/internal/state"
)

const pollChartComposition = `{
  "id": "tool-1",
  "name": "Lunch vote",
  "elements": [
    {"elementId": "poll-element", "instanceId": "poll-1"},
    {"elementId": "chart-display", "instanceId": "chart-1"}
  ],
  "connections": [
    {"from": {"instanceId": "poll-1", "output": "results"}, "to": {"instanceId": "chart-1", "input": "data"}}
  ]
}`

const cyclicComposition = `{
  "id": "loop",
  "name": "Loop",
  "elements": [
    {"elementId": "counter", "instanceId": "a"},
    {"elementId": "counter", "instanceId": "b"}
  ],
  "connections": [
    {"from": {"instanceId": "a", "output": "value"}, "to": {"instanceId": "b", "input": "value"}},
    {"from": {"instanceId": "b", "output": "value"}, "to": {"instanceId": "a", "input": "value"}}
  ]
}`

type fixture struct {
	handler http.Handler
	store   *state.MemoryStore
	metrics *metrics.Recorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	registry := element.NewDefaultRegistry(logger.Nop())
	rec := metrics.NewRecorder()
	store := state.NewMemoryStore()
	eng := engine.New(registry, resolver.New(registry), engine.WithObserver(rec))

	return fixture{
		handler: server.NewHandler(server.Options{
			Engine:   eng,
			Registry: registry,
			Store:    store,
			Metrics:  rec,
		}),
		store:   store,
		metrics: rec,
	}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	resp := httptest.NewRecorder()
	f.handler.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func TestHealthCarriesRequestID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotEmpty(t, resp.Header().Get(server.RequestIDHeader))
	require.Equal(t, "ok", decode(t, resp)["status"])

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(server.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(server.RequestIDHeader))
}

func TestListElementsByCategory(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/v1/elements?category=display", "")
	require.Equal(t, http.StatusOK, resp.Code)

	var elements []map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &elements))
	require.NotEmpty(t, elements)
	for _, e := range elements {
		assert.Equal(t, "display", e["category"])
	}

	resp = f.do(t, http.MethodGet, "/v1/elements?category=bogus", "")
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestResolveEndpoint(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	body := `{"composition": ` + pollChartComposition + `, "state": {"counters": {"poll-1:Option A": 4, "poll-1:Option B": 1}}}`

	resp := f.do(t, http.MethodPost, "/v1/resolve", body)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	out := decode(t, resp)
	assert.Equal(t, []any{"poll-1", "chart-1"}, out["order"])
	assert.Equal(t, map[string]any{
		"chart-1": map[string]any{
			"data": map[string]any{
				"chartData": []any{
					map[string]any{"name": "Option A", "value": float64(4)},
					map[string]any{"name": "Option B", "value": float64(1)},
				},
			},
		},
	}, out["inputs"])
}

func TestResolveEndpointReportsCycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	resp := f.do(t, http.MethodPost, "/v1/resolve", `{"composition": `+cyclicComposition+`}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	out := decode(t, resp)
	assert.Equal(t, "a", out["instanceId"])
	assert.Equal(t, []any{"a", "b", "a"}, out["path"])
	assert.Contains(t, out["error"], "cycle")
}

func TestResolveEndpointRejectsBadBodies(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/v1/resolve", "{nope").Code)
	require.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/v1/resolve", `{}`).Code)

	resp := f.do(t, http.MethodPost, "/v1/resolve", `{"composition": {"id": "t", "elements": []}}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "name", decode(t, resp)["field"])
}

func TestValidateEndpoint(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	resp := f.do(t, http.MethodPost, "/v1/validate", `{"composition": `+pollChartComposition+`}`)
	require.Equal(t, http.StatusOK, resp.Code)
	out := decode(t, resp)
	assert.Equal(t, true, out["valid"])
	assert.Empty(t, out["errors"])

	resp = f.do(t, http.MethodPost, "/v1/validate", `{"composition": `+cyclicComposition+`}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, false, decode(t, resp)["valid"])
}

func TestToolStateLifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/v1/tools/tool-1/resolve", `{"composition": `+pollChartComposition+`}`)
	require.Equal(t, http.StatusNotFound, resp.Code)

	resp = f.do(t, http.MethodPut, "/v1/tools/tool-1/state", `{"counters": {"poll-1:yes": 2}}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, float64(1), decode(t, resp)["version"])

	resp = f.do(t, http.MethodGet, "/v1/tools", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []any{"tool-1"}, decode(t, resp)["tools"])

	resp = f.do(t, http.MethodGet, "/v1/tools/tool-1/state", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, map[string]any{"poll-1:yes": float64(2)}, decode(t, resp)["counters"])

	resp = f.do(t, http.MethodPost, "/v1/tools/tool-1/resolve", `{"composition": `+pollChartComposition+`}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	inputs := decode(t, resp)["inputs"].(map[string]any)
	require.Contains(t, inputs, "chart-1")

	resp = f.do(t, http.MethodDelete, "/v1/tools/tool-1/state", "")
	require.Equal(t, http.StatusNoContent, resp.Code)
	require.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/v1/tools/tool-1/state", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.do(t, http.MethodPost, "/v1/resolve", `{"composition": `+pollChartComposition+`}`)

	resp := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, `hivelab_executions_total{status="ok"} 1`)
	assert.Contains(t, body, `hivelab_http_requests_total{code="200",method="POST",route="/v1/resolve"} 1`)
}

func TestMaxBodyBytes(t *testing.T) {
	t.Parallel()

	registry := element.NewDefaultRegistry(logger.Nop())
	handler := server.NewHandler(server.Options{
		Engine:       engine.New(registry, nil),
		Registry:     registry,
		MaxBodyBytes: 16,
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/resolve", bytes.NewBufferString(`{"composition": `+pollChartComposition+`}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}
