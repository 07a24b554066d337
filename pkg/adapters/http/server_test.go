package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/chainviz/pkg/adapters/memory"
	"github.com/aretw0/chainviz/pkg/markov"
	"github.com/aretw0/chainviz/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weatherDoc = `{"model": {"markov": {
	"state_Sunny": {"Cloudy": 0.3, "Rainy": 0.1},
	"state_Cloudy": {"Sunny": 0.4, "Rainy": 0.4},
	"state_Rainy": {"Cloudy": 1}
}, "start": "Sunny"}}`

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSimulate(t *testing.T) {
	store := memory.NewStore()
	rec := metrics.NewRecorder()
	handler := NewHandler(WithStore(store), WithMetrics(rec))

	w := do(t, handler, http.MethodPost, "/simulate", `{"document": `+weatherDoc+`, "steps": 25, "seed": 3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 26, resp.StepCount)
	assert.Len(t, resp.History, 26)
	assert.Equal(t, "Sunny", resp.History[0])
	assert.Equal(t, resp.History[len(resp.History)-1], resp.Final)

	run, err := store.Load(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, resp.History, run.History)

	// The same seed replays the same history.
	w = do(t, handler, http.MethodPost, "/simulate", `{"document": `+weatherDoc+`, "steps": 25, "seed": 3}`)
	var again SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
	assert.Equal(t, resp.History, again.History)
	assert.NotEqual(t, resp.RunID, again.RunID)
}

func TestSimulate_BadRequests(t *testing.T) {
	handler := NewHandler()

	tests := []struct {
		name string
		body string
		code int
	}{
		{"Malformed", `{"document":`, http.StatusBadRequest},
		{"Missing Document", `{"steps": 3}`, http.StatusBadRequest},
		{"Negative Steps", `{"document": ` + weatherDoc + `, "steps": -1}`, http.StatusBadRequest},
		{"Too Many Steps", `{"document": ` + weatherDoc + `, "steps": 100001}`, http.StatusBadRequest},
		{
			"Undeclared State",
			`{"document": {"model": {"markov": {"state_A": {"B": 0.5}}, "start": "A"}}, "steps": 1}`,
			http.StatusUnprocessableEntity,
		},
		{
			"Invalid Probability",
			`{"document": {"model": {"markov": {"state_A": {"B": 0.6, "C": 0.5}, "state_B": {}, "state_C": {}}, "start": "A"}}}`,
			http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, handler, http.MethodPost, "/simulate", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestRuns(t *testing.T) {
	store := memory.NewStore()
	handler := NewHandler(WithStore(store))
	require.NoError(t, store.Save(context.Background(), &markov.Run{
		ID:        "run-1",
		Start:     "A",
		Final:     "B",
		StepCount: 2,
		History:   []string{"A", "B"},
	}))

	w := do(t, handler, http.MethodGet, "/runs/run-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var run markov.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Equal(t, []string{"A", "B"}, run.History)

	w = do(t, handler, http.MethodGet, "/runs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"runs": ["run-1"]}`, w.Body.String())

	w = do(t, handler, http.MethodDelete, "/runs/run-1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, handler, http.MethodGet, "/runs/run-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, handler, http.MethodGet, "/runs", "")
	assert.JSONEq(t, `{"runs": []}`, w.Body.String())
}

func TestDot(t *testing.T) {
	handler := NewHandler()

	w := do(t, handler, http.MethodPost, "/dot", weatherDoc)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/vnd.graphviz", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "digraph G {label=START;"))
	assert.Contains(t, body, `"Sunny"[style=filled] [color=blue]`)
	assert.Contains(t, body, `"Sunny" -> "Cloudy" [label="0.3"]`)

	req := httptest.NewRequest(http.MethodPost, "/dot", strings.NewReader("model:\n  markov:\n    state_A: {}\n  start: A\n"))
	req.Header.Set("Content-Type", "application/yaml")
	yw := httptest.NewRecorder()
	handler.ServeHTTP(yw, req)
	require.Equal(t, http.StatusOK, yw.Code, yw.Body.String())
	assert.Contains(t, yw.Body.String(), `"A"[style=filled] [color=blue]`)

	w = do(t, handler, http.MethodPost, "/dot", `{"model": {}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	handler := NewHandler()
	do(t, handler, http.MethodPost, "/simulate", `{"document": `+weatherDoc+`, "steps": 5}`)

	w := do(t, handler, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "chainviz_steps_total")
}

func TestHealthAndInfo(t *testing.T) {
	handler := NewHandler()

	w := do(t, handler, http.MethodGet, "/health", "")
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())

	w = do(t, handler, http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"app":"chainviz-http"`)

	w = do(t, handler, http.MethodOptions, "/simulate", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
