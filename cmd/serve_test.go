package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/pipeline"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/store"
	storemocks "github.com/Etheal9/SEO-Auditor-AI-Agents/internal/store/mocks"
)

type executeCall struct {
	runID string
	url   string
}

type fakeExecutor struct {
	calls chan executeCall
}

func (f *fakeExecutor) Execute(_ context.Context, runID, url string) *pipeline.Result {
	f.calls <- executeCall{runID: runID, url: url}
	return &pipeline.Result{RunID: runID, State: *model.NewWorkflowState(url)}
}

func newTestAPI(t *testing.T) (*storemocks.MockStore, *fakeExecutor, http.Handler, *auditAPI) {
	t.Helper()
	st := storemocks.NewMockStore(t)
	exec := &fakeExecutor{calls: make(chan executeCall, 1)}
	api := newAuditAPI(context.Background(), st, exec)
	return st, exec, buildRouter(api, []string{"*"}), api
}

func TestRouter_Health(t *testing.T) {
	_, _, h, _ := newTestAPI(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_CreateAudit(t *testing.T) {
	st, exec, h, api := newTestAPI(t)
	st.On("CreateRun", mock.Anything, "https://example.com").
		Return(&model.Run{ID: "run-1", URL: "https://example.com", Status: model.RunStatusQueued}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/audits", strings.NewReader(`{"url":"https://example.com"}`))
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"run_id":"run-1","status":"queued"}`, w.Body.String())

	select {
	case call := <-exec.calls:
		assert.Equal(t, executeCall{runID: "run-1", url: "https://example.com"}, call)
	case <-time.After(2 * time.Second):
		t.Fatal("background audit did not start")
	}
	api.Wait()
}

func TestRouter_CreateAudit_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing url", `{}`},
		{"no scheme", `{"url":"example.com"}`},
		{"ftp", `{"url":"ftp://example.com"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, h, _ := newTestAPI(t)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/audits", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRouter_CreateAudit_StoreError(t *testing.T) {
	st, _, h, _ := newTestAPI(t)
	st.On("CreateRun", mock.Anything, "https://example.com").Return(nil, eris.New("db down"))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/audits", strings.NewReader(`{"url":"https://example.com"}`)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouter_CreateAudit_ShuttingDown(t *testing.T) {
	st := storemocks.NewMockStore(t)
	exec := &fakeExecutor{calls: make(chan executeCall, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	api := newAuditAPI(ctx, st, exec)
	h := buildRouter(api, []string{"*"})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/audits", strings.NewReader(`{"url":"https://example.com"}`)))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	st.AssertNotCalled(t, "CreateRun", mock.Anything, mock.Anything)
	api.Wait()
	assert.Empty(t, exec.calls)
}

func TestRouter_GetAudit(t *testing.T) {
	st, _, h, _ := newTestAPI(t)
	st.On("GetRun", mock.Anything, "run-1").
		Return(&model.Run{ID: "run-1", URL: "https://example.com", Status: model.RunStatusRunning}, nil)
	st.On("ListPhases", mock.Anything, "run-1").
		Return([]model.RunPhase{{ID: "p1", RunID: "run-1", Name: "1_page_auditor", Status: model.PhaseStatusComplete}}, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/audits/run-1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "run-1", body["id"])
	assert.Equal(t, "running", body["status"])
	phases, ok := body["phases"].([]any)
	require.True(t, ok)
	assert.Len(t, phases, 1)
}

func TestRouter_GetAudit_NotFound(t *testing.T) {
	st, _, h, _ := newTestAPI(t)
	st.On("GetRun", mock.Anything, "missing").Return(nil, eris.Wrap(store.ErrNotFound, "run missing"))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/audits/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"run not found"}`, w.Body.String())
}

func TestRouter_GetReport(t *testing.T) {
	st, _, h, _ := newTestAPI(t)
	state := *model.NewWorkflowState("https://example.com")
	state.Report = "Rewrite the title tag."
	st.On("GetRun", mock.Anything, "run-1").Return(&model.Run{
		ID:     "run-1",
		URL:    "https://example.com",
		Status: model.RunStatusComplete,
		Result: &model.RunResult{State: state},
	}, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/audits/run-1/report", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "audit-run-1.md")
	assert.Contains(t, w.Body.String(), "# SEO Audit: https://example.com")
	assert.Contains(t, w.Body.String(), "Rewrite the title tag.")
}

func TestRouter_GetReport_NotFinished(t *testing.T) {
	st, _, h, _ := newTestAPI(t)
	st.On("GetRun", mock.Anything, "run-1").
		Return(&model.Run{ID: "run-1", Status: model.RunStatusRunning}, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/audits/run-1/report", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_ListAudits(t *testing.T) {
	st, _, h, _ := newTestAPI(t)
	st.On("ListRuns", mock.Anything, store.RunFilter{Status: model.RunStatusComplete, Limit: 5}).
		Return([]model.Run{{ID: "a", Status: model.RunStatusComplete}, {ID: "b", Status: model.RunStatusComplete}}, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/audits?status=complete&limit=5", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var runs []model.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	assert.Len(t, runs, 2)
}

func TestRouter_ListAudits_BadQuery(t *testing.T) {
	for _, q := range []string{"status=bogus", "limit=0", "limit=abc"} {
		t.Run(q, func(t *testing.T) {
			_, _, h, _ := newTestAPI(t)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/audits?"+q, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	_, _, h, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/audits", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
