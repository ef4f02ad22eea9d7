package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrijr/dagrun/internal/engine"
	"github.com/petrijr/dagrun/pkg/api"
	"github.com/petrijr/dagrun/pkg/jobs"
	"github.com/petrijr/dagrun/pkg/scheduler"
)

func newTestServer(t *testing.T) (*Server, api.Engine) {
	t.Helper()

	eng := engine.NewInMemoryEngine()
	require.NoError(t, jobs.RegisterAll(eng, 0))

	return NewServer(eng, nil), eng
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *http.Response {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NoError(t, resp.Body.Close())
	return out
}

func geoDefinition() api.Definition {
	return api.Definition{
		Name: "geo-report",
		Steps: []api.Step{
			{Type: jobs.TypeContainment, Step: 1},
			{Type: jobs.TypeArea, Step: 2},
			{Type: jobs.TypeSummary, Step: 3, DependsOn: api.StepList{1, 2}},
		},
	}
}

const geoInput = `{
	"point": [0.5, 0.5],
	"regions": [{"name": "unit-square", "polygon": [[0,0],[1,0],[1,1],[0,1]]}]
}`

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	resp := doJSON(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[HealthResponse](t, resp)
	assert.Equal(t, "healthy", body.Status)
}

func TestCreateWorkflow(t *testing.T) {
	s, _ := newTestServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/workflows", CreateWorkflowRequest{
		Definition: geoDefinition(),
		ClientID:   "client-1",
		Input:      json.RawMessage(geoInput),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody[CreateWorkflowResponse](t, resp)
	assert.NotEmpty(t, body.ID)
	assert.Equal(t, api.WorkflowInitial, body.Status)
	assert.Equal(t, 3, body.Tasks)
}

func TestCreateWorkflowRejectsInvalidDefinition(t *testing.T) {
	s, _ := newTestServer(t)

	def := geoDefinition()
	def.Steps[2].DependsOn = api.StepList{3} // self-dependency

	resp := doJSON(t, s, http.MethodPost, "/api/v1/workflows", CreateWorkflowRequest{
		Definition: def,
		ClientID:   "client-1",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, string(api.RuleDependencyOrder), body.Error)
}

func TestCreateWorkflowRejectsMissingClientID(t *testing.T) {
	s, _ := newTestServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/workflows", CreateWorkflowRequest{
		Definition: geoDefinition(),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "invalid_request", body.Error)
}

func TestCreateWorkflowRejectsMalformedBody(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workflows", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	created := decodeBody[CreateWorkflowResponse](t, doJSON(t, s, http.MethodPost, "/api/v1/workflows", CreateWorkflowRequest{
		Definition: geoDefinition(),
		ClientID:   "client-1",
		Input:      json.RawMessage(geoInput),
	}))

	resp := doJSON(t, s, http.MethodGet, "/api/v1/workflows/"+created.ID+"/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	status := decodeBody[api.StatusSummary](t, resp)
	assert.Equal(t, api.WorkflowInitial, status.Status)
	assert.Equal(t, 0, status.CompletedTasks)
	assert.Equal(t, 3, status.TotalTasks)
}

func TestStatusEndpointUnknownWorkflow(t *testing.T) {
	s, _ := newTestServer(t)

	resp := doJSON(t, s, http.MethodGet, "/api/v1/workflows/nope/status", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "workflow_not_found", body.Error)
}

func TestResultsEndpointGating(t *testing.T) {
	s, eng := newTestServer(t)

	created := decodeBody[CreateWorkflowResponse](t, doJSON(t, s, http.MethodPost, "/api/v1/workflows", CreateWorkflowRequest{
		Definition: geoDefinition(),
		ClientID:   "client-1",
		Input:      json.RawMessage(geoInput),
	}))

	// Before any task runs: 409.
	resp := doJSON(t, s, http.MethodGet, "/api/v1/workflows/"+created.ID+"/results", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "workflow_not_completed", body.Error)

	// Drain the queue, then results become available.
	sched := scheduler.New(eng, scheduler.Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, sched.Drain(context.Background()))

	resp = doJSON(t, s, http.MethodGet, "/api/v1/workflows/"+created.ID+"/results", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	results := decodeBody[api.ResultsSummary](t, resp)
	assert.Equal(t, api.WorkflowCompleted, results.Status)
	assert.Contains(t, results.FinalResult, "unit-square")
}

func TestResultsEndpointUnknownWorkflow(t *testing.T) {
	s, _ := newTestServer(t)

	resp := doJSON(t, s, http.MethodGet, "/api/v1/workflows/nope/results", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
