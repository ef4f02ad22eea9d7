package rest

import (
	"encoding/json"

	"github.com/petrijr/dagrun/pkg/api"
)

// CreateWorkflowRequest is the body of POST /api/v1/workflows.
type CreateWorkflowRequest struct {
	Definition api.Definition  `json:"definition"`
	ClientID   string          `json:"clientId"`
	Input      json.RawMessage `json:"input"`
}

// CreateWorkflowResponse is returned on successful workflow creation.
type CreateWorkflowResponse struct {
	ID     string             `json:"id"`
	Status api.WorkflowStatus `json:"status"`
	Tasks  int                `json:"tasks"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
