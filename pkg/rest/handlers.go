package rest

import (
	"github.com/gofiber/fiber/v2"
)

// healthCheck handles GET /health.
func (s *Server) healthCheck(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "healthy"})
}

// createWorkflow handles POST /api/v1/workflows.
func (s *Server) createWorkflow(c *fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "failed to parse request body: " + err.Error(),
		})
	}

	if req.ClientID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "clientId is required",
		})
	}

	wf, err := s.engine.CreateWorkflow(c.Context(), req.Definition, req.ClientID, req.Input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(CreateWorkflowResponse{
		ID:     wf.ID,
		Status: wf.Status,
		Tasks:  len(wf.Tasks),
	})
}

// workflowStatus handles GET /api/v1/workflows/:id/status.
func (s *Server) workflowStatus(c *fiber.Ctx) error {
	summary, err := s.engine.GetStatus(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// workflowResults handles GET /api/v1/workflows/:id/results.
// Results are only available once the workflow is COMPLETED or FAILED;
// before that the request is rejected with 409.
func (s *Server) workflowResults(c *fiber.Ctx) error {
	results, err := s.engine.GetResults(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(results)
}
