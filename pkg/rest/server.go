// Package rest exposes the engine's boundary operations over HTTP: create
// a workflow, read its status, read its results. It is a thin CRUD wrapper;
// all semantics live in the engine.
package rest

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/petrijr/dagrun/pkg/api"
)

// Config holds the configuration for the REST server.
type Config struct {
	// Address is the address to listen on (e.g., ":8080").
	Address string `yaml:"address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DefaultConfig returns a default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:      ":8080",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server serves the engine's boundary operations.
type Server struct {
	app    *fiber.App
	engine api.Engine
	config *Config
}

// NewServer creates a new REST server around the given engine.
func NewServer(engine api.Engine, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		ErrorHandler: errorHandler,
		AppName:      "dagrun",
	})
	app.Use(recover.New())

	s := &Server{
		app:    app,
		engine: engine,
		config: config,
	}
	s.routes()

	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.healthCheck)

	v1 := s.app.Group("/api/v1")
	v1.Post("/workflows", s.createWorkflow)
	v1.Get("/workflows/:id/status", s.workflowStatus)
	v1.Get("/workflows/:id/results", s.workflowResults)
}

// Listen blocks serving HTTP until Shutdown is called.
func (s *Server) Listen() error {
	return s.app.Listen(s.config.Address)
}

// Shutdown gracefully shuts the server down.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// errorHandler maps domain errors onto HTTP statuses.
func errorHandler(c *fiber.Ctx, err error) error {
	if v, ok := api.IsValidationError(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   string(v.Rule),
			Message: v.Message,
		})
	}

	switch {
	case errors.Is(err, api.ErrWorkflowNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "workflow_not_found",
			Message: err.Error(),
		})
	case errors.Is(err, api.ErrWorkflowNotCompleted):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "workflow_not_completed",
			Message: err.Error(),
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{
			Error:   "http_error",
			Message: fe.Message,
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	})
}
