package dagrun

import (
	"database/sql"

	"github.com/petrijr/dagrun/internal/engine"
	"github.com/petrijr/dagrun/internal/persistence"
	"github.com/petrijr/dagrun/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Engine               = api.Engine
	Workflow             = api.Workflow
	Task                 = api.Task
	Result               = api.Result
	Definition           = api.Definition
	Step                 = api.Step
	StepList             = api.StepList
	Job                  = api.Job
	JobFunc              = api.JobFunc
	ExecutionContext     = api.ExecutionContext
	WorkflowStatus       = api.WorkflowStatus
	TaskStatus           = api.TaskStatus
	StatusSummary        = api.StatusSummary
	ResultsSummary       = api.ResultsSummary
	ValidationError      = api.ValidationError
	ValidationRule       = api.ValidationRule
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
)

// Re-export sentinel errors.

var (
	ErrWorkflowNotFound     = api.ErrWorkflowNotFound
	ErrWorkflowNotCompleted = api.ErrWorkflowNotCompleted
	ErrUnknownJobType       = api.ErrUnknownJobType
)

// Re-export status values for convenience.

const (
	WorkflowInitial    = api.WorkflowInitial
	WorkflowInProgress = api.WorkflowInProgress
	WorkflowCompleted  = api.WorkflowCompleted
	WorkflowFailed     = api.WorkflowFailed

	TaskQueued     = api.TaskQueued
	TaskInProgress = api.TaskInProgress
	TaskCompleted  = api.TaskCompleted
	TaskFailed     = api.TaskFailed
	TaskSkipped    = api.TaskSkipped
)

// Engine constructors
// These wrap the internal/engine package so external callers
// never need to import internal packages.

// NewInMemoryEngine returns an Engine backed entirely by in-memory stores.
func NewInMemoryEngine() Engine {
	return engine.NewInMemoryEngine()
}

// NewInMemoryEngineWithObserver returns an in-memory Engine with the given Observer.
func NewInMemoryEngineWithObserver(obs Observer) Engine {
	mem := persistence.NewInMemoryStore()
	return engine.NewEngineWithConfig(engine.Config{
		Persistence: persistence.Persistence{Workflows: mem, Tasks: mem},
		Observer:    obs,
	})
}

// NewSQLiteEngine returns an Engine persisted in the given SQLite database.
// The caller imports the driver, e.g. modernc.org/sqlite, and opens the DB.
func NewSQLiteEngine(db *sql.DB) (Engine, error) {
	return engine.NewSQLiteEngine(db)
}

// NewSQLiteEngineWithObserver returns a SQLite-backed Engine with the given Observer.
func NewSQLiteEngineWithObserver(db *sql.DB, obs Observer) (Engine, error) {
	store, err := persistence.NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}
	return engine.NewEngineWithConfig(engine.Config{
		Persistence: persistence.Persistence{Workflows: store, Tasks: store},
		Observer:    obs,
	}), nil
}
