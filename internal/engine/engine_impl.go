package engine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/petrijr/dagrun/internal/persistence"
	"github.com/petrijr/dagrun/pkg/api"
)

// engineImpl is a single-process engine implementation. It assumes one
// writer: exactly one task executes at any instant, driven by one
// scheduler instance.
type engineImpl struct {
	workflows persistence.WorkflowStore
	tasks     persistence.TaskStore
	registry  *jobRegistry
	observer  api.Observer
}

// Config describes how to construct an engineImpl.
// Only used inside this package; external callers use the helper functions.
type Config struct {
	Persistence persistence.Persistence
	Observer    api.Observer
}

// NewInMemoryEngine returns an Engine backed entirely by in-memory stores.
func NewInMemoryEngine() api.Engine {
	mem := persistence.NewInMemoryStore()
	return NewEngine(persistence.Persistence{
		Workflows: mem,
		Tasks:     mem,
	})
}

// NewSQLiteEngine returns an Engine that persists workflows, tasks, and
// results in the given SQLite database.
func NewSQLiteEngine(db *sql.DB) (api.Engine, error) {
	store, err := persistence.NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}

	return NewEngine(persistence.Persistence{
		Workflows: store,
		Tasks:     store,
	}), nil
}

// NewEngineWithConfig creates a new Engine using the given configuration.
func NewEngineWithConfig(cfg Config) api.Engine {
	obs := cfg.Observer
	if obs == nil {
		obs = api.NoopObserver{}
	}
	return &engineImpl{
		workflows: cfg.Persistence.Workflows,
		tasks:     cfg.Persistence.Tasks,
		registry:  newJobRegistry(),
		observer:  obs,
	}
}

// NewEngine returns an Engine backed by the given persistence.
func NewEngine(p persistence.Persistence) api.Engine {
	return NewEngineWithConfig(Config{
		Persistence: p,
	})
}

func (e *engineImpl) RegisterJob(jobType string, job api.Job) error {
	return e.registry.Register(jobType, job)
}

func (e *engineImpl) GetWorkflow(ctx context.Context, id string) (*api.Workflow, error) {
	wf, err := e.workflows.GetWorkflow(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrWorkflowNotFound) {
			return nil, api.ErrWorkflowNotFound
		}
		return nil, err
	}

	tasks, err := e.tasks.ListWorkflowTasks(ctx, id)
	if err != nil {
		return nil, err
	}
	wf.Tasks = tasks

	return wf, nil
}

func (e *engineImpl) GetStatus(ctx context.Context, id string) (api.StatusSummary, error) {
	wf, err := e.GetWorkflow(ctx, id)
	if err != nil {
		return api.StatusSummary{}, err
	}

	completed := 0
	for _, t := range wf.Tasks {
		if t.Status == api.TaskCompleted {
			completed++
		}
	}

	return api.StatusSummary{
		Status:         wf.Status,
		CompletedTasks: completed,
		TotalTasks:     len(wf.Tasks),
	}, nil
}

func (e *engineImpl) GetResults(ctx context.Context, id string) (api.ResultsSummary, error) {
	wf, err := e.workflows.GetWorkflow(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrWorkflowNotFound) {
			return api.ResultsSummary{}, api.ErrWorkflowNotFound
		}
		return api.ResultsSummary{}, err
	}

	if !wf.Status.Terminal() {
		return api.ResultsSummary{}, api.ErrWorkflowNotCompleted
	}

	return api.ResultsSummary{
		Status:      wf.Status,
		FinalResult: wf.FinalResult,
	}, nil
}
