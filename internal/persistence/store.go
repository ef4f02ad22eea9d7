package persistence

import (
	"context"
	"errors"

	"github.com/petrijr/dagrun/pkg/api"
)

var (
	// ErrWorkflowNotFound is returned when a workflow record is not found.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrTaskNotFound is returned when a task record is not found.
	ErrTaskNotFound = errors.New("task not found")
)

// WorkflowStore handles storage of workflow aggregates (without tasks).
type WorkflowStore interface {
	// SaveWorkflow persists a new workflow and assigns its creation
	// sequence (Workflow.Seq).
	SaveWorkflow(ctx context.Context, wf *api.Workflow) error

	// UpdateWorkflow persists status and final-result changes.
	UpdateWorkflow(ctx context.Context, wf *api.Workflow) error

	// GetWorkflow returns the workflow record. Tasks are not attached;
	// use TaskStore.ListWorkflowTasks for those.
	GetWorkflow(ctx context.Context, id string) (*api.Workflow, error)
}

// TaskStore handles storage of tasks and their results.
type TaskStore interface {
	// SaveTasks persists a batch of freshly built tasks.
	SaveTasks(ctx context.Context, tasks []*api.Task) error

	// UpdateTask persists status, progress, and consumer changes.
	UpdateTask(ctx context.Context, task *api.Task) error

	// GetTask returns one task, result attached if present.
	GetTask(ctx context.Context, id string) (*api.Task, error)

	// ListWorkflowTasks returns a workflow's tasks ordered by ascending
	// step number, results attached.
	ListWorkflowTasks(ctx context.Context, workflowID string) ([]*api.Task, error)

	// ClaimNextTask returns the next QUEUED task ordered by
	// (workflow creation sequence, step number) ascending, or (nil, nil)
	// when none is eligible.
	//
	// The engine assumes a single scheduler instance; implementations may
	// strengthen this into an atomic claim (status flip or lease) to allow
	// multiple schedulers without changing the signature.
	ClaimNextTask(ctx context.Context) (*api.Task, error)

	// SaveResult persists a task's result, replacing any previous one.
	SaveResult(ctx context.Context, res *api.Result) error
}

// Persistence bundles the stores an engine needs.
type Persistence struct {
	Workflows WorkflowStore
	Tasks     TaskStore
}
