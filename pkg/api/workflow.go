package api

import (
	"context"
	"encoding/json"
)

// WorkflowStatus represents the lifecycle state of a workflow.
// It is always derived from the statuses of the workflow's tasks;
// business logic never sets it directly after creation.
type WorkflowStatus string

const (
	WorkflowInitial    WorkflowStatus = "INITIAL"
	WorkflowInProgress WorkflowStatus = "IN_PROGRESS"
	WorkflowCompleted  WorkflowStatus = "COMPLETED"
	WorkflowFailed     WorkflowStatus = "FAILED"
)

// Terminal reports whether the status is final (COMPLETED or FAILED).
func (s WorkflowStatus) Terminal() bool {
	return s == WorkflowCompleted || s == WorkflowFailed
}

// TaskStatus represents the lifecycle state of a single task.
type TaskStatus string

const (
	TaskQueued     TaskStatus = "QUEUED"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskFailed     TaskStatus = "FAILED"
	TaskSkipped    TaskStatus = "SKIPPED"
)

// Workflow is the top-level unit of work: an ordered, dependency-linked
// set of tasks with one aggregate status and one final report.
type Workflow struct {
	ID       string
	ClientID string
	Status   WorkflowStatus

	// Input is the original input document provided at creation.
	// It is stored serialized verbatim and is read-only afterwards.
	Input json.RawMessage

	// FinalResult is the aggregated report text. It is regenerated after
	// every task execution, not only at completion. Empty until the first
	// recompute.
	FinalResult string

	// Seq is a monotonically increasing creation sequence assigned by the
	// store. The scheduler orders work by (Seq, StepNumber) so that
	// cross-workflow ordering follows creation time rather than the
	// opaque workflow ID.
	Seq int64

	// Tasks holds the workflow's tasks ordered by ascending step number.
	// Populated when the workflow is loaded through the engine.
	Tasks []*Task
}

// Task is one executable step of a workflow: a job type, a position
// (step number, unique within the workflow), optional upstream/downstream
// links, and its own status.
type Task struct {
	ID          string
	ClientID    string
	WorkflowID  string
	WorkflowSeq int64
	Status      TaskStatus

	// Type selects the job implementation via the registry.
	Type string

	// StepNumber is the task's position within its workflow. It is a
	// positive integer, unique per workflow, and defines intra-workflow
	// execution order.
	StepNumber int

	// Progress is a human-readable note set while the task is running
	// and cleared once it reaches a terminal status.
	Progress string

	// Result is the outcome of the task's single execution attempt,
	// nil until the task has run.
	Result *Result

	// ConsumerID references the single downstream task depending on this
	// task, if any. The producer side of a dependency edge is
	// single-valued; wiring two consumers to one producer is undefined
	// (last write wins).
	ConsumerID string

	// DependencyIDs references the upstream tasks this task depends on,
	// ordered by ascending upstream step number. Fan-in is unrestricted.
	DependencyIDs []string
}

// Result is the outcome of one task execution attempt. A fresh Result is
// created on every attempt; since tasks are never retried there is at most
// one per task.
type Result struct {
	ID     string
	TaskID string

	// Data is the job's success payload, serialized. Nil on failure.
	Data json.RawMessage

	// Error is the failure message. Empty on success.
	Error string
}

// StatusSummary is the answer to a get-status boundary call.
type StatusSummary struct {
	Status         WorkflowStatus `json:"status"`
	CompletedTasks int            `json:"completedTasks"`
	TotalTasks     int            `json:"totalTasks"`
}

// ResultsSummary is the answer to a get-results boundary call. It is only
// available once the workflow's status is terminal.
type ResultsSummary struct {
	Status      WorkflowStatus `json:"status"`
	FinalResult string         `json:"finalResult"`
}

// Engine is the high-level engine API exposed to collaborators such as the
// HTTP layer and the scheduler.
type Engine interface {
	// RegisterJob binds a job implementation to a task type. Registering
	// the same type twice is an error.
	RegisterJob(jobType string, job Job) error

	// CreateWorkflow validates the definition, persists the workflow and
	// its task graph, and returns the workflow with tasks attached.
	// Nothing is persisted if validation fails.
	CreateWorkflow(ctx context.Context, def Definition, clientID string, input json.RawMessage) (*Workflow, error)

	// GetWorkflow looks up a workflow by ID, tasks attached.
	GetWorkflow(ctx context.Context, id string) (*Workflow, error)

	// GetStatus returns the workflow's aggregate status together with its
	// completed/total task counts.
	GetStatus(ctx context.Context, id string) (StatusSummary, error)

	// GetResults returns the final report for a terminal workflow.
	// For a workflow that is not yet COMPLETED or FAILED it returns
	// ErrWorkflowNotCompleted.
	GetResults(ctx context.Context, id string) (ResultsSummary, error)

	// ProcessNextTask claims the next queued task and runs it to a
	// terminal status. It returns (false, nil) when no task was eligible.
	// When the claimed task's job fails, the error is returned after all
	// housekeeping (result, skip propagation, aggregate recompute) has
	// been persisted.
	ProcessNextTask(ctx context.Context) (bool, error)
}
