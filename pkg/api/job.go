package api

import (
	"context"
	"encoding/json"
)

// ExecutionContext is the per-task input handed to a job: the owning
// workflow's input document plus the success payloads of the task's
// upstream dependencies.
type ExecutionContext struct {
	// WorkflowInput is the input document the workflow was created with.
	WorkflowInput json.RawMessage

	// Dependencies holds the success payloads (Result.Data) of the task's
	// upstream dependencies, ordered by ascending upstream step number.
	// Dependencies without a result (for example skipped tasks) contribute
	// no entry.
	Dependencies []json.RawMessage
}

// Job is the pluggable executable behaviour bound to a task type.
//
// Execute runs one task. The returned value is serialized to JSON and
// stored as the task's success payload; returning nil stores an empty
// object. A returned error marks the task FAILED, records the message in
// the result's error payload, and skips the task's consumer if it has one.
type Job interface {
	Execute(ctx context.Context, task *Task, ec *ExecutionContext) (any, error)
}

// JobFunc adapts a plain function to the Job interface.
type JobFunc func(ctx context.Context, task *Task, ec *ExecutionContext) (any, error)

func (f JobFunc) Execute(ctx context.Context, task *Task, ec *ExecutionContext) (any, error) {
	return f(ctx, task, ec)
}
