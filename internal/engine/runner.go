package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/petrijr/dagrun/pkg/api"
)

// emptyResult is stored as the success payload of a job that returns nil.
var emptyResult = json.RawMessage(`{}`)

func (e *engineImpl) ProcessNextTask(ctx context.Context) (bool, error) {
	task, err := e.tasks.ClaimNextTask(ctx)
	if err != nil {
		return false, err
	}
	if task == nil {
		return false, nil
	}

	return true, e.runTask(ctx, task)
}

// runTask executes exactly one task:
//
//  1. QUEUED -> IN_PROGRESS with a progress note, persisted.
//  2. Resolve the job, build the execution context, invoke the job. Job
//     resolution happens inside the same failure scope as execution: an
//     unknown task type is recorded as a task failure, it never strands
//     the task in IN_PROGRESS.
//  3. On success the returned value is serialized into a fresh result; on
//     failure the error message is recorded and the task's consumer, if
//     any, is skipped.
//  4. Persist result, then task, then consumer, bounding the window of
//     inconsistency if the process dies mid-protocol.
//  5. Recompute the workflow aggregate and regenerate its report.
//
// The job's error, if any, is returned after all housekeeping.
func (e *engineImpl) runTask(ctx context.Context, task *api.Task) error {
	task.Status = api.TaskInProgress
	task.Progress = "executing " + task.Type
	if err := e.tasks.UpdateTask(ctx, task); err != nil {
		return err
	}

	e.observer.OnTaskStart(ctx, task)
	started := time.Now()

	out, execErr := e.executeJob(ctx, task)

	result := &api.Result{
		ID:     uuid.NewString(),
		TaskID: task.ID,
	}

	if execErr != nil {
		result.Error = execErr.Error()
		task.Status = api.TaskFailed
	} else {
		data, err := marshalResult(out)
		if err != nil {
			// An unserializable return value fails the task like any
			// other job error.
			execErr = err
			result.Error = err.Error()
			task.Status = api.TaskFailed
		} else {
			result.Data = data
			task.Status = api.TaskCompleted
		}
	}

	task.Progress = ""
	task.Result = result

	var consumer *api.Task
	if task.Status == api.TaskFailed && task.ConsumerID != "" {
		c, err := e.tasks.GetTask(ctx, task.ConsumerID)
		if err != nil {
			return err
		}
		if c.Status == api.TaskQueued {
			c.Status = api.TaskSkipped
			consumer = c
		}
	}

	if err := e.tasks.SaveResult(ctx, result); err != nil {
		return err
	}
	if err := e.tasks.UpdateTask(ctx, task); err != nil {
		return err
	}
	if consumer != nil {
		if err := e.tasks.UpdateTask(ctx, consumer); err != nil {
			return err
		}
	}

	e.observer.OnTaskFinished(ctx, task, execErr, time.Since(started))

	if err := e.recomputeWorkflow(ctx, task.WorkflowID); err != nil {
		return err
	}

	return execErr
}

// executeJob resolves the task's job and runs it with a freshly built
// execution context. Resolution failures are execution failures.
func (e *engineImpl) executeJob(ctx context.Context, task *api.Task) (any, error) {
	job, err := e.registry.Resolve(task.Type)
	if err != nil {
		return nil, err
	}

	ec, err := e.buildExecutionContext(ctx, task)
	if err != nil {
		return nil, err
	}

	return job.Execute(ctx, task, ec)
}

// buildExecutionContext assembles the per-task job input: the owning
// workflow's input document plus the success payloads of the task's
// upstream dependencies, ordered by ascending upstream step number.
// Dependencies without a success payload (skipped, or failed upstream)
// contribute nothing.
func (e *engineImpl) buildExecutionContext(ctx context.Context, task *api.Task) (*api.ExecutionContext, error) {
	wf, err := e.workflows.GetWorkflow(ctx, task.WorkflowID)
	if err != nil {
		return nil, err
	}

	ec := &api.ExecutionContext{
		WorkflowInput: wf.Input,
	}

	if len(task.DependencyIDs) == 0 {
		return ec, nil
	}

	deps := make([]*api.Task, 0, len(task.DependencyIDs))
	for _, id := range task.DependencyIDs {
		dep, err := e.tasks.GetTask(ctx, id)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}

	sort.Slice(deps, func(i, j int) bool {
		return deps[i].StepNumber < deps[j].StepNumber
	})

	for _, dep := range deps {
		if dep.Result != nil && dep.Result.Data != nil {
			ec.Dependencies = append(ec.Dependencies, dep.Result.Data)
		}
	}

	return ec, nil
}

// recomputeWorkflow rereads the workflow's tasks, derives the aggregate
// status, regenerates the report, and persists the workflow. It runs after
// every task execution, not only at completion, and is idempotent for an
// unchanged task-status set.
func (e *engineImpl) recomputeWorkflow(ctx context.Context, workflowID string) error {
	wf, err := e.workflows.GetWorkflow(ctx, workflowID)
	if err != nil {
		return err
	}

	tasks, err := e.tasks.ListWorkflowTasks(ctx, workflowID)
	if err != nil {
		return err
	}

	from := wf.Status
	wf.Status = deriveWorkflowStatus(tasks)
	wf.FinalResult = buildReport(wf, tasks)

	if err := e.workflows.UpdateWorkflow(ctx, wf); err != nil {
		return err
	}

	if wf.Status != from {
		e.observer.OnWorkflowStatusChanged(ctx, wf, from, wf.Status)
	}

	return nil
}

// deriveWorkflowStatus computes the aggregate status as a pure function of
// the task statuses: FAILED if any task failed; COMPLETED if every task is
// completed or skipped; IN_PROGRESS otherwise.
func deriveWorkflowStatus(tasks []*api.Task) api.WorkflowStatus {
	done := true
	for _, t := range tasks {
		switch t.Status {
		case api.TaskFailed:
			return api.WorkflowFailed
		case api.TaskCompleted, api.TaskSkipped:
		default:
			done = false
		}
	}

	if done && len(tasks) > 0 {
		return api.WorkflowCompleted
	}
	return api.WorkflowInProgress
}

// buildReport renders the aggregated report text. Every task appears with
// its id, type, status, success payload, and error payload; absent payloads
// are marked explicitly.
func buildReport(wf *api.Workflow, tasks []*api.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "workflow %s (%s)\n", wf.ID, deriveWorkflowStatus(tasks))

	for _, t := range tasks {
		data := "<none>"
		errMsg := "<none>"
		if t.Result != nil {
			if t.Result.Data != nil {
				data = string(t.Result.Data)
			}
			if t.Result.Error != "" {
				errMsg = t.Result.Error
			}
		}
		fmt.Fprintf(&b, "step %d task %s [%s] %s data=%s error=%s\n",
			t.StepNumber, t.ID, t.Type, t.Status, data, errMsg)
	}

	return b.String()
}

// marshalResult serializes a job's return value. nil becomes an empty
// object so a successful result always has a payload.
func marshalResult(out any) (json.RawMessage, error) {
	if out == nil {
		return append(json.RawMessage(nil), emptyResult...), nil
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("serialize job result: %w", err)
	}
	return data, nil
}
