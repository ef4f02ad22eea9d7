package engine

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/petrijr/dagrun/pkg/api"
)

// CreateWorkflow turns a definition into a persisted task graph.
//
// The workflow is persisted first (status INITIAL, input stored verbatim),
// then one QUEUED task per step, then the dependency wiring: each step's
// task references its upstream tasks, and each upstream task's consumer is
// set to the downstream task. The consumer edge is single-valued; a
// definition in which two steps name the same upstream step ends up with
// whichever consumer was wired last.
func (e *engineImpl) CreateWorkflow(ctx context.Context, def api.Definition, clientID string, input json.RawMessage) (*api.Workflow, error) {
	if err := validateDefinition(def); err != nil {
		return nil, err
	}

	wf := &api.Workflow{
		ID:       uuid.NewString(),
		ClientID: clientID,
		Status:   api.WorkflowInitial,
		Input:    append(json.RawMessage(nil), input...),
	}

	if err := e.workflows.SaveWorkflow(ctx, wf); err != nil {
		return nil, err
	}

	byStep := make(map[int]*api.Task, len(def.Steps))
	tasks := make([]*api.Task, 0, len(def.Steps))
	for _, step := range def.Steps {
		task := &api.Task{
			ID:          uuid.NewString(),
			ClientID:    clientID,
			WorkflowID:  wf.ID,
			WorkflowSeq: wf.Seq,
			Status:      api.TaskQueued,
			Type:        step.Type,
			StepNumber:  step.Step,
		}
		byStep[step.Step] = task
		tasks = append(tasks, task)
	}

	for _, step := range def.Steps {
		if len(step.DependsOn) == 0 {
			continue
		}

		task := byStep[step.Step]

		deps := append([]int(nil), step.DependsOn...)
		sort.Ints(deps)

		for _, depStep := range deps {
			upstream := byStep[depStep]
			task.DependencyIDs = append(task.DependencyIDs, upstream.ID)
			upstream.ConsumerID = task.ID
		}
	}

	if err := e.tasks.SaveTasks(ctx, tasks); err != nil {
		return nil, err
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].StepNumber < tasks[j].StepNumber
	})
	wf.Tasks = tasks

	e.observer.OnWorkflowCreated(ctx, wf)

	return wf, nil
}
