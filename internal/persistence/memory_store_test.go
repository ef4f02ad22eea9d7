package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/petrijr/dagrun/pkg/api"
)

func TestInMemoryStoreAssignsMonotonicSeq(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	a := &api.Workflow{ID: "a", ClientID: "c", Status: api.WorkflowInitial}
	b := &api.Workflow{ID: "b", ClientID: "c", Status: api.WorkflowInitial}

	if err := store.SaveWorkflow(ctx, a); err != nil {
		t.Fatalf("SaveWorkflow failed: %v", err)
	}
	if err := store.SaveWorkflow(ctx, b); err != nil {
		t.Fatalf("SaveWorkflow failed: %v", err)
	}

	if a.Seq == 0 || b.Seq <= a.Seq {
		t.Fatalf("expected increasing sequences, got %d then %d", a.Seq, b.Seq)
	}
}

func TestInMemoryStoreCopiesOnReadAndWrite(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	wf := &api.Workflow{ID: "wf", ClientID: "c", Status: api.WorkflowInitial}
	if err := store.SaveWorkflow(ctx, wf); err != nil {
		t.Fatalf("SaveWorkflow failed: %v", err)
	}

	// Mutating the caller's struct after save must not leak into the store.
	wf.Status = api.WorkflowFailed

	got, err := store.GetWorkflow(ctx, "wf")
	if err != nil {
		t.Fatalf("GetWorkflow failed: %v", err)
	}
	if got.Status != api.WorkflowInitial {
		t.Fatalf("store leaked caller mutation: %s", got.Status)
	}
}

func TestInMemoryStoreClaimOrder(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	wf1 := &api.Workflow{ID: "wf1", ClientID: "c", Status: api.WorkflowInitial}
	wf2 := &api.Workflow{ID: "wf2", ClientID: "c", Status: api.WorkflowInitial}
	_ = store.SaveWorkflow(ctx, wf1)
	_ = store.SaveWorkflow(ctx, wf2)

	tasks := []*api.Task{
		{ID: "t-1-2", WorkflowID: "wf1", WorkflowSeq: wf1.Seq, Status: api.TaskQueued, StepNumber: 2},
		{ID: "t-2-1", WorkflowID: "wf2", WorkflowSeq: wf2.Seq, Status: api.TaskQueued, StepNumber: 1},
		{ID: "t-1-1", WorkflowID: "wf1", WorkflowSeq: wf1.Seq, Status: api.TaskQueued, StepNumber: 1},
	}
	if err := store.SaveTasks(ctx, tasks); err != nil {
		t.Fatalf("SaveTasks failed: %v", err)
	}

	want := []string{"t-1-1", "t-1-2", "t-2-1"}
	for i, expected := range want {
		task, err := store.ClaimNextTask(ctx)
		if err != nil {
			t.Fatalf("ClaimNextTask failed: %v", err)
		}
		if task == nil || task.ID != expected {
			t.Fatalf("claim %d: expected %s, got %+v", i, expected, task)
		}
		task.Status = api.TaskCompleted
		if err := store.UpdateTask(ctx, task); err != nil {
			t.Fatalf("UpdateTask failed: %v", err)
		}
	}

	task, err := store.ClaimNextTask(ctx)
	if err != nil {
		t.Fatalf("ClaimNextTask failed: %v", err)
	}
	if task != nil {
		t.Fatalf("expected empty queue, got %s", task.ID)
	}
}

func TestInMemoryStoreResultsAttach(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	wf := &api.Workflow{ID: "wf", ClientID: "c", Status: api.WorkflowInitial}
	_ = store.SaveWorkflow(ctx, wf)

	task := &api.Task{ID: "t1", WorkflowID: "wf", WorkflowSeq: wf.Seq, Status: api.TaskQueued, StepNumber: 1}
	if err := store.SaveTasks(ctx, []*api.Task{task}); err != nil {
		t.Fatalf("SaveTasks failed: %v", err)
	}

	if err := store.SaveResult(ctx, &api.Result{ID: "r1", TaskID: "t1", Error: "bad"}); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	got, err := store.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Result == nil || got.Result.Error != "bad" {
		t.Fatalf("result not attached: %+v", got.Result)
	}
}

func TestInMemoryStoreNotFoundErrors(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	if _, err := store.GetWorkflow(ctx, "x"); !errors.Is(err, ErrWorkflowNotFound) {
		t.Fatalf("expected ErrWorkflowNotFound, got %v", err)
	}
	if _, err := store.GetTask(ctx, "x"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if err := store.UpdateTask(ctx, &api.Task{ID: "x"}); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}
