package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/petrijr/dagrun/pkg/api"
)

// InMemoryStore is a simple, goroutine-safe implementation of
// WorkflowStore and TaskStore backed by maps. It is intended for tests
// and the LocalRunner; nothing survives a restart.
type InMemoryStore struct {
	mu        sync.RWMutex
	seq       int64
	workflows map[string]*api.Workflow
	tasks     map[string]*api.Task
	results   map[string]*api.Result // keyed by task ID
}

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		workflows: make(map[string]*api.Workflow),
		tasks:     make(map[string]*api.Task),
		results:   make(map[string]*api.Result),
	}
}

// Ensure InMemoryStore implements the interfaces.
var _ WorkflowStore = (*InMemoryStore)(nil)

var _ TaskStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) SaveWorkflow(ctx context.Context, wf *api.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	wf.Seq = s.seq

	copied := *wf
	copied.Tasks = nil
	s.workflows[wf.ID] = &copied
	return nil
}

func (s *InMemoryStore) UpdateWorkflow(ctx context.Context, wf *api.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workflows[wf.ID]; !ok {
		return ErrWorkflowNotFound
	}

	copied := *wf
	copied.Tasks = nil
	s.workflows[wf.ID] = &copied
	return nil
}

func (s *InMemoryStore) GetWorkflow(ctx context.Context, id string) (*api.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wf, ok := s.workflows[id]
	if !ok {
		return nil, ErrWorkflowNotFound
	}

	copied := *wf
	return &copied, nil
}

func (s *InMemoryStore) SaveTasks(ctx context.Context, tasks []*api.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range tasks {
		copied := *t
		copied.Result = nil
		s.tasks[t.ID] = &copied
	}
	return nil
}

func (s *InMemoryStore) UpdateTask(ctx context.Context, task *api.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return ErrTaskNotFound
	}

	copied := *task
	copied.Result = nil
	s.tasks[task.ID] = &copied
	return nil
}

func (s *InMemoryStore) GetTask(ctx context.Context, id string) (*api.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}

	return s.taskWithResult(task), nil
}

func (s *InMemoryStore) ListWorkflowTasks(ctx context.Context, workflowID string) ([]*api.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*api.Task
	for _, t := range s.tasks {
		if t.WorkflowID == workflowID {
			tasks = append(tasks, s.taskWithResult(t))
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].StepNumber < tasks[j].StepNumber
	})

	return tasks, nil
}

func (s *InMemoryStore) ClaimNextTask(ctx context.Context) (*api.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var next *api.Task
	for _, t := range s.tasks {
		if t.Status != api.TaskQueued {
			continue
		}
		if next == nil ||
			t.WorkflowSeq < next.WorkflowSeq ||
			(t.WorkflowSeq == next.WorkflowSeq && t.StepNumber < next.StepNumber) {
			next = t
		}
	}

	if next == nil {
		return nil, nil
	}
	return s.taskWithResult(next), nil
}

func (s *InMemoryStore) SaveResult(ctx context.Context, res *api.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *res
	s.results[res.TaskID] = &copied
	return nil
}

// taskWithResult returns a copy of the task with its result attached.
// Callers must hold at least the read lock.
func (s *InMemoryStore) taskWithResult(t *api.Task) *api.Task {
	copied := *t
	if res, ok := s.results[t.ID]; ok {
		r := *res
		copied.Result = &r
	}
	return &copied
}
