package engine

import (
	"fmt"
	"sync"

	"github.com/petrijr/dagrun/pkg/api"
)

// jobRegistry maps task-type identifiers to job implementations.
type jobRegistry struct {
	mu     sync.RWMutex
	byType map[string]api.Job
}

func newJobRegistry() *jobRegistry {
	return &jobRegistry{
		byType: make(map[string]api.Job),
	}
}

func (r *jobRegistry) Register(jobType string, job api.Job) error {
	if jobType == "" {
		return fmt.Errorf("job type is required")
	}
	if job == nil {
		return fmt.Errorf("job %q is nil", jobType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byType[jobType]; exists {
		return fmt.Errorf("job type %q already registered", jobType)
	}

	r.byType[jobType] = job
	return nil
}

func (r *jobRegistry) Resolve(jobType string) (api.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.byType[jobType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", api.ErrUnknownJobType, jobType)
	}

	return job, nil
}
