package dagrun

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/petrijr/dagrun/pkg/api"
	"github.com/petrijr/dagrun/pkg/scheduler"
)

// LocalRunner bundles an in-memory Engine and a Scheduler to provide a
// simple single-process runner for development, examples, and tests.
//
// Typical usage:
//
//	runner := dagrun.NewLocalRunner(50 * time.Millisecond)
//	_ = runner.Engine.RegisterJob("hello", helloJob)
//
//	runner.Start(ctx)
//	defer runner.Stop()
//
//	wf, _ := runner.Engine.CreateWorkflow(ctx, def, "client", input)
//	_ = runner.WaitForTerminal(ctx, wf.ID, 5*time.Second)
type LocalRunner struct {
	// Engine is the in-memory engine used by this runner.
	Engine Engine

	// Scheduler polls the engine for queued tasks.
	Scheduler *scheduler.Scheduler

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewLocalRunner constructs a LocalRunner with an in-memory engine and the
// given poll interval (scheduler.DefaultPollInterval when zero).
func NewLocalRunner(pollInterval time.Duration) *LocalRunner {
	eng := NewInMemoryEngine()
	sched := scheduler.New(eng, scheduler.Config{PollInterval: pollInterval})

	return &LocalRunner{
		Engine:    eng,
		Scheduler: sched,
	}
}

// Start launches the scheduler loop in a goroutine. Calling Start twice
// without Stop is an error.
func (r *LocalRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return errors.New("dagrun: LocalRunner already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_ = r.Scheduler.Run(ctx)
	}()

	return nil
}

// Stop cancels the scheduler loop and waits for it to exit.
func (r *LocalRunner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	cancel := r.cancel
	r.running = false
	r.cancel = nil
	r.mu.Unlock()

	cancel()
	r.wg.Wait()
}

// WaitForTerminal polls until the workflow reaches COMPLETED or FAILED,
// or the timeout elapses.
func (r *LocalRunner) WaitForTerminal(ctx context.Context, workflowID string, timeout time.Duration) (api.WorkflowStatus, error) {
	deadline := time.Now().Add(timeout)

	for {
		summary, err := r.Engine.GetStatus(ctx, workflowID)
		if err != nil {
			return "", err
		}
		if summary.Status.Terminal() {
			return summary.Status, nil
		}

		if time.Now().After(deadline) {
			return summary.Status, fmt.Errorf("workflow %s still %s after %s", workflowID, summary.Status, timeout)
		}

		select {
		case <-ctx.Done():
			return summary.Status, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}
