package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/petrijr/dagrun/pkg/api"
)

// DefaultPollInterval is used when Config.PollInterval is zero.
const DefaultPollInterval = 500 * time.Millisecond

// Config controls a Scheduler.
type Config struct {
	// PollInterval is how long the scheduler sleeps between poll cycles.
	PollInterval time.Duration

	// Logger receives task execution errors. slog.Default() when nil.
	Logger *slog.Logger
}

// Scheduler drives the engine: a single-threaded cooperative loop that
// repeatedly claims the next queued task, runs it, and sleeps a fixed
// interval. Task ordering is (workflow creation sequence, step number)
// ascending, so within one workflow a task's upstream steps are always
// drained first.
//
// Errors from a single task are logged and the loop continues; one bad
// task never halts the system. Exactly one Scheduler instance may run
// against a store: there is no claim locking.
type Scheduler struct {
	engine   api.Engine
	interval time.Duration
	logger   *slog.Logger
}

// New creates a Scheduler for the given engine.
func New(engine api.Engine, cfg Config) *Scheduler {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		engine:   engine,
		interval: interval,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled. It returns ctx.Err on cancellation and
// never returns for any other reason.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		processed, err := s.engine.ProcessNextTask(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			// Failed tasks surface here after their failure has been
			// recorded; log and keep polling.
			s.logger.Error("task execution failed",
				slog.Any("error", err),
			)
		}
		_ = processed

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.interval):
		}
	}
}

// ProcessOne claims and runs at most one task, without sleeping. It is the
// loop body of Run, exposed for tests and callers that drive polling
// themselves. It returns whether a task was processed and the task's
// execution error, if any.
func (s *Scheduler) ProcessOne(ctx context.Context) (bool, error) {
	return s.engine.ProcessNextTask(ctx)
}

// Drain runs tasks back to back until the queue is empty or ctx is
// cancelled. Task execution errors do not stop the drain; the first
// store-level error does. Intended for tests and batch-style usage.
func (s *Scheduler) Drain(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		processed, err := s.engine.ProcessNextTask(ctx)
		if err != nil && !processed {
			return err
		}
		if !processed {
			return nil
		}
	}
}
