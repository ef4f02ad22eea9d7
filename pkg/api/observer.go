package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from the engine for logging and metrics.
//
// Implementations should be fast and non-blocking; heavy work should be done
// asynchronously so as not to delay task execution.
type Observer interface {
	// OnWorkflowCreated is called once when a workflow and its task graph
	// have been persisted.
	OnWorkflowCreated(ctx context.Context, wf *Workflow)

	// OnTaskStart is called after a task has transitioned to IN_PROGRESS,
	// before its job is invoked.
	OnTaskStart(ctx context.Context, task *Task)

	// OnTaskFinished is called after a task reaches a terminal status, for
	// both successes and failures (err != nil). Skipped consumers do not
	// trigger a callback; they never ran.
	OnTaskFinished(ctx context.Context, task *Task, err error, duration time.Duration)

	// OnWorkflowStatusChanged is called whenever the aggregate recompute
	// moves a workflow to a different status.
	OnWorkflowStatusChanged(ctx context.Context, wf *Workflow, from, to WorkflowStatus)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnWorkflowCreated(ctx context.Context, wf *Workflow) {}
func (NoopObserver) OnTaskStart(ctx context.Context, task *Task)         {}
func (NoopObserver) OnTaskFinished(ctx context.Context, task *Task, err error, d time.Duration) {
}
func (NoopObserver) OnWorkflowStatusChanged(ctx context.Context, wf *Workflow, from, to WorkflowStatus) {
}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnWorkflowCreated(ctx context.Context, wf *Workflow) {
	for _, o := range c.observers {
		o.OnWorkflowCreated(ctx, wf)
	}
}

func (c *CompositeObserver) OnTaskStart(ctx context.Context, task *Task) {
	for _, o := range c.observers {
		o.OnTaskStart(ctx, task)
	}
}

func (c *CompositeObserver) OnTaskFinished(ctx context.Context, task *Task, err error, d time.Duration) {
	for _, o := range c.observers {
		o.OnTaskFinished(ctx, task, err, d)
	}
}

func (c *CompositeObserver) OnWorkflowStatusChanged(ctx context.Context, wf *Workflow, from, to WorkflowStatus) {
	for _, o := range c.observers {
		o.OnWorkflowStatusChanged(ctx, wf, from, to)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs workflow / task lifecycle
// events using the provided slog.Logger. If logger is nil, slog.Default()
// is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnWorkflowCreated(ctx context.Context, wf *Workflow) {
	o.Logger.InfoContext(ctx, "workflow_created",
		slog.String("workflow_id", wf.ID),
		slog.String("client_id", wf.ClientID),
		slog.Int("tasks", len(wf.Tasks)),
	)
}

func (o *LoggingObserver) OnTaskStart(ctx context.Context, task *Task) {
	o.Logger.DebugContext(ctx, "task_start",
		slog.String("workflow_id", task.WorkflowID),
		slog.String("task_id", task.ID),
		slog.String("task_type", task.Type),
		slog.Int("step", task.StepNumber),
	)
}

func (o *LoggingObserver) OnTaskFinished(ctx context.Context, task *Task, err error, d time.Duration) {
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelError
	}
	o.Logger.Log(ctx, level, "task_finished",
		slog.String("workflow_id", task.WorkflowID),
		slog.String("task_id", task.ID),
		slog.String("task_type", task.Type),
		slog.Int("step", task.StepNumber),
		slog.String("status", string(task.Status)),
		slog.Duration("duration", d),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnWorkflowStatusChanged(ctx context.Context, wf *Workflow, from, to WorkflowStatus) {
	o.Logger.InfoContext(ctx, "workflow_status_changed",
		slog.String("workflow_id", wf.ID),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
}

// BasicMetrics collects simple counters and aggregate task durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	workflowsCreated   atomic.Int64
	workflowsCompleted atomic.Int64
	workflowsFailed    atomic.Int64
	tasksCompleted     atomic.Int64
	tasksFailed        atomic.Int64
	totalTaskDuration  atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	WorkflowsCreated   int64
	WorkflowsCompleted int64
	WorkflowsFailed    int64

	TasksCompleted  int64
	TasksFailed     int64
	AvgTaskDuration time.Duration
}

func (m *BasicMetrics) OnWorkflowCreated(ctx context.Context, wf *Workflow) {
	m.workflowsCreated.Add(1)
}

func (m *BasicMetrics) OnTaskFinished(ctx context.Context, task *Task, err error, d time.Duration) {
	if err != nil {
		m.tasksFailed.Add(1)
		return
	}
	// Only count successful tasks for average duration.
	m.tasksCompleted.Add(1)
	m.totalTaskDuration.Add(d.Nanoseconds())
}

func (m *BasicMetrics) OnWorkflowStatusChanged(ctx context.Context, wf *Workflow, from, to WorkflowStatus) {
	switch to {
	case WorkflowCompleted:
		m.workflowsCompleted.Add(1)
	case WorkflowFailed:
		m.workflowsFailed.Add(1)
	}
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	completed := m.tasksCompleted.Load()
	totalNs := m.totalTaskDuration.Load()

	var avg time.Duration
	if completed > 0 {
		avg = time.Duration(totalNs / completed)
	}

	return BasicMetricsSnapshot{
		WorkflowsCreated:   m.workflowsCreated.Load(),
		WorkflowsCompleted: m.workflowsCompleted.Load(),
		WorkflowsFailed:    m.workflowsFailed.Load(),
		TasksCompleted:     completed,
		TasksFailed:        m.tasksFailed.Load(),
		AvgTaskDuration:    avg,
	}
}
