// Package dagrun turns a declarative, ordered list of steps into a
// persisted dependency graph of tasks and executes that graph to
// completion, one task at a time.
//
// # Core Concepts
//
//  1. Definition: a name plus steps, each with a job type, a step number,
//     and optional upstream step numbers.
//  2. Engine: validates definitions, builds and persists the task graph,
//     runs tasks, and derives the workflow's aggregate status.
//  3. Job: the pluggable behaviour bound to a task type.
//  4. Scheduler: a single polling loop that drains queued tasks in
//     (workflow creation, step number) order.
//  5. LocalRunner: engine plus scheduler, in memory, for development.
//
// # Quick start
//
//	runner := dagrun.NewLocalRunner(50 * time.Millisecond)
//	_ = jobs.RegisterAll(runner.Engine, 0)
//
//	def := dagrun.NewDefinition("geo-report").
//	    Step("containment", 1).
//	    Step("area", 2).
//	    Step("summary", 3, 1, 2).
//	    Build()
//
//	runner.Start(ctx)
//	defer runner.Stop()
//
//	wf, err := runner.Engine.CreateWorkflow(ctx, def, "client-1", input)
//	status, err := runner.WaitForTerminal(ctx, wf.ID, 5*time.Second)
//
// # Execution semantics
//
// Tasks move QUEUED → IN_PROGRESS → COMPLETED or FAILED. When a task
// fails, its error is recorded in a Result and its consumer (the single
// downstream task depending on it, if any) is marked SKIPPED without ever
// running. The workflow's status is recomputed after every task from the
// full task set: FAILED if any task failed, COMPLETED once every task is
// completed or skipped, IN_PROGRESS otherwise. The aggregated report text
// is regenerated on every recompute, so partial progress is always
// inspectable.
//
// Durable deployments use the SQLite-backed engine; the in-memory engine
// serves tests and examples. The cmd/dagrun binary wires the SQLite
// engine, the scheduler, and a small HTTP API into a single process.
package dagrun
