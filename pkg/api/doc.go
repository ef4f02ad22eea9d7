// Package api defines the public types of the dagrun engine: workflows,
// tasks, results, definitions, the Job contract, the Engine interface, and
// the Observer hooks.
//
// Most users import the root dagrun package, which re-exports everything
// here; api exists so that lower-level packages (scheduler, rest, custom
// stores) can share types without importing the facade.
//
// # Data model
//
// A Workflow owns an ordered set of Tasks built from a Definition. Each
// Task carries a job type, a step number (positive, unique within the
// workflow), a multi-valued set of upstream dependencies and at most one
// downstream consumer. A Task's single execution attempt produces exactly
// one Result holding either a success payload or an error message.
//
// The workflow's status is always a pure function of its tasks' statuses:
//
//   - FAILED if any task failed
//   - COMPLETED if every task is completed or skipped
//   - IN_PROGRESS otherwise
package api
