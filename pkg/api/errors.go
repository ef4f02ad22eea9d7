package api

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkflowNotFound is returned when a workflow ID does not exist.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrWorkflowNotCompleted is returned by GetResults while the workflow
	// is not yet in a terminal status.
	ErrWorkflowNotCompleted = errors.New("workflow not yet completed")

	// ErrUnknownJobType is returned when a task's type has no registered
	// job. During task execution it is handled like any other job failure:
	// the task is marked FAILED and the message recorded in its result.
	ErrUnknownJobType = errors.New("unknown job type")
)

// ValidationRule identifies which structural rule a definition violated.
type ValidationRule string

const (
	// RuleTaskTypeRequired: every step must carry a non-empty task type.
	RuleTaskTypeRequired ValidationRule = "task_type_required"

	// RuleStepNumberRequired: every step must carry a positive step number.
	RuleStepNumberRequired ValidationRule = "step_number_required"

	// RuleDependencyOrder: every upstream reference must be strictly less
	// than the referencing step's own number.
	RuleDependencyOrder ValidationRule = "dependency_order"

	// RuleDuplicateStepNumber: step numbers must be unique.
	RuleDuplicateStepNumber ValidationRule = "duplicate_step_number"
)

// ValidationError reports a structurally invalid workflow definition.
// Definitions are rejected before anything is persisted.
type ValidationError struct {
	Rule ValidationRule

	// StepNumber is the step number of the offending step, or 0 when the
	// step had none.
	StepNumber int

	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid definition (%s): %s", e.Rule, e.Message)
}

// IsValidationError returns the typed validation error, if err is one.
func IsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
