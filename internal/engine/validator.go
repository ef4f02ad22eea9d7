package engine

import (
	"fmt"

	"github.com/petrijr/dagrun/pkg/api"
)

// validateDefinition checks a definition for structural correctness before
// anything is persisted. Steps are scanned in order, failing fast on the
// first per-step violation; step-number uniqueness is checked in a final
// pass over the whole definition.
//
// The checks guarantee acyclicity by construction: every dependency must
// reference a strictly smaller step number, so no forward or self edges
// can exist.
func validateDefinition(def api.Definition) error {
	declared := make(map[int]bool, len(def.Steps))
	for _, step := range def.Steps {
		declared[step.Step] = true
	}

	for _, step := range def.Steps {
		if step.Type == "" {
			return &api.ValidationError{
				Rule:       api.RuleTaskTypeRequired,
				StepNumber: step.Step,
				Message:    fmt.Sprintf("step %d has no task type", step.Step),
			}
		}

		if step.Step <= 0 {
			return &api.ValidationError{
				Rule:       api.RuleStepNumberRequired,
				StepNumber: step.Step,
				Message:    fmt.Sprintf("step %q must have a positive step number", step.Type),
			}
		}

		for _, dep := range step.DependsOn {
			if dep >= step.Step {
				return &api.ValidationError{
					Rule:       api.RuleDependencyOrder,
					StepNumber: step.Step,
					Message:    fmt.Sprintf("step %d depends on step %d, which is not an earlier step", step.Step, dep),
				}
			}
			if !declared[dep] {
				return &api.ValidationError{
					Rule:       api.RuleDependencyOrder,
					StepNumber: step.Step,
					Message:    fmt.Sprintf("step %d depends on step %d, which is not in the definition", step.Step, dep),
				}
			}
		}
	}

	seen := make(map[int]bool, len(def.Steps))
	for _, step := range def.Steps {
		if seen[step.Step] {
			return &api.ValidationError{
				Rule:       api.RuleDuplicateStepNumber,
				StepNumber: step.Step,
				Message:    fmt.Sprintf("step number %d appears more than once", step.Step),
			}
		}
		seen[step.Step] = true
	}

	return nil
}
