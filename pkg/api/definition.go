package api

import (
	"encoding/json"
	"fmt"
)

// Definition describes a workflow as a named, ordered list of steps.
// Definitions are plain data: they arrive as JSON over the HTTP layer or
// are assembled with the root package's DefinitionBuilder.
type Definition struct {
	Name  string `json:"name" yaml:"name"`
	Steps []Step `json:"steps" yaml:"steps"`
}

// Step is one entry of a workflow definition.
type Step struct {
	// Type selects the job implementation for the task built from this step.
	Type string `json:"type" yaml:"type"`

	// Step is the step number: positive and unique within the definition.
	Step int `json:"step" yaml:"step"`

	// DependsOn lists the step numbers this step depends on. It accepts
	// either a single number or a list and is normalized to a list.
	DependsOn StepList `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

// StepList is a list of step numbers that unmarshals from either a single
// JSON number or a JSON array of numbers.
type StepList []int

// UnmarshalJSON accepts `3` as shorthand for `[3]`.
func (l *StepList) UnmarshalJSON(data []byte) error {
	var single int
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StepList{single}
		return nil
	}

	var many []int
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("dependsOn must be a step number or a list of step numbers: %w", err)
	}
	*l = many
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML-authored definitions.
func (l *StepList) UnmarshalYAML(unmarshal func(any) error) error {
	var single int
	if err := unmarshal(&single); err == nil {
		*l = StepList{single}
		return nil
	}

	var many []int
	if err := unmarshal(&many); err != nil {
		return fmt.Errorf("dependsOn must be a step number or a list of step numbers: %w", err)
	}
	*l = many
	return nil
}
