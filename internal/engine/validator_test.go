package engine

import (
	"testing"

	"github.com/petrijr/dagrun/pkg/api"
)

func requireRule(t *testing.T, err error, rule api.ValidationRule) *api.ValidationError {
	t.Helper()

	if err == nil {
		t.Fatalf("expected validation error (%s), got nil", rule)
	}
	v, ok := api.IsValidationError(err)
	if !ok {
		t.Fatalf("expected *api.ValidationError, got %T: %v", err, err)
	}
	if v.Rule != rule {
		t.Fatalf("expected rule %s, got %s (%v)", rule, v.Rule, v)
	}
	return v
}

func TestValidateDefinitionAcceptsValidGraph(t *testing.T) {
	def := api.Definition{
		Name: "ok",
		Steps: []api.Step{
			{Type: "a", Step: 1},
			{Type: "b", Step: 2, DependsOn: api.StepList{1}},
			{Type: "c", Step: 3, DependsOn: api.StepList{1, 2}},
		},
	}

	if err := validateDefinition(def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDefinitionRejectsEmptyTaskType(t *testing.T) {
	def := api.Definition{
		Name: "bad",
		Steps: []api.Step{
			{Type: "a", Step: 1},
			{Type: "", Step: 2},
		},
	}

	v := requireRule(t, validateDefinition(def), api.RuleTaskTypeRequired)
	if v.StepNumber != 2 {
		t.Fatalf("expected offending step 2, got %d", v.StepNumber)
	}
}

func TestValidateDefinitionRejectsMissingStepNumber(t *testing.T) {
	def := api.Definition{
		Name: "bad",
		Steps: []api.Step{
			{Type: "a", Step: 0},
		},
	}

	requireRule(t, validateDefinition(def), api.RuleStepNumberRequired)
}

func TestValidateDefinitionRejectsNegativeStepNumber(t *testing.T) {
	def := api.Definition{
		Name: "bad",
		Steps: []api.Step{
			{Type: "a", Step: -3},
		},
	}

	requireRule(t, validateDefinition(def), api.RuleStepNumberRequired)
}

func TestValidateDefinitionRejectsForwardDependency(t *testing.T) {
	def := api.Definition{
		Name: "bad",
		Steps: []api.Step{
			{Type: "a", Step: 1, DependsOn: api.StepList{2}},
			{Type: "b", Step: 2},
		},
	}

	requireRule(t, validateDefinition(def), api.RuleDependencyOrder)
}

func TestValidateDefinitionRejectsSelfDependency(t *testing.T) {
	def := api.Definition{
		Name: "bad",
		Steps: []api.Step{
			{Type: "a", Step: 1},
			{Type: "b", Step: 2, DependsOn: api.StepList{2}},
		},
	}

	requireRule(t, validateDefinition(def), api.RuleDependencyOrder)
}

func TestValidateDefinitionRejectsDanglingDependency(t *testing.T) {
	def := api.Definition{
		Name: "bad",
		Steps: []api.Step{
			{Type: "a", Step: 1},
			{Type: "b", Step: 3, DependsOn: api.StepList{2}},
		},
	}

	requireRule(t, validateDefinition(def), api.RuleDependencyOrder)
}

func TestValidateDefinitionRejectsDuplicateStepNumbers(t *testing.T) {
	def := api.Definition{
		Name: "bad",
		Steps: []api.Step{
			{Type: "a", Step: 1},
			{Type: "b", Step: 2},
			{Type: "c", Step: 2},
		},
	}

	requireRule(t, validateDefinition(def), api.RuleDuplicateStepNumber)
}

func TestValidateDefinitionChecksPerStepRulesBeforeDuplicates(t *testing.T) {
	// Step 3 has an empty type and the definition also duplicates step
	// number 1; the per-step scan runs first.
	def := api.Definition{
		Name: "bad",
		Steps: []api.Step{
			{Type: "a", Step: 1},
			{Type: "", Step: 3},
			{Type: "b", Step: 1},
		},
	}

	requireRule(t, validateDefinition(def), api.RuleTaskTypeRequired)
}
