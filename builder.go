package dagrun

import (
	"fmt"

	"github.com/petrijr/dagrun/pkg/api"
)

// DefinitionBuilder provides a fluent API for assembling workflow
// definitions in code:
//
//	def := dagrun.NewDefinition("geo-report").
//	    Step("containment", 1).
//	    Step("area", 2).
//	    Step("summary", 3, 1, 2).
//	    Build()
//
//	wf, err := engine.CreateWorkflow(ctx, def, "client-1", input)
//
// The builder does no validation beyond rejecting obviously broken calls;
// full structural validation happens in CreateWorkflow.
type DefinitionBuilder struct {
	def api.Definition
}

// NewDefinition creates a new definition builder with the given name.
func NewDefinition(name string) *DefinitionBuilder {
	return &DefinitionBuilder{
		def: api.Definition{
			Name:  name,
			Steps: make([]api.Step, 0),
		},
	}
}

// Name returns the definition name.
func (b *DefinitionBuilder) Name() string {
	return b.def.Name
}

// Step appends a step with the given job type and step number, depending
// on the listed upstream step numbers.
func (b *DefinitionBuilder) Step(jobType string, step int, dependsOn ...int) *DefinitionBuilder {
	if jobType == "" {
		panic(fmt.Sprintf("dagrun: step %d has no job type", step))
	}

	b.def.Steps = append(b.def.Steps, api.Step{
		Type:      jobType,
		Step:      step,
		DependsOn: dependsOn,
	})
	return b
}

// Build returns the assembled definition.
func (b *DefinitionBuilder) Build() api.Definition {
	return b.def
}
