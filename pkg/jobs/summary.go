package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/petrijr/dagrun/pkg/api"
)

// SummaryOutput is a human-readable digest of the upstream payloads.
type SummaryOutput struct {
	Summary string `json:"summary"`
	Sources int    `json:"sources"`
}

// SummaryJob formats the success payloads of its upstream dependencies
// into a single text digest. It is usually wired as the final step of a
// workflow, fed by every step that produces something worth reporting.
type SummaryJob struct{}

var _ api.Job = SummaryJob{}

func (SummaryJob) Execute(ctx context.Context, task *api.Task, ec *api.ExecutionContext) (any, error) {
	if len(ec.Dependencies) == 0 {
		return nil, fmt.Errorf("summary: no upstream payloads to summarize")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d upstream result(s):", len(ec.Dependencies))
	for i, dep := range ec.Dependencies {
		fmt.Fprintf(&b, "\n%d. %s", i+1, string(dep))
	}

	return SummaryOutput{
		Summary: b.String(),
		Sources: len(ec.Dependencies),
	}, nil
}
