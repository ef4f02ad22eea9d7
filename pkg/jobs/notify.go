package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/petrijr/dagrun/pkg/api"
)

// NotifyInput is the part of the workflow input the notify job reads.
// Channel defaults to "email".
type NotifyInput struct {
	Channel   string `json:"channel,omitempty"`
	Recipient string `json:"recipient,omitempty"`
}

// NotifyOutput confirms a (simulated) delivery.
type NotifyOutput struct {
	Notified bool   `json:"notified"`
	Channel  string `json:"channel"`
}

// NotifyJob simulates a flaky notification sender: it fails with
// probability FailureRate and otherwise reports a successful delivery.
// Deliveries go nowhere; the job exists to exercise failure handling and
// skip propagation in real deployments' smoke workflows.
type NotifyJob struct {
	// FailureRate in [0, 1]. Zero never fails, one always fails.
	FailureRate float64

	// Rand is the randomness source; the global source when nil.
	Rand *rand.Rand
}

var _ api.Job = (*NotifyJob)(nil)

func (j *NotifyJob) Execute(ctx context.Context, task *api.Task, ec *api.ExecutionContext) (any, error) {
	var in NotifyInput
	if len(ec.WorkflowInput) > 0 {
		if err := json.Unmarshal(ec.WorkflowInput, &in); err != nil {
			return nil, fmt.Errorf("notify: bad input: %w", err)
		}
	}
	if in.Channel == "" {
		in.Channel = "email"
	}

	if j.roll() < j.FailureRate {
		return nil, fmt.Errorf("notify: delivery via %s failed", in.Channel)
	}

	return NotifyOutput{Notified: true, Channel: in.Channel}, nil
}

func (j *NotifyJob) roll() float64 {
	if j.Rand != nil {
		return j.Rand.Float64()
	}
	return rand.Float64()
}
