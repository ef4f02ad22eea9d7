package jobs

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrijr/dagrun/pkg/api"
)

func TestNotifyNeverFailsAtRateZero(t *testing.T) {
	job := &NotifyJob{FailureRate: 0}

	for i := 0; i < 100; i++ {
		out, err := job.Execute(context.Background(), &api.Task{}, &api.ExecutionContext{
			WorkflowInput: json.RawMessage(`{"channel":"sms"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, NotifyOutput{Notified: true, Channel: "sms"}, out)
	}
}

func TestNotifyAlwaysFailsAtRateOne(t *testing.T) {
	job := &NotifyJob{FailureRate: 1}

	for i := 0; i < 100; i++ {
		_, err := job.Execute(context.Background(), &api.Task{}, &api.ExecutionContext{})
		require.Error(t, err)
	}
}

func TestNotifyDefaultsChannel(t *testing.T) {
	job := &NotifyJob{FailureRate: 0}

	out, err := job.Execute(context.Background(), &api.Task{}, &api.ExecutionContext{})
	require.NoError(t, err)
	assert.Equal(t, "email", out.(NotifyOutput).Channel)
}

func TestNotifyIsFlakyWithSeededRand(t *testing.T) {
	job := &NotifyJob{
		FailureRate: 0.5,
		Rand:        rand.New(rand.NewSource(42)),
	}

	var failures int
	for i := 0; i < 200; i++ {
		if _, err := job.Execute(context.Background(), &api.Task{}, &api.ExecutionContext{}); err != nil {
			failures++
		}
	}

	// Seeded, so this is deterministic; the bounds just guard against a
	// broken rate comparison.
	assert.Greater(t, failures, 50)
	assert.Less(t, failures, 150)
}

func TestNotifyRejectsBadInput(t *testing.T) {
	job := &NotifyJob{FailureRate: 0}

	_, err := job.Execute(context.Background(), &api.Task{}, &api.ExecutionContext{
		WorkflowInput: json.RawMessage(`[not json`),
	})
	require.Error(t, err)
}
