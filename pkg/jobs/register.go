package jobs

import "github.com/petrijr/dagrun/pkg/api"

// Canonical type names for the shipped jobs.
const (
	TypeContainment = "containment"
	TypeArea        = "area"
	TypeNotify      = "notify"
	TypeSummary     = "summary"
)

// RegisterAll registers every shipped job under its canonical type name.
// The notify job uses the given failure rate.
func RegisterAll(engine api.Engine, notifyFailureRate float64) error {
	if err := engine.RegisterJob(TypeContainment, ContainmentJob{}); err != nil {
		return err
	}
	if err := engine.RegisterJob(TypeArea, AreaJob{}); err != nil {
		return err
	}
	if err := engine.RegisterJob(TypeNotify, &NotifyJob{FailureRate: notifyFailureRate}); err != nil {
		return err
	}
	return engine.RegisterJob(TypeSummary, SummaryJob{})
}
