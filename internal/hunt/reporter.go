package hunt

import (
	"time"

	"github.com/tmeurs/lambdahunt/internal/lambda"
)

// PollStatus describes the outcome of one capacity-check attempt.
type PollStatus struct {
	// CheckedAt is when the catalog query was issued.
	CheckedAt time.Time

	// Attempt is the 1-based tick counter.
	Attempt int

	// Outcome describes why the search continues, e.g. "no capacity".
	Outcome string

	// NextCheckIn is how long the poller will wait before the next tick.
	NextCheckIn time.Duration
}

// Reporter receives progress events from the poller and the orchestrator.
// It renders them for the user; it contributes no acquisition logic.
type Reporter interface {
	// StateChange is called on every phase transition.
	StateChange(state State)

	// PollTick is called after each capacity check that did not find
	// capacity, before the poller suspends.
	PollTick(status PollStatus)

	// Found is called when capacity appeared for the requested type.
	Found(typeName string, regions []lambda.Region)

	// Launched is called once the launch request returned an instance ID.
	Launched(instanceID, typeName, regionName string)

	// Endpoint is called when the instance has a network address assigned.
	Endpoint(instance *lambda.Instance)

	// AddressPending is called when the activation wait ended without the
	// instance receiving an address.
	AddressPending(instance *lambda.Instance)
}

// NopReporter is a Reporter that discards all events.
type NopReporter struct{}

func (NopReporter) StateChange(State) {}
func (NopReporter) PollTick(PollStatus) {}
func (NopReporter) Found(string, []lambda.Region) {}
func (NopReporter) Launched(string, string, string) {}
func (NopReporter) Endpoint(*lambda.Instance) {}
func (NopReporter) AddressPending(*lambda.Instance) {}
