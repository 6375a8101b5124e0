package hunt

import (
	"context"
	"time"

	"github.com/tmeurs/lambdahunt/internal/lambda"
	"github.com/tmeurs/lambdahunt/internal/logging"
)

const (
	// activationPollInitial is the first wait before re-querying detail
	// after a launch.
	activationPollInitial = 5 * time.Second

	// activationPollMax caps the activation poll backoff.
	activationPollMax = 60 * time.Second

	// DefaultActivationTimeout bounds the total activation wait.
	DefaultActivationTimeout = 10 * time.Minute
)

// LifecycleClient launches, inspects and terminates instances.
type LifecycleClient interface {
	Launch(ctx context.Context, typeName, regionName, sshKeyName string) (string, error)
	GetInstance(ctx context.Context, id string) (*lambda.Instance, error)
	Terminate(ctx context.Context, id string) error
}

// Acquisition is the result of a successful launch-and-wait sequence.
type Acquisition struct {
	InstanceID string
	TypeName   string
	Region     string

	// Instance is the last detail fetched. Its address may still be empty
	// if the activation wait timed out before one was assigned.
	Instance *lambda.Instance
}

// Connectable reports whether the acquired instance has a network address.
func (a *Acquisition) Connectable() bool {
	return a.Instance != nil && a.Instance.HasAddress()
}

// Orchestrator runs the launch-and-activation-wait sequence once the
// target region is known. It is shared by the direct-start and
// find-then-start flows.
type Orchestrator struct {
	lifecycle         LifecycleClient
	reporter          Reporter
	activationTimeout time.Duration

	// pollInitial and pollMax shape the activation poll backoff.
	pollInitial time.Duration
	pollMax     time.Duration
}

// NewOrchestrator creates an orchestrator. A zero activationTimeout uses
// DefaultActivationTimeout.
func NewOrchestrator(lifecycle LifecycleClient, reporter Reporter, activationTimeout time.Duration) *Orchestrator {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if activationTimeout <= 0 {
		activationTimeout = DefaultActivationTimeout
	}
	return &Orchestrator{
		lifecycle:         lifecycle,
		reporter:          reporter,
		activationTimeout: activationTimeout,
		pollInitial:       activationPollInitial,
		pollMax:           activationPollMax,
	}
}

// Acquire launches one instance of typeName in regionName and waits for it
// to receive a network address. The region must come from a capacity query
// performed immediately beforehand; Acquire never launches anywhere else.
func (o *Orchestrator) Acquire(ctx context.Context, typeName, regionName, sshKeyName string) (*Acquisition, error) {
	log := logging.Get()

	o.reporter.StateChange(StateLaunching)
	instanceID, err := o.lifecycle.Launch(ctx, typeName, regionName, sshKeyName)
	if err != nil {
		o.reporter.StateChange(StateFailed)
		return nil, err
	}

	log.Info().
		Str("instance_id", instanceID).
		Str("type", typeName).
		Str("region", regionName).
		Msg("Instance launched")
	o.reporter.Launched(instanceID, typeName, regionName)

	o.reporter.StateChange(StateAwaitingActivation)
	instance, err := o.waitForActivation(ctx, instanceID)
	if err != nil {
		o.reporter.StateChange(StateFailed)
		return nil, err
	}

	if instance.HasAddress() {
		o.reporter.Endpoint(instance)
	} else {
		o.reporter.AddressPending(instance)
	}
	o.reporter.StateChange(StateDone)

	return &Acquisition{
		InstanceID: instanceID,
		TypeName:   typeName,
		Region:     regionName,
		Instance:   instance,
	}, nil
}

// waitForActivation polls instance detail with capped exponential backoff
// until an address is assigned or the activation timeout elapses.
// Activation time varies too much for a fixed wait; transient query errors
// during the wait are retried on the same schedule.
func (o *Orchestrator) waitForActivation(ctx context.Context, instanceID string) (*lambda.Instance, error) {
	log := logging.Get()
	deadline := time.Now().Add(o.activationTimeout)

	var last *lambda.Instance
	delay := o.pollInitial
	for {
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}

		instance, err := o.lifecycle.GetInstance(ctx, instanceID)
		switch {
		case err == nil:
			last = instance
			if instance.HasAddress() {
				return instance, nil
			}
			log.Debug().
				Str("instance_id", instanceID).
				Str("status", instance.Status).
				Msg("Instance not yet addressable")
		case lambda.IsFatal(err):
			return nil, err
		default:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Msg("Instance detail query failed during activation wait")
		}

		if time.Now().After(deadline) {
			if last == nil {
				// Never got a successful detail read before the deadline.
				return nil, err
			}
			return last, nil
		}

		delay *= 2
		if delay > o.pollMax {
			delay = o.pollMax
		}
	}
}
