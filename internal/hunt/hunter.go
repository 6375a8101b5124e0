package hunt

import (
	"context"
	"fmt"
	"time"

	"github.com/tmeurs/lambdahunt/internal/lambda"
)

// DefaultPollInterval is the default spacing between capacity checks.
const DefaultPollInterval = 10 * time.Second

// Options configures a Hunter.
type Options struct {
	// PollInterval is the spacing between capacity checks during Find.
	// Zero means DefaultPollInterval.
	PollInterval time.Duration

	// ActivationTimeout bounds the post-launch activation wait.
	// Zero means DefaultActivationTimeout.
	ActivationTimeout time.Duration
}

// Hunter ties the poller and the orchestrator together into the two
// user-facing flows: find-then-start and direct start.
type Hunter struct {
	catalog      CatalogClient
	poller       *Poller
	orchestrator *Orchestrator
	reporter     Reporter
}

// New creates a Hunter over the given clients.
func New(catalog CatalogClient, lifecycle LifecycleClient, reporter Reporter, opts Options) *Hunter {
	if reporter == nil {
		reporter = NopReporter{}
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Hunter{
		catalog:      catalog,
		poller:       NewPoller(catalog, interval, reporter),
		orchestrator: NewOrchestrator(lifecycle, reporter, opts.ActivationTimeout),
		reporter:     reporter,
	}
}

// Find polls until the requested type has capacity somewhere, then launches
// into the first region reported by that same capacity query and waits for
// activation. It runs until capacity appears, a fatal error occurs, or ctx
// is cancelled.
func (h *Hunter) Find(ctx context.Context, typeName, sshKeyName string) (*Acquisition, error) {
	h.reporter.StateChange(StateSearching)
	region, err := h.poller.Run(ctx, typeName)
	if err != nil {
		h.reporter.StateChange(StateFailed)
		return nil, err
	}
	return h.orchestrator.Acquire(ctx, typeName, region.Name, sshKeyName)
}

// Start launches the requested type immediately: one capacity query picks
// the region, then the shared launch-and-wait sequence runs. Unlike Find it
// does not retry; an absent type or empty region list is an error.
func (h *Hunter) Start(ctx context.Context, typeName, sshKeyName string) (*Acquisition, error) {
	offer, err := h.catalog.FetchCapacity(ctx, typeName)
	if err != nil {
		h.reporter.StateChange(StateFailed)
		return nil, err
	}
	if !offer.HasCapacity() {
		h.reporter.StateChange(StateFailed)
		return nil, lambda.ErrNoCapacity.Wrap(fmt.Errorf("no region currently has capacity for %s", typeName))
	}

	region := SelectRegion(offer)
	return h.orchestrator.Acquire(ctx, typeName, region.Name, sshKeyName)
}
