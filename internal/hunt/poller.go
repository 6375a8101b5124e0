// Package hunt implements the availability-acquisition state machine:
// polling the catalog until a requested instance type has capacity in some
// region, then launching there and waiting for the instance to activate.
package hunt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmeurs/lambdahunt/internal/lambda"
	"github.com/tmeurs/lambdahunt/internal/logging"
)

const (
	// baseRetryDelay is the base delay for transient-error backoff.
	baseRetryDelay = 2 * time.Second

	// maxRetryDelay caps the transient-error backoff.
	maxRetryDelay = 60 * time.Second
)

// CatalogClient fetches the current capacity mapping for one instance type.
type CatalogClient interface {
	FetchCapacity(ctx context.Context, typeName string) (*lambda.Offer, error)
}

// SelectRegion returns the region a launch should target for an offer with
// capacity: the first region the catalog reported. Provider ordering is not
// guaranteed stable; first-reported is the documented tie-break, with no
// price or description ranking applied.
func SelectRegion(offer *lambda.Offer) lambda.Region {
	return offer.RegionsWithCapacity[0]
}

// Poller repeatedly queries the catalog for one instance type until a
// region with capacity appears.
type Poller struct {
	catalog  CatalogClient
	interval time.Duration
	reporter Reporter
}

// NewPoller creates a poller that checks every interval.
func NewPoller(catalog CatalogClient, interval time.Duration, reporter Reporter) *Poller {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Poller{
		catalog:  catalog,
		interval: interval,
		reporter: reporter,
	}
}

// Run polls until the requested type has capacity in some region and
// returns the selected region. It runs indefinitely; it stops only on a
// fatal error (rejected credential, malformed response) or when ctx is
// cancelled. Transient errors are retried with capped exponential backoff.
func (p *Poller) Run(ctx context.Context, typeName string) (lambda.Region, error) {
	log := logging.Get()

	attempt := 0
	failures := 0
	for {
		attempt++
		start := time.Now()

		offer, err := p.catalog.FetchCapacity(ctx, typeName)

		var outcome string
		var delay time.Duration
		switch {
		case err == nil && offer.HasCapacity():
			region := SelectRegion(offer)
			log.Info().
				Str("type", typeName).
				Str("region", region.Name).
				Int("attempt", attempt).
				Msg("Capacity found")
			p.reporter.Found(typeName, offer.RegionsWithCapacity)
			return region, nil

		case err == nil:
			failures = 0
			outcome = "no capacity"
			delay = nextDelay(p.interval, time.Since(start))

		case errors.Is(err, lambda.ErrNotFound):
			// The catalog can momentarily omit a type; keep searching.
			failures = 0
			outcome = "type not in catalog"
			delay = nextDelay(p.interval, time.Since(start))

		case lambda.IsFatal(err):
			return lambda.Region{}, err

		default:
			if ctx.Err() != nil {
				return lambda.Region{}, ctx.Err()
			}
			failures++
			outcome = fmt.Sprintf("query failed: %v", err)
			delay = retryDelay(failures)
			log.Warn().
				Err(err).
				Int("consecutive_failures", failures).
				Dur("retry_in", delay).
				Msg("Capacity query failed, retrying")
		}

		p.reporter.PollTick(PollStatus{
			CheckedAt:   start,
			Attempt:     attempt,
			Outcome:     outcome,
			NextCheckIn: delay,
		})

		if err := sleep(ctx, delay); err != nil {
			return lambda.Region{}, err
		}
	}
}

// nextDelay spaces successive ticks by the configured interval regardless
// of how long the query itself took: interval minus elapsed, clamped at
// zero so a slow query never produces a negative sleep.
func nextDelay(interval, elapsed time.Duration) time.Duration {
	d := interval - elapsed
	if d < 0 {
		return 0
	}
	return d
}

// retryDelay returns the capped exponential backoff for the nth
// consecutive transient failure. Doubling stops at the cap so a long
// streak of failures cannot overflow the delay into a negative value.
func retryDelay(failures int) time.Duration {
	delay := baseRetryDelay
	for i := 1; i < failures; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}

// sleep waits for the given duration, respecting context cancellation.
func sleep(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(duration):
		return nil
	}
}
