package hunt

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tmeurs/lambdahunt/internal/hunt/mock"
	"github.com/tmeurs/lambdahunt/internal/lambda"
)

// recorder captures reporter events for assertions.
type recorder struct {
	mu       sync.Mutex
	states   []State
	ticks    []PollStatus
	found    []string
	launched []string
	ips      []string
	pending  int
}

func (r *recorder) StateChange(state State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

func (r *recorder) PollTick(status PollStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, status)
}

func (r *recorder) Found(typeName string, regions []lambda.Region) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.found = append(r.found, typeName)
}

func (r *recorder) Launched(instanceID, typeName, regionName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.launched = append(r.launched, instanceID)
}

func (r *recorder) Endpoint(instance *lambda.Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ips = append(r.ips, instance.IP)
}

func (r *recorder) AddressPending(instance *lambda.Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending++
}

// offerWith builds an offer for typeName with the given regions.
func offerWith(typeName string, regions ...lambda.Region) *lambda.Offer {
	return &lambda.Offer{
		Name:                typeName,
		InstanceType:        lambda.InstanceType{Description: typeName},
		RegionsWithCapacity: regions,
	}
}

func TestSelectRegionIsFirstReported(t *testing.T) {
	offer := offerWith("gpu_1x_a10",
		lambda.Region{Name: "us-east-1"},
		lambda.Region{Name: "us-west-2"},
		lambda.Region{Name: "eu-central-1"},
	)

	region := SelectRegion(offer)
	if region.Name != "us-east-1" {
		t.Errorf("selected region = %q, want first reported (us-east-1)", region.Name)
	}
}

func TestPollerStaysSearchingWithoutCapacity(t *testing.T) {
	// Scenario: type exists but no region has capacity, then capacity
	// appears on the third tick.
	catalog := mock.NewCatalog(
		mock.CatalogResponse{Offer: offerWith("gpu_1x_a10")},
		mock.CatalogResponse{Offer: offerWith("gpu_1x_a10")},
		mock.CatalogResponse{Offer: offerWith("gpu_1x_a10", lambda.Region{Name: "us-east-1"})},
	)
	rec := &recorder{}
	poller := NewPoller(catalog, time.Millisecond, rec)

	region, err := poller.Run(context.Background(), "gpu_1x_a10")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if region.Name != "us-east-1" {
		t.Errorf("region = %q, want us-east-1", region.Name)
	}
	if catalog.Calls() != 3 {
		t.Errorf("catalog queried %d times, want 3", catalog.Calls())
	}
	if len(rec.ticks) != 2 {
		t.Fatalf("expected 2 poll ticks, got %d", len(rec.ticks))
	}
	for _, tick := range rec.ticks {
		if tick.Outcome != "no capacity" {
			t.Errorf("tick outcome = %q, want %q", tick.Outcome, "no capacity")
		}
		if tick.NextCheckIn < 0 {
			t.Errorf("NextCheckIn = %v, must never be negative", tick.NextCheckIn)
		}
	}
	if len(rec.found) != 1 || rec.found[0] != "gpu_1x_a10" {
		t.Errorf("found events = %v, want one for gpu_1x_a10", rec.found)
	}
}

func TestPollerKeepsSearchingWhenTypeAbsent(t *testing.T) {
	catalog := mock.NewCatalog(
		mock.CatalogResponse{Err: lambda.ErrNotFound.Wrap(errors.New("not in catalog"))},
		mock.CatalogResponse{Offer: offerWith("gpu_1x_a10", lambda.Region{Name: "us-west-2"})},
	)
	rec := &recorder{}
	poller := NewPoller(catalog, time.Millisecond, rec)

	region, err := poller.Run(context.Background(), "gpu_1x_a10")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if region.Name != "us-west-2" {
		t.Errorf("region = %q, want us-west-2", region.Name)
	}
	if len(rec.ticks) != 1 || rec.ticks[0].Outcome != "type not in catalog" {
		t.Errorf("ticks = %+v, want one with outcome %q", rec.ticks, "type not in catalog")
	}
}

func TestPollerAbortsOnFatalError(t *testing.T) {
	catalog := mock.NewCatalog(
		mock.CatalogResponse{Err: lambda.ErrAuthenticationFailed},
	)
	poller := NewPoller(catalog, time.Millisecond, nil)

	_, err := poller.Run(context.Background(), "gpu_1x_a10")
	if !errors.Is(err, lambda.ErrAuthenticationFailed) {
		t.Errorf("expected auth error, got %v", err)
	}
	if catalog.Calls() != 1 {
		t.Errorf("catalog queried %d times after fatal error, want 1", catalog.Calls())
	}
}

func TestPollerRetriesTransientErrors(t *testing.T) {
	catalog := mock.NewCatalog(
		mock.CatalogResponse{Err: lambda.NewError(lambda.CodeRequestFailed, "HTTP request failed", errors.New("connection refused"))},
		mock.CatalogResponse{Offer: offerWith("gpu_1x_a10", lambda.Region{Name: "us-east-1"})},
	)
	rec := &recorder{}
	poller := NewPoller(catalog, time.Millisecond, rec)
	// The transient backoff would wait seconds; bound the test instead.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	region, err := poller.Run(ctx, "gpu_1x_a10")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if region.Name != "us-east-1" {
		t.Errorf("region = %q, want us-east-1", region.Name)
	}
	if len(rec.ticks) != 1 {
		t.Fatalf("expected 1 tick, got %d", len(rec.ticks))
	}
	if rec.ticks[0].Outcome == "no capacity" {
		t.Errorf("transient failure tick should carry the error, got %q", rec.ticks[0].Outcome)
	}
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	catalog := mock.NewCatalog(
		mock.CatalogResponse{Offer: offerWith("gpu_1x_a10")},
	)
	poller := NewPoller(catalog, 50*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := poller.Run(ctx, "gpu_1x_a10")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context deadline error, got %v", err)
	}
}

func TestNextDelay(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		elapsed  time.Duration
		want     time.Duration
	}{
		{"fast tick", 10 * time.Second, 2 * time.Second, 8 * time.Second},
		{"instant tick", 10 * time.Second, 0, 10 * time.Second},
		{"tick equals interval", 10 * time.Second, 10 * time.Second, 0},
		{"slow tick clamps to zero", 10 * time.Second, 15 * time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextDelay(tt.interval, tt.elapsed); got != tt.want {
				t.Errorf("nextDelay(%v, %v) = %v, want %v", tt.interval, tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestRetryDelayCapped(t *testing.T) {
	if got := retryDelay(1); got != 2*time.Second {
		t.Errorf("retryDelay(1) = %v, want 2s", got)
	}
	if got := retryDelay(3); got != 8*time.Second {
		t.Errorf("retryDelay(3) = %v, want 8s", got)
	}
	if got := retryDelay(10); got != maxRetryDelay {
		t.Errorf("retryDelay(10) = %v, want cap %v", got, maxRetryDelay)
	}
}

func TestRetryDelayLongOutage(t *testing.T) {
	// A find can outlast any outage; the delay must hold at the cap no
	// matter how many consecutive failures accumulate. Naive doubling
	// overflows into a negative Duration around failure 34, which would
	// turn every retry sleep into a busy loop.
	for _, failures := range []int{33, 34, 64, 100, 1 << 20} {
		got := retryDelay(failures)
		if got <= 0 {
			t.Fatalf("retryDelay(%d) = %v; non-positive delay busy-loops the poller", failures, got)
		}
		if got != maxRetryDelay {
			t.Errorf("retryDelay(%d) = %v, want cap %v", failures, got, maxRetryDelay)
		}
	}
}
