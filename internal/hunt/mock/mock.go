// Package mock provides configurable fakes for the hunt package's catalog
// and lifecycle interfaces, with call tracking for assertions.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/tmeurs/lambdahunt/internal/lambda"
)

// Catalog is a mock catalog client. Queue offers or errors per call;
// when the script runs out, the last entry repeats.
type Catalog struct {
	mu sync.Mutex

	// script holds the per-call responses, consumed in order.
	script []CatalogResponse

	// FetchCapacityCalls records every call for assertions.
	FetchCapacityCalls []string
}

// CatalogResponse is one scripted FetchCapacity result.
type CatalogResponse struct {
	Offer *lambda.Offer
	Err   error
}

// NewCatalog creates a mock catalog with the given response script.
func NewCatalog(script ...CatalogResponse) *Catalog {
	return &Catalog{script: script}
}

// Enqueue appends a response to the script.
func (c *Catalog) Enqueue(offer *lambda.Offer, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.script = append(c.script, CatalogResponse{Offer: offer, Err: err})
}

// FetchCapacity implements the catalog interface.
func (c *Catalog) FetchCapacity(ctx context.Context, typeName string) (*lambda.Offer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.FetchCapacityCalls = append(c.FetchCapacityCalls, typeName)

	if len(c.script) == 0 {
		return nil, fmt.Errorf("mock catalog: no scripted response")
	}

	resp := c.script[0]
	if len(c.script) > 1 {
		c.script = c.script[1:]
	}
	return resp.Offer, resp.Err
}

// Calls returns the number of FetchCapacity calls made so far.
func (c *Catalog) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.FetchCapacityCalls)
}

// LaunchCall records the arguments of one Launch call.
type LaunchCall struct {
	TypeName   string
	RegionName string
	SSHKeyName string
}

// Lifecycle is a mock lifecycle client.
type Lifecycle struct {
	mu sync.Mutex

	// LaunchID is the instance ID returned by Launch.
	LaunchID string

	// LaunchErr, if set, is returned by Launch.
	LaunchErr error

	// Instances maps instance IDs to the detail returned by GetInstance.
	// The slice is consumed in order per ID so tests can model an instance
	// that gains an address after a few polls; the last entry repeats.
	Instances map[string][]*lambda.Instance

	// GetInstanceErr, if set, is returned by GetInstance.
	GetInstanceErr error

	// TerminateErr, if set, is returned by Terminate.
	TerminateErr error

	// Call tracking.
	LaunchCalls      []LaunchCall
	GetInstanceCalls []string
	TerminateCalls   []string
}

// NewLifecycle creates a mock lifecycle client.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{Instances: make(map[string][]*lambda.Instance)}
}

// SetDetail scripts the GetInstance responses for an instance ID.
func (l *Lifecycle) SetDetail(id string, details ...*lambda.Instance) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Instances[id] = details
}

// Launch implements the lifecycle interface.
func (l *Lifecycle) Launch(ctx context.Context, typeName, regionName, sshKeyName string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.LaunchCalls = append(l.LaunchCalls, LaunchCall{
		TypeName:   typeName,
		RegionName: regionName,
		SSHKeyName: sshKeyName,
	})

	if l.LaunchErr != nil {
		return "", l.LaunchErr
	}
	return l.LaunchID, nil
}

// GetInstance implements the lifecycle interface.
func (l *Lifecycle) GetInstance(ctx context.Context, id string) (*lambda.Instance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.GetInstanceCalls = append(l.GetInstanceCalls, id)

	if l.GetInstanceErr != nil {
		return nil, l.GetInstanceErr
	}

	details, ok := l.Instances[id]
	if !ok || len(details) == 0 {
		return nil, lambda.ErrNotFound.Wrap(fmt.Errorf("mock lifecycle: unknown instance %q", id))
	}

	detail := details[0]
	if len(details) > 1 {
		l.Instances[id] = details[1:]
	}
	return detail, nil
}

// Terminate implements the lifecycle interface.
func (l *Lifecycle) Terminate(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.TerminateCalls = append(l.TerminateCalls, id)
	return l.TerminateErr
}
