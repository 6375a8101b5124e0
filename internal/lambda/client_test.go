package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// catalogBody builds an instance-types response with the given entries.
func catalogBody(entries map[string]Offer) []byte {
	body, _ := json.Marshal(map[string]interface{}{"data": entries})
	return body
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("")
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestFetchCapacity(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/instance-types" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization header = %q, want bearer token", got)
		}
		w.Write(catalogBody(map[string]Offer{
			"gpu_1x_a10": {
				InstanceType: InstanceType{
					Description:       "1x NVIDIA A10",
					PriceCentsPerHour: 60,
					Specs:             Specs{VCPUs: 30, MemoryGiB: 200, StorageGiB: 1400},
				},
				RegionsWithCapacity: []Region{{Name: "us-east-1", Description: "Virginia, USA"}},
			},
		}))
	})

	offer, err := client.FetchCapacity(context.Background(), "gpu_1x_a10")
	if err != nil {
		t.Fatalf("FetchCapacity failed: %v", err)
	}

	if offer.Name != "gpu_1x_a10" {
		t.Errorf("Name = %q, want gpu_1x_a10", offer.Name)
	}
	if offer.InstanceType.PriceCentsPerHour != 60 {
		t.Errorf("PriceCentsPerHour = %d, want 60", offer.InstanceType.PriceCentsPerHour)
	}
	if offer.InstanceType.Specs.VCPUs != 30 {
		t.Errorf("VCPUs = %d, want 30", offer.InstanceType.Specs.VCPUs)
	}
	if !offer.HasCapacity() {
		t.Error("expected capacity")
	}
	if offer.RegionsWithCapacity[0].Name != "us-east-1" {
		t.Errorf("region = %q, want us-east-1", offer.RegionsWithCapacity[0].Name)
	}
}

func TestFetchCapacityTypeAbsent(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(catalogBody(map[string]Offer{}))
	})

	_, err := client.FetchCapacity(context.Background(), "gpu_8x_h100")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchCapacityAuthRejected(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"global/invalid-api-key","message":"API key was invalid"}}`))
	})

	_, err := client.FetchCapacity(context.Background(), "gpu_1x_a10")
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed, got %v", err)
	}
	if !IsFatal(err) {
		t.Error("auth rejection should be fatal")
	}
}

func TestFetchCapacityMalformedBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := client.FetchCapacity(context.Background(), "gpu_1x_a10")
	if CodeOf(err) != CodeDecodeFailed {
		t.Errorf("expected decode failure, got %v", err)
	}
	if !IsFatal(err) {
		t.Error("parse errors should be fatal")
	}
}

func TestLaunchRequestShape(t *testing.T) {
	var captured launchRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/instance-operations/launch" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("failed to decode launch body: %v", err)
		}
		w.Write([]byte(`{"data":{"instance_ids":["i-123"]}}`))
	})

	id, err := client.Launch(context.Background(), "gpu_1x_a10", "us-east-1", "mykey")
	if err != nil {
		t.Fatalf("Launch failed: %v", err)
	}

	if id != "i-123" {
		t.Errorf("instance ID = %q, want i-123", id)
	}
	if captured.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", captured.Quantity)
	}
	if len(captured.SSHKeyNames) != 1 || captured.SSHKeyNames[0] != "mykey" {
		t.Errorf("ssh_key_names = %v, want [mykey]", captured.SSHKeyNames)
	}
	if captured.RegionName != "us-east-1" {
		t.Errorf("region_name = %q, want us-east-1", captured.RegionName)
	}
	if captured.InstanceTypeName != "gpu_1x_a10" {
		t.Errorf("instance_type_name = %q, want gpu_1x_a10", captured.InstanceTypeName)
	}
}

func TestLaunchNoCapacity(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"instance-operations/launch/insufficient-capacity","message":"Not enough capacity"}}`))
	})

	_, err := client.Launch(context.Background(), "gpu_1x_a10", "us-east-1", "mykey")
	if !errors.Is(err, ErrNoCapacity) {
		t.Errorf("expected ErrNoCapacity, got %v", err)
	}
}

func TestGetInstance(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/instances/i-123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"id":"i-123","status":"active","ip":"1.2.3.4","ssh_key_names":["mykey"]}}`))
	})

	instance, err := client.GetInstance(context.Background(), "i-123")
	if err != nil {
		t.Fatalf("GetInstance failed: %v", err)
	}

	if instance.ID != "i-123" {
		t.Errorf("ID = %q, want i-123", instance.ID)
	}
	if !instance.HasAddress() {
		t.Error("expected instance to have an address")
	}
	if instance.IP != "1.2.3.4" {
		t.Errorf("IP = %q, want 1.2.3.4", instance.IP)
	}
}

func TestGetInstanceUnknownID(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"global/object-does-not-exist","message":"Instance not found"}}`))
	})

	_, err := client.GetInstance(context.Background(), "i-999")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTerminateSingleRequest(t *testing.T) {
	var requests []string
	var captured terminateRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.Path)
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("failed to decode terminate body: %v", err)
		}
		w.Write([]byte(`{"data":{"terminated_instances":[{"id":"i-123"}]}}`))
	})

	if err := client.Terminate(context.Background(), "i-123"); err != nil {
		t.Fatalf("Terminate failed: %v", err)
	}

	// Fire-and-forget: exactly one request, no status re-query.
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d: %v", len(requests), requests)
	}
	if requests[0] != "POST /instance-operations/terminate" {
		t.Errorf("unexpected request: %s", requests[0])
	}
	if len(captured.InstanceIDs) != 1 || captured.InstanceIDs[0] != "i-123" {
		t.Errorf("instance_ids = %v, want [i-123]", captured.InstanceIDs)
	}
}

func TestListInstances(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/instances" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[{"id":"i-1","status":"active","ip":"1.2.3.4"},{"id":"i-2","status":"booting","ip":""}]}`))
	})

	instances, err := client.ListInstances(context.Background())
	if err != nil {
		t.Fatalf("ListInstances failed: %v", err)
	}

	if len(instances) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(instances))
	}
	if instances[1].HasAddress() {
		t.Error("booting instance should not have an address")
	}
}

func TestValidateCredential(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/instances" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[]}`))
	})

	if err := client.ValidateCredential(context.Background()); err != nil {
		t.Errorf("ValidateCredential failed: %v", err)
	}
}

func TestAddSSHKey(t *testing.T) {
	var captured addKeyRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ssh-keys" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		w.Write([]byte(`{"data":{"id":"key-1","name":"mykey","public_key":"ssh-ed25519 AAAA"}}`))
	})

	key, err := client.AddSSHKey(context.Background(), "mykey", "ssh-ed25519 AAAA")
	if err != nil {
		t.Fatalf("AddSSHKey failed: %v", err)
	}

	if captured.Name != "mykey" {
		t.Errorf("name = %q, want mykey", captured.Name)
	}
	if key.ID != "key-1" {
		t.Errorf("key ID = %q, want key-1", key.ID)
	}
}
