// Package lambda implements the Lambda Cloud API client used for catalog
// queries and instance lifecycle operations.
package lambda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// baseURL is the Lambda Cloud API base URL.
	baseURL = "https://cloud.lambdalabs.com/api/v1"

	// defaultTimeout is the default HTTP timeout.
	defaultTimeout = 30 * time.Second
)

// Client is the Lambda Cloud API client. Every operation issues exactly one
// authenticated request; retry policy belongs to the caller.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a new Lambda Cloud API client.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAuthenticationFailed.Wrap(fmt.Errorf("API key is required"))
	}

	c := &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// apiError represents an error response body from the Lambda Cloud API.
type apiError struct {
	Error struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		Suggestion string `json:"suggestion,omitempty"`
	} `json:"error"`
}

// request makes a single HTTP request to the Lambda Cloud API. No retries:
// errors propagate to the caller uninterpreted beyond classification.
func (c *Client) request(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return NewError("request_encode_failed", "failed to encode request body", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return NewError("request_create_failed", "failed to create request", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewError(CodeRequestFailed, "HTTP request failed", err)
	}

	return c.processResponse(resp, result)
}

// processResponse processes the HTTP response and decodes the result.
func (c *Client) processResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewError("response_read_failed", "failed to read response body", err)
	}

	if resp.StatusCode >= 400 {
		return c.parseAPIError(resp.StatusCode, bodyBytes)
	}

	if result != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return NewError(CodeDecodeFailed, "failed to decode response", err)
		}
	}

	return nil
}

// parseAPIError parses an API error response.
func (c *Client) parseAPIError(statusCode int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		// If we can't parse the error, use the raw body
		return c.statusCodeToError(statusCode, "", string(body))
	}

	errMsg := apiErr.Error.Message
	if errMsg == "" {
		errMsg = "unknown error"
	}

	return c.statusCodeToError(statusCode, apiErr.Error.Code, errMsg)
}

// statusCodeToError converts an HTTP status and API error code to an Error.
func (c *Client) statusCodeToError(statusCode int, code, message string) error {
	// Launch refusals for lack of capacity arrive as a 4xx with a dedicated
	// error code rather than a distinct HTTP status.
	if strings.Contains(code, "insufficient-capacity") || strings.Contains(message, "capacity") {
		return ErrNoCapacity.Wrap(fmt.Errorf("%s", message))
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthenticationFailed.Wrap(fmt.Errorf("%s", message))
	case http.StatusNotFound:
		return ErrNotFound.Wrap(fmt.Errorf("%s", message))
	case http.StatusTooManyRequests:
		return ErrRateLimited.Wrap(fmt.Errorf("%s", message))
	default:
		return NewError(CodeAPIError, fmt.Sprintf("API error (HTTP %d): %s", statusCode, message), nil)
	}
}

// offersResponse is the envelope for the instance types endpoint.
type offersResponse struct {
	Data map[string]Offer `json:"data"`
}

// ListOffers returns the full catalog of instance types keyed by name.
func (c *Client) ListOffers(ctx context.Context) (map[string]Offer, error) {
	var resp offersResponse
	if err := c.request(ctx, http.MethodGet, "/instance-types", nil, &resp); err != nil {
		return nil, err
	}

	offers := make(map[string]Offer, len(resp.Data))
	for name, offer := range resp.Data {
		offer.Name = name
		offers[name] = offer
	}
	return offers, nil
}

// FetchCapacity performs one catalog read and extracts the entry for the
// given instance type. Returns ErrNotFound if the catalog has no such type.
func (c *Client) FetchCapacity(ctx context.Context, typeName string) (*Offer, error) {
	offers, err := c.ListOffers(ctx)
	if err != nil {
		return nil, err
	}

	offer, ok := offers[typeName]
	if !ok {
		return nil, ErrNotFound.Wrap(fmt.Errorf("instance type %q not in catalog", typeName))
	}
	return &offer, nil
}

// launchResponse is the envelope for the launch endpoint.
type launchResponse struct {
	Data struct {
		InstanceIDs []string `json:"instance_ids"`
	} `json:"data"`
}

// Launch requests exactly one instance of the given type in the given
// region, authorized for the given SSH key, and returns the new instance ID.
func (c *Client) Launch(ctx context.Context, typeName, regionName, sshKeyName string) (string, error) {
	req := launchRequest{
		RegionName:       regionName,
		InstanceTypeName: typeName,
		SSHKeyNames:      []string{sshKeyName},
		Quantity:         1,
	}

	var resp launchResponse
	if err := c.request(ctx, http.MethodPost, "/instance-operations/launch", req, &resp); err != nil {
		return "", err
	}

	if len(resp.Data.InstanceIDs) == 0 {
		return "", NewError(CodeDecodeFailed, "launch returned no instance ID", nil)
	}
	return resp.Data.InstanceIDs[0], nil
}

// instanceResponse is the envelope for the instance detail endpoint.
type instanceResponse struct {
	Data Instance `json:"data"`
}

// GetInstance retrieves the current detail of an instance by ID.
// Returns ErrNotFound if the ID is unknown to the provider.
func (c *Client) GetInstance(ctx context.Context, id string) (*Instance, error) {
	if id == "" {
		return nil, NewError("invalid_request", "instance ID is required", nil)
	}

	var resp instanceResponse
	if err := c.request(ctx, http.MethodGet, "/instances/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// instancesResponse is the envelope for the instance list endpoint.
type instancesResponse struct {
	Data []Instance `json:"data"`
}

// ListInstances returns all instances currently known to the provider.
func (c *Client) ListInstances(ctx context.Context) ([]Instance, error) {
	var resp instancesResponse
	if err := c.request(ctx, http.MethodGet, "/instances", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Terminate requests termination of an instance by ID. Fire-and-forget:
// any non-error response is success and the instance state is not re-queried.
func (c *Client) Terminate(ctx context.Context, id string) error {
	if id == "" {
		return NewError("invalid_request", "instance ID is required", nil)
	}

	req := terminateRequest{InstanceIDs: []string{id}}
	return c.request(ctx, http.MethodPost, "/instance-operations/terminate", req, nil)
}

// sshKeysResponse is the envelope for the SSH keys endpoint.
type sshKeysResponse struct {
	Data []SSHKey `json:"data"`
}

// ListSSHKeys returns the SSH keys registered with the provider.
func (c *Client) ListSSHKeys(ctx context.Context) ([]SSHKey, error) {
	var resp sshKeysResponse
	if err := c.request(ctx, http.MethodGet, "/ssh-keys", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// sshKeyResponse is the envelope for the SSH key registration endpoint.
type sshKeyResponse struct {
	Data SSHKey `json:"data"`
}

// AddSSHKey registers a public key under the given name.
func (c *Client) AddSSHKey(ctx context.Context, name, publicKey string) (*SSHKey, error) {
	req := addKeyRequest{Name: name, PublicKey: publicKey}

	var resp sshKeyResponse
	if err := c.request(ctx, http.MethodPost, "/ssh-keys", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ValidateCredential checks the API key by performing one authenticated
// read of the instance list.
func (c *Client) ValidateCredential(ctx context.Context) error {
	return c.request(ctx, http.MethodGet, "/instances", nil, nil)
}
