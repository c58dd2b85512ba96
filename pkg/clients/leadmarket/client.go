package leadmarket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrRejected is returned when the marketplace answers but declines the lead.
var ErrRejected = errors.New("lead rejected by marketplace")

// Client defines the interface for the ping/post lead marketplace API
type Client interface {
	Ping(ctx context.Context, req PingRequest) (*Result, error)
	Post(ctx context.Context, req PostRequest) (*Result, error)
}

type clientImpl struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a new marketplace client. Both phases go to the same
// endpoint and are told apart by Request.Mode.
func NewClient(endpoint string, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &clientImpl{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

func (c *clientImpl) Ping(ctx context.Context, req PingRequest) (*Result, error) {
	return c.send(ctx, ModePing, req)
}

func (c *clientImpl) Post(ctx context.Context, req PostRequest) (*Result, error) {
	return c.send(ctx, ModePost, req)
}

func (c *clientImpl) send(ctx context.Context, mode string, payload any) (*Result, error) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error creating %s payload: %w", mode, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("error creating %s request: %w", mode, err)
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending %s: %w", mode, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading %s response: %w", mode, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("error from marketplace %s (status %d): %s", mode, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response Response
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error parsing %s response: %w", mode, err)
	}

	result := response.Response
	if !result.Accepted() {
		reason := strings.Join(result.Errors, "; ")
		if reason == "" {
			reason = result.Status
		}
		return &result, fmt.Errorf("%s %w: %s", mode, ErrRejected, reason)
	}
	return &result, nil
}
