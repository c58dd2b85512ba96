package trustedform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultCertHost is the host TrustedForm issues certificate URLs on.
const DefaultCertHost = "cert.trustedform.com"

var (
	// ErrNoCertificate means the browser never captured a consent certificate.
	ErrNoCertificate = errors.New("no consent certificate captured")
	// ErrUntrustedCertificate means the certificate URL is not on the
	// consent vendor's host. No request is sent for it.
	ErrUntrustedCertificate = errors.New("certificate url not on trusted host")
)

// Client defines the interface for the consent-certificate vendor
type Client interface {
	// RetainCertificate claims a certificate captured in the browser and
	// returns the URL to include with the lead.
	RetainCertificate(ctx context.Context, certURL, reference string) (string, error)
}

type clientImpl struct {
	apiKey     string
	certHost   string
	httpClient *http.Client
}

// NewClient creates a new TrustedForm client. Only https certificate URLs on
// certHost are retained; an empty certHost means DefaultCertHost.
func NewClient(apiKey, certHost string, httpClient *http.Client) Client {
	if certHost == "" {
		certHost = DefaultCertHost
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &clientImpl{
		apiKey:     apiKey,
		certHost:   strings.ToLower(certHost),
		httpClient: httpClient,
	}
}

func (c *clientImpl) RetainCertificate(ctx context.Context, certURL, reference string) (string, error) {
	if certURL == "" {
		return "", ErrNoCertificate
	}
	u, err := url.Parse(certURL)
	if err != nil || u.Scheme != "https" || u.User != nil || strings.ToLower(u.Host) != c.certHost {
		return "", fmt.Errorf("%w: %q", ErrUntrustedCertificate, certURL)
	}

	payload := map[string]any{
		"retain": map[string]any{
			"reference": reference,
		},
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, certURL, bytes.NewReader(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.SetBasicAuth("API", c.apiKey)
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error retaining certificate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("error from TrustedForm API (status %d): %s", resp.StatusCode, string(body))
	}

	var response struct {
		Outcome string `json:"outcome"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if response.Outcome != "" && response.Outcome != "success" {
		return "", fmt.Errorf("certificate not retained: %s", response.Reason)
	}

	return certURL, nil
}
