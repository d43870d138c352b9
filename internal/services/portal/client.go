// Package portal talks to the captive-portal authentication API.
package portal

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/j-veylop/netmeter/internal/logger"
	"github.com/j-veylop/netmeter/internal/models"
)

const (
	// DefaultURL is the portal endpoint of the ship-board network.
	DefaultURL = "https://internet.stenaline.com/portal_api.php"

	// DefaultUserAgent mimics a desktop browser; the portal rejects unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
)

// ErrEmptyBody is the cause of a FetchError when the portal answered with nothing.
var ErrEmptyBody = errors.New("empty response body")

// FetchError is a transport failure talking to the portal.
type FetchError struct {
	Err error
	URL string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("portal request to %s failed: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RawResponse is the outcome of one authentication attempt.
type RawResponse struct {
	Err        error
	Body       []byte
	StatusCode int
	Duration   time.Duration
}

// OK reports whether the transport succeeded and produced a body.
func (r *RawResponse) OK() bool {
	return r != nil && r.Err == nil && len(r.Body) > 0
}

// Config holds configuration for the portal client.
type Config struct {
	URL                string
	UserAgent          string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		URL:                DefaultURL,
		UserAgent:          DefaultUserAgent,
		Timeout:            defaultTimeout,
		InsecureSkipVerify: true,
	}
}

// Client posts credentials to the portal.
type Client struct {
	httpClient *http.Client
	config     Config
}

// New creates a portal client. Zero fields in config take their defaults.
func New(config Config) *Client {
	def := DefaultConfig()
	if config.URL == "" {
		config.URL = def.URL
	}
	if config.UserAgent == "" {
		config.UserAgent = def.UserAgent
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if config.InsecureSkipVerify {
		// The portal serves a certificate that does not match its host name.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		logger.Debug("portal TLS verification disabled", "url", config.URL)
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout, Transport: transport},
		config:     config,
	}
}

// URL returns the configured portal endpoint.
func (c *Client) URL() string {
	return c.config.URL
}

// Authenticate submits a login and returns the raw answer. The returned value
// is never nil; transport failures are reported through RawResponse.Err as a
// *FetchError. Non-2xx answers still carry their body, since the portal
// reports login errors inside JSON.
func (c *Client) Authenticate(ctx context.Context, creds models.Credentials) *RawResponse {
	start := time.Now()
	resp := &RawResponse{}

	body, status, err := c.post(ctx, loginForm(creds))
	resp.Duration = time.Since(start)
	resp.StatusCode = status
	resp.Body = body

	switch {
	case err != nil:
		resp.Err = &FetchError{URL: c.config.URL, Err: err}
	case len(body) == 0:
		resp.Err = &FetchError{URL: c.config.URL, Err: ErrEmptyBody}
	}

	if resp.Err != nil {
		logger.Warn("portal request failed", "url", c.config.URL, "status", status, "error", resp.Err)
	} else {
		logger.Debug("portal responded", "status", status, "bytes", len(body), "duration", resp.Duration)
	}
	return resp
}

func (c *Client) post(ctx context.Context, form url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// loginForm builds the form the portal's web client sends on login.
func loginForm(creds models.Credentials) url.Values {
	form := url.Values{}
	form.Set("action", "authenticate")
	form.Set("switch_package", "true")
	form.Set("login", creds.Username)
	form.Set("password", creds.Password)
	form.Set("policy_accept", "true")
	form.Set("private_policy_accept", "false")
	form.Set("from_ajax", "true")
	form.Set("wispr_mode", "false")
	return form
}
