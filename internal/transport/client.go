// Package transport provides the HTTP client shared by the knowledge-base
// query and write clients: a fixed user agent, an optional cookie jar for
// session-based APIs, and JSON response decoding into typed errors.
package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/agentstation/linksync/pkg/constants"
	"github.com/agentstation/linksync/pkg/errors"
)

// Config configures a Client.
type Config struct {
	// Service names the remote in errors, e.g. "sparql" or "wikibase".
	Service string
	// UserAgent is sent with every request.
	UserAgent string
	// Timeout bounds each request. Zero uses constants.DefaultHTTPTimeout.
	Timeout time.Duration
	// Cookies keeps a cookie jar so a login session survives across requests.
	Cookies bool
	// HTTPClient replaces the underlying client (tests). Timeout and
	// Cookies are ignored when set.
	HTTPClient *http.Client
}

// Client performs requests against one remote service.
type Client struct {
	http      *http.Client
	service   string
	userAgent string
}

// New creates a transport client.
func New(cfg Config) (*Client, error) {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = constants.DefaultHTTPTimeout
		}
		hc = &http.Client{Timeout: timeout}
		if cfg.Cookies {
			jar, err := cookiejar.New(nil)
			if err != nil {
				return nil, errors.NewConfigError("transport", "create cookie jar", err)
			}
			hc.Jar = jar
		}
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = constants.DefaultUserAgent
	}
	return &Client{http: hc, service: cfg.Service, userAgent: ua}, nil
}

// Service returns the service name used in errors.
func (c *Client) Service() string {
	return c.service
}

// Do performs an HTTP request with the common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.APIError{
			Service:  c.service,
			Endpoint: req.URL.Redacted(),
			Message:  "request failed",
			Err:      err,
		}
	}
	return resp, nil
}

// GetJSON issues a GET with query parameters and decodes the JSON body into target.
func (c *Client) GetJSON(ctx context.Context, endpoint string, params url.Values, target any) error {
	u := endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.WrapIO("create", "request GET "+endpoint, err)
	}
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	return DecodeResponse(resp, c.service, target)
}

// PostForm issues a form-encoded POST and decodes the JSON body into target.
func (c *Client) PostForm(ctx context.Context, endpoint string, form url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.WrapIO("create", "request POST "+endpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	return DecodeResponse(resp, c.service, target)
}

// drain discards the rest of a body so the connection can be reused.
func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 1<<16))
}
