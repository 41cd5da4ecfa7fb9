// Package sparql runs SELECT queries against a SPARQL endpoint and returns
// the result bindings as rows for the link normalizer.
package sparql

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/agentstation/linksync/internal/transport"
	"github.com/agentstation/linksync/pkg/constants"
	"github.com/agentstation/linksync/pkg/errors"
	"github.com/agentstation/linksync/pkg/links"
)

const service = "sparql"

// Config configures a Client.
type Config struct {
	Endpoint  string
	UserAgent string
	// Timeout bounds a query. Zero uses constants.QueryTimeout.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client queries one endpoint.
type Client struct {
	endpoint string
	http     *transport.Client
}

// NewClient creates a client for cfg.Endpoint, defaulting to the public
// knowledge-base query service.
func NewClient(cfg Config) (*Client, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = constants.DefaultSPARQLEndpoint
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, errors.NewConfigError(service, "invalid endpoint "+endpoint, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.QueryTimeout
	}
	hc, err := transport.New(transport.Config{
		Service:    service,
		UserAgent:  cfg.UserAgent,
		Timeout:    timeout,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}
	return &Client{endpoint: endpoint, http: hc}, nil
}

// Endpoint returns the endpoint queried.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// results is the SPARQL 1.1 JSON results format.
type results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]binding `json:"bindings"`
	} `json:"results"`
}

type binding struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Query runs a SELECT query. Each binding becomes a row mapping variable
// names to their string value. Any failure is reported as an unavailable
// knowledge-base source.
func (c *Client) Query(ctx context.Context, query string) ([]links.Row, error) {
	if query == "" {
		return nil, errors.NewValidationError("query", query, "query is required")
	}

	var res results
	params := url.Values{"query": {query}, "format": {"json"}}
	if err := c.http.GetJSON(ctx, c.endpoint, params, &res); err != nil {
		return nil, errors.NewSourceUnavailableError(constants.SourceKnowledgeBase, c.endpoint, err)
	}

	rows := make([]links.Row, 0, len(res.Results.Bindings))
	for _, b := range res.Results.Bindings {
		row := make(links.Row, len(b))
		for name, v := range b {
			row[name] = v.Value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Source binds a query to a client so it can be loaded like any other row source.
type Source struct {
	Client *Client
	Query  string
}

// NewSource creates a source running query, or the default links query when empty.
func NewSource(c *Client, query string) *Source {
	if query == "" {
		query = constants.DefaultLinksQuery
	}
	return &Source{Client: c, Query: query}
}

// Rows implements the orchestrator's row source.
func (s *Source) Rows(ctx context.Context) ([]links.Row, error) {
	return s.Client.Query(ctx, s.Query)
}
