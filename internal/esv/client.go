// Package esv fetches translated passage text through the rate-limited proxy.
package esv

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jonathan/lifeofword/internal/fetch"
	"github.com/jonathan/lifeofword/internal/observability"
	"github.com/jonathan/lifeofword/internal/schemas"
	"github.com/jonathan/lifeofword/internal/types"
)

// DefaultProxyURL is the proxy endpoint served by `lifeofword serve`.
const DefaultProxyURL = "http://localhost:5500/api/esv"

// Fetcher fetches the passage for a free-text query.
type Fetcher interface {
	Fetch(ctx context.Context, query string) (*types.Passage, error)
}

// Client talks to the passage proxy. Any status outside 2xx, including a
// rate-limit rejection, is reported as a *FetchError. A body without
// passages is a valid empty passage.
type Client struct {
	ProxyURL string
	Options  *fetch.Options
}

// NewClient creates a client for the given proxy URL.
func NewClient(proxyURL string, opts *fetch.Options) *Client {
	if proxyURL == "" {
		proxyURL = DefaultProxyURL
	}
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &Client{ProxyURL: proxyURL, Options: opts}
}

// Fetch requests the passage for query and returns the decoded body.
func (c *Client) Fetch(ctx context.Context, query string) (passage *types.Passage, err error) {
	ctx, span := observability.Tracer().Start(ctx, "esv.Fetch")
	span.SetAttributes(attribute.String("passage.query", query))
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()

	if strings.TrimSpace(query) == "" {
		return nil, &FetchError{Query: query, Message: "empty query"}
	}

	endpoint := c.ProxyURL
	if strings.Contains(endpoint, "?") {
		endpoint += "&"
	} else {
		endpoint += "?"
	}
	endpoint += QueryParams(query).Encode()

	result, err := fetch.URL(ctx, endpoint, c.Options)
	if err != nil {
		fe := &FetchError{Query: query, Message: "request failed", Cause: err}
		var httpErr *fetch.Error
		if errors.As(err, &httpErr) {
			fe.StatusCode = httpErr.StatusCode
		}
		return nil, fe
	}

	if err := schemas.ValidatePassage(result.Body); err != nil {
		return nil, &FetchError{Query: query, StatusCode: result.StatusCode, Message: "unexpected response shape", Cause: err}
	}

	span.SetAttributes(attribute.Int("http.status_code", result.StatusCode))

	passage = &types.Passage{}
	if err := json.Unmarshal(result.Body, passage); err != nil {
		return nil, &FetchError{Query: query, StatusCode: result.StatusCode, Message: "failed to decode response", Cause: err}
	}
	return passage, nil
}
