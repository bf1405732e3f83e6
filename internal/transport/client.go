// Package transport provides the bounded-timeout HTTP client the
// remote fetch controller issues page requests through.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/refcanon/refcanon/pkg/errors"
)

// DefaultHTTPTimeout bounds every page request end to end, connect
// and read included.
var DefaultHTTPTimeout = 30 * time.Second

const userAgent = "refcanon/1.0"

// Client is a thin HTTP client with a hard request timeout.
type Client struct {
	http *http.Client
}

// New creates a transport client with the default timeout.
func New() *Client {
	return NewWithTimeout(DefaultHTTPTimeout)
}

// NewWithTimeout creates a transport client with the given request
// timeout.
func NewWithTimeout(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request for a JSON resource.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	return c.http.Do(req)
}
