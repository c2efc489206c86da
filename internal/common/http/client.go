// internal/common/http/client.go
package http

import (
	"context"
	"net/http"
	"time"
)

const userAgent = "market-admin/1.0"

// Client is the outbound HTTP transport shared by the document store client.
// A zero timeout leaves requests bounded only by their context.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWith wraps an existing *http.Client, e.g. one returned by httptest.Server.Client.
func NewClientWith(hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{httpClient: hc}
}

func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return c.httpClient.Do(req)
}
