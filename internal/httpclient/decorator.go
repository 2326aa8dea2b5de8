package httpclient

import (
	"context"
	"net/http"
)

// RequestDecorator mutates outbound requests before they are sent.
type RequestDecorator interface {
	Apply(req *http.Request) error
}

// StaticHeader sets a fixed header on every request, e.g. a protocol
// version header required by the remote API.
type StaticHeader struct {
	Header string
	Value  string
}

func (h StaticHeader) Apply(req *http.Request) error {
	req.Header.Set(h.Header, h.Value)
	return nil
}

// DecoratedClient wraps a Client and applies a decorator to all requests.
type DecoratedClient struct {
	*Client
	decorator RequestDecorator
}

// NewDecoratedClient creates a client that decorates every request.
func NewDecoratedClient(client *Client, decorator RequestDecorator) *DecoratedClient {
	return &DecoratedClient{
		Client:    client,
		decorator: decorator,
	}
}

// Do decorates and executes a request.
func (c *DecoratedClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.decorator.Apply(req); err != nil {
		return nil, err
	}
	return c.Client.Do(ctx, req)
}
