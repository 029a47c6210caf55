package api

import (
	"context"
	"net/url"
	"strconv"
)

// Getter reads portal resources. Domain packages take it instead of *Client so tests can stub it.
type Getter interface {
	Get(ctx context.Context, path string, query url.Values, dest any) error
}

// Requester reads and writes portal resources.
type Requester interface {
	Getter
	Post(ctx context.Context, path string, body, dest any) error
	Put(ctx context.Context, path string, body, dest any) error
	Delete(ctx context.Context, path string, dest any) error
	// BaseURL is the portal root the paths are resolved against.
	BaseURL() string
}

var _ Requester = (*Client)(nil)

// Page returns the query of a paged endpoint.
func Page(page int) url.Values {
	return url.Values{"page": {strconv.Itoa(page)}}
}
