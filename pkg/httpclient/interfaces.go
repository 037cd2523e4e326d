package httpclient

import (
	"context"
	"net/http"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
}

// Client abstracts HTTP calls so callers can inject stubs or different transports.
// Implementations return an error only when no response was obtained; status
// codes are reported, not judged.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
