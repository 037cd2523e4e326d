package httpclient

import (
	"context"
	"net/http"
)

// StubClient never touches the network: every call succeeds with an empty
// body and a zero-value response.
type StubClient struct{}

// Get returns an empty response unconditionally.
func (StubClient) Get(context.Context, string, map[string]string) (Response, error) {
	return emptyResponse{}, nil
}

type emptyResponse struct{}

func (emptyResponse) Body() []byte        { return nil }
func (emptyResponse) StatusCode() int     { return 0 }
func (emptyResponse) Header() http.Header { return http.Header{} }
