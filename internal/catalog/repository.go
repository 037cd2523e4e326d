package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/pokedex/internal/domain"
	"github.com/Adda-Baaj/pokedex/internal/logger"
	"github.com/Adda-Baaj/pokedex/pkg/httpclient"
)

// Repository lists catalog entries. It never fails: any error yields an empty list.
type Repository interface {
	ListEntities(ctx context.Context) []domain.Pokemon
}

// Options configures the HTTP repository.
type Options struct {
	URL       string
	UserAgent string
}

// HTTPRepository reads the catalog listing through an httpclient.Client.
type HTTPRepository struct {
	client  httpclient.Client
	url     string
	headers map[string]string
	log     logger.Logger
}

var _ Repository = (*HTTPRepository)(nil)

// NewHTTPRepository builds a repository bound to a single listing endpoint.
func NewHTTPRepository(client httpclient.Client, opts Options, log logger.Logger) (*HTTPRepository, error) {
	if client == nil {
		return nil, fmt.Errorf("http client must not be nil")
	}
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		return nil, fmt.Errorf("catalog url is empty")
	}

	headers := map[string]string{"Accept": "application/json"}
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		headers["User-Agent"] = ua
	}

	return &HTTPRepository{
		client:  client,
		url:     url,
		headers: headers,
		log:     logger.Ensure(log),
	}, nil
}

// ListEntities fetches and decodes the catalog, returning an empty slice on any failure.
func (r *HTTPRepository) ListEntities(ctx context.Context) []domain.Pokemon {
	entries, err := r.Fetch(ctx)
	if err != nil {
		kind := "decode"
		if errors.Is(err, ErrTransport) {
			kind = "transport"
		}
		r.log.WarnObj("catalog fetch failed; returning empty list", "catalog_error", map[string]any{
			"url":   r.url,
			"kind":  kind,
			"error": err.Error(),
		})
		return []domain.Pokemon{}
	}
	return entries
}

// Fetch performs the request and reports failures as *TransportError or *DecodeError.
func (r *HTTPRepository) Fetch(ctx context.Context) ([]domain.Pokemon, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := r.client.Get(ctx, r.url, r.headers)
	if err != nil {
		return nil, &TransportError{URL: r.url, Err: err}
	}

	// Status codes are not inspected; whatever body came back is decoded.
	r.log.DebugObj("catalog response received", "catalog_response", map[string]any{
		"url":         r.url,
		"status_code": resp.StatusCode(),
		"bytes":       len(resp.Body()),
	})

	return decodeCatalog(resp.Body())
}

type catalogResponse struct {
	Results *[]catalogEntry `json:"results"`
}

type catalogEntry struct {
	Name *string `json:"name"`
}

// decodeCatalog requires a `results` array whose elements all carry a string `name`.
func decodeCatalog(data []byte) ([]domain.Pokemon, error) {
	var env catalogResponse
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &DecodeError{Reason: "invalid payload", Err: err}
	}
	if env.Results == nil {
		return nil, &DecodeError{Reason: `missing "results" field`}
	}

	out := make([]domain.Pokemon, 0, len(*env.Results))
	for i, entry := range *env.Results {
		if entry.Name == nil {
			return nil, &DecodeError{Reason: fmt.Sprintf(`results[%d] missing "name" field`, i)}
		}
		out = append(out, domain.Pokemon{Name: *entry.Name})
	}
	return out, nil
}
