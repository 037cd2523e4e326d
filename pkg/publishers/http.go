package publishers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/pokedex/internal/logger"
	"github.com/Adda-Baaj/pokedex/pkg/httpclient"
	"github.com/go-resty/resty/v2"
)

const maxErrorBodyBytes = 512

// webhookPublisher sends the event as a JSON request body.
type webhookPublisher struct {
	id     string
	method string
	url    string
	client *resty.Client
	log    logger.Logger
}

func newWebhookPublisher(_ context.Context, cfg SinkConfig, log logger.Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	client := httpclient.NewRestyHTTPClient(cfg.HTTP.Timeout()).
		SetHeaders(cfg.HTTP.Headers).
		SetHeader("Content-Type", "application/json")

	return &webhookPublisher{
		id:     cfg.ID,
		method: cfg.HTTP.Method,
		url:    cfg.HTTP.URL,
		client: client,
		log:    logger.Ensure(log),
	}, nil
}

func (w *webhookPublisher) ID() string   { return w.id }
func (w *webhookPublisher) Type() string { return TypeHTTP }

// Publish fails on transport errors and on any non-2xx answer.
func (w *webhookPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := w.client.R().SetContext(ctx).SetBody(evt).Execute(w.method, w.url)
	if err != nil {
		return fmt.Errorf("%s %s: %w", w.method, w.url, err)
	}
	if !resp.IsSuccess() {
		body := resp.Body()
		if len(body) > maxErrorBodyBytes {
			body = body[:maxErrorBodyBytes]
		}
		return fmt.Errorf("%s %s answered %s: %s", w.method, w.url, resp.Status(), strings.TrimSpace(string(body)))
	}

	w.log.DebugObj("webhook delivered catalog event", "publisher_http_delivery", map[string]any{
		"publisher_id": w.id,
		"status_code":  resp.StatusCode(),
	})
	return nil
}
