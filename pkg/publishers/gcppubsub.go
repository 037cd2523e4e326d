package publishers

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/Adda-Baaj/pokedex/internal/logger"
	"google.golang.org/api/option"
)

// pubsubPublisher publishes each event to a Pub/Sub topic and waits for the ack.
type pubsubPublisher struct {
	id     string
	client *pubsub.Client
	topic  *pubsub.Topic
	log    logger.Logger
}

func newPubSubPublisher(ctx context.Context, cfg SinkConfig, log logger.Logger) (Publisher, error) {
	if cfg.PubSub == nil {
		return nil, fmt.Errorf("publisher %q missing gcp_pubsub configuration", cfg.ID)
	}
	return dialPubSub(ctx, cfg.ID, *cfg.PubSub, log, pubSubOptions(*cfg.PubSub)...)
}

func pubSubOptions(cfg PubSubConfig) []option.ClientOption {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	return opts
}

func dialPubSub(ctx context.Context, id string, cfg PubSubConfig, log logger.Logger, opts ...option.ClientOption) (*pubsubPublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client for %s: %w", cfg.ProjectID, err)
	}
	return &pubsubPublisher{
		id:     id,
		client: client,
		topic:  client.Topic(cfg.Topic),
		log:    logger.Ensure(log),
	}, nil
}

func (p *pubsubPublisher) ID() string   { return p.id }
func (p *pubsubPublisher) Type() string { return TypeGCPPubSub }

func (p *pubsubPublisher) Publish(ctx context.Context, evt Event) error {
	body, attrs, err := evt.encode()
	if err != nil {
		return err
	}

	msgID, err := p.topic.Publish(ctx, &pubsub.Message{Data: []byte(body), Attributes: attrs}).Get(ctx)
	if err != nil {
		return fmt.Errorf("publish to topic %s: %w", p.topic.ID(), err)
	}

	p.log.DebugObj("pubsub delivered catalog event", "publisher_pubsub_delivery", map[string]any{
		"publisher_id": p.id,
		"message_id":   msgID,
	})
	return nil
}

// Close flushes pending messages and releases the client.
func (p *pubsubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
