package publishers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adda-Baaj/pokedex/internal/logger"
)

type builder func(ctx context.Context, cfg SinkConfig, log logger.Logger) (Publisher, error)

var builders = map[string]builder{
	TypeHTTP:      newWebhookPublisher,
	TypeSQS:       newSQSPublisher,
	TypeSNS:       newSNSPublisher,
	TypeGCPPubSub: newPubSubPublisher,
}

// Build instantiates one publisher per config. If any fails, the ones
// already built are closed and nothing is returned.
func Build(ctx context.Context, cfgs []SinkConfig, log logger.Logger) ([]Publisher, error) {
	log = logger.Ensure(log)

	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		build, ok := builders[cfg.Type]
		if !ok {
			err := fmt.Errorf("no publisher for type %q (id %q)", cfg.Type, cfg.ID)
			return nil, errors.Join(err, NewFanout(pubs, log).Close())
		}
		pub, err := build(ctx, cfg, log)
		if err != nil {
			err = fmt.Errorf("build publisher %q: %w", cfg.ID, err)
			return nil, errors.Join(err, NewFanout(pubs, log).Close())
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}
