package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/Adda-Baaj/pokedex/internal/logger"
)

// Fanout delivers each event to all of its publishers concurrently.
type Fanout struct {
	pubs []Publisher
	log  logger.Logger
}

// NewFanout wraps pubs, skipping nil entries.
func NewFanout(pubs []Publisher, log logger.Logger) *Fanout {
	f := &Fanout{log: logger.Ensure(log)}
	for _, p := range pubs {
		if p != nil {
			f.pubs = append(f.pubs, p)
		}
	}
	return f
}

// Publish sends evt to every publisher and waits for all of them. It returns
// how many accepted the event and the joined failures of the rest.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f.Size() == 0 {
		return 0, nil
	}

	errs := make([]error, len(f.pubs))
	var wg sync.WaitGroup
	for i, p := range f.pubs {
		wg.Add(1)
		go func(i int, p Publisher) {
			defer wg.Done()
			if err := p.Publish(ctx, evt); err != nil {
				errs[i] = fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err)
			}
		}(i, p)
	}
	wg.Wait()

	delivered := 0
	for _, err := range errs {
		if err == nil {
			delivered++
		}
	}
	f.log.DebugObj("catalog event fanned out", "fanout_result", map[string]any{
		"publishers": len(f.pubs),
		"delivered":  delivered,
		"count":      evt.Count,
	})
	return delivered, errors.Join(errs...)
}

// Size returns the number of publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.pubs)
}

// Close releases publishers that hold connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, p := range f.pubs {
		c, ok := p.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", p.Type(), p.ID(), err))
		}
	}
	return errors.Join(errs...)
}
