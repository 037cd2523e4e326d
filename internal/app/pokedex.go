package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Adda-Baaj/pokedex/internal/catalog"
	"github.com/Adda-Baaj/pokedex/internal/config"
	"github.com/Adda-Baaj/pokedex/internal/domain"
	"github.com/Adda-Baaj/pokedex/internal/logger"
	"github.com/Adda-Baaj/pokedex/internal/presenter"
	"github.com/Adda-Baaj/pokedex/internal/render"
	"github.com/Adda-Baaj/pokedex/internal/storage"
	"github.com/Adda-Baaj/pokedex/pkg/httpclient"
	"github.com/Adda-Baaj/pokedex/pkg/publishers"
)

// Pokedex is the catalog screen runtime. It wires the transport, repository
// and view model, renders the loaded list, forwards a loaded event to the
// configured sinks, and records each launch in local storage.
type Pokedex struct {
	cfg    *config.Config
	repo   catalog.Repository
	fanout *publishers.Fanout
	store  storage.Store
	format render.Format
	log    logger.Logger
}

// NewPokedex builds the runtime from config.
func NewPokedex(ctx context.Context, cfg *config.Config, log logger.Logger) (*Pokedex, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := render.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}

	client := httpclient.NewRestyClient(cfg.HTTPTimeout)
	repo, err := catalog.NewHTTPRepository(client, catalog.Options{
		URL:       cfg.CatalogURL,
		UserAgent: cfg.UserAgent,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("init catalog repository: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	storeOpts := storage.Options{
		Retention:       cfg.StorageRetention,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"retention_seconds":        int(cfg.StorageRetention.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &Pokedex{
		cfg:    cfg,
		repo:   repo,
		fanout: fanout,
		store:  store,
		format: format,
		log:    log,
	}, nil
}

// buildFanout loads the optional publishers file. An empty path disables sinks.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		return publishers.NewFanout(nil, log), nil
	}

	sinks, err := publishers.LoadSinks(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers: %w", err)
	}
	pubs, err := publishers.Build(ctx, sinks, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]string, 0, len(sinks))
	for _, sink := range sinks {
		summaries = append(summaries, sink.Type+":"+sink.ID)
	}
	log.InfoObj("publishers loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs, log), nil
}

// Run shows the catalog once: it waits for the view model to load, renders the
// list to w, publishes the loaded event and records the launch.
func (p *Pokedex) Run(ctx context.Context, w io.Writer) error {
	if p == nil || p.repo == nil {
		return fmt.Errorf("pokedex is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	vm := presenter.New(ctx, p.repo, p.log)
	loaded := make(chan []domain.Pokemon, 1)
	unsubscribe := vm.Subscribe(func(state presenter.State, entities []domain.Pokemon) {
		p.log.DebugObj("catalog view updated", "view_state", map[string]any{
			"state":    state.String(),
			"entities": len(entities),
		})
		if state == presenter.StateLoaded {
			loaded <- entities
		}
	})
	defer unsubscribe()

	var entities []domain.Pokemon
	select {
	case entities = <-loaded:
	case <-ctx.Done():
		p.log.InfoObj("catalog run cancelled", "reason", ctx.Err())
		return ctx.Err()
	}

	if err := render.Render(w, p.format, entities); err != nil {
		return fmt.Errorf("render catalog: %w", err)
	}

	p.publish(ctx, entities)
	p.recordLaunch()

	p.log.InfoObj("catalog shown", "catalog_meta", map[string]any{
		"entities":   len(entities),
		"format":     string(p.format),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// publish forwards the loaded list to every sink. Failures are logged only.
func (p *Pokedex) publish(ctx context.Context, entities []domain.Pokemon) {
	if p.fanout.Size() == 0 {
		return
	}
	evt := publishers.NewEvent(p.cfg.CatalogURL, entities)
	delivered, err := p.fanout.Publish(ctx, evt)
	if err != nil {
		p.log.ErrorObj("catalog event publish failed", "publish_error", map[string]any{
			"delivered": delivered,
			"error":     err.Error(),
		})
		return
	}
	p.log.DebugObj("catalog event published", "publish_meta", map[string]any{
		"delivered": delivered,
	})
}

func (p *Pokedex) recordLaunch() {
	item, err := p.store.AddItem(time.Now())
	if err != nil {
		p.log.ErrorObj("launch record failed", "error", err)
		return
	}
	p.log.DebugObj("launch recorded", "launch_item", item)
}

// History returns recorded launches, oldest first.
func (p *Pokedex) History() ([]domain.Item, error) {
	if p == nil || p.store == nil {
		return nil, fmt.Errorf("pokedex is not initialized")
	}
	return p.store.Items()
}

// Forget removes a recorded launch by id.
func (p *Pokedex) Forget(id string) error {
	if p == nil || p.store == nil {
		return fmt.Errorf("pokedex is not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("launch id is empty")
	}
	return p.store.DeleteItem(id)
}

// Close releases sinks and storage, logging any errors encountered.
func (p *Pokedex) Close() error {
	if p == nil {
		return nil
	}
	var firstErr error
	if err := p.fanout.Close(); err != nil {
		p.log.ErrorObj("publishers close failed", "error", err)
		firstErr = err
	}
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			p.log.ErrorObj("storage close failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
