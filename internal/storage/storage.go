package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/pokedex/internal/domain"
)

// Package storage keeps the local launch history. Catalog data is never stored.

// Store records timestamped launch items.
type Store interface {
	Close() error
	AddItem(ts time.Time) (domain.Item, error)
	Items() ([]domain.Item, error)
	DeleteItem(id string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	Retention       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultRetention       = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.Retention <= 0 {
		opts.Retention = defaultRetention
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error { return nil }
func (noopStore) AddItem(ts time.Time) (domain.Item, error) {
	return domain.Item{Timestamp: ts}, nil
}
func (noopStore) Items() ([]domain.Item, error) { return nil, nil }
func (noopStore) DeleteItem(string) error       { return nil }
