package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adda-Baaj/pokedex/internal/domain"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

const itemBucket = "items"

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	retention       time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(itemBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	// lastCleanup starts at zero so the first write of every process prunes.
	return &boltStore{
		db:              db,
		retention:       opts.Retention,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// AddItem persists a new item stamped with ts.
func (b *boltStore) AddItem(ts time.Time) (domain.Item, error) {
	if b == nil || b.db == nil {
		return domain.Item{}, fmt.Errorf("store is closed")
	}
	if err := b.maybeCleanupExpired(b.now()); err != nil {
		return domain.Item{}, err
	}

	item := domain.Item{ID: uuid.NewString(), Timestamp: ts.UTC()}
	raw, err := json.Marshal(item)
	if err != nil {
		return domain.Item{}, fmt.Errorf("encode item: %w", err)
	}

	err = b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(itemBucket))
		if bucket == nil {
			return fmt.Errorf("item bucket missing")
		}
		return bucket.Put([]byte(item.ID), raw)
	})
	if err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

// Items returns every stored item ordered by timestamp, oldest first.
func (b *boltStore) Items() ([]domain.Item, error) {
	if b == nil || b.db == nil {
		return nil, nil
	}

	var items []domain.Item
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(itemBucket))
		if bucket == nil {
			return fmt.Errorf("item bucket missing")
		}
		return bucket.ForEach(func(_, v []byte) error {
			item, ok := decodeItem(v)
			if !ok {
				return nil
			}
			items = append(items, item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Timestamp.Before(items[j].Timestamp) })
	return items, nil
}

// DeleteItem removes the item with the given id. Unknown ids are ignored.
func (b *boltStore) DeleteItem(id string) error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(itemBucket))
		if bucket == nil {
			return fmt.Errorf("item bucket missing")
		}
		return bucket.Delete([]byte(id))
	})
}

// maybeCleanupExpired removes items past retention on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	cutoff := now.Add(-b.retention)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(itemBucket))
		if bucket == nil {
			return fmt.Errorf("item bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			item, ok := decodeItem(v)
			if !ok || item.Timestamp.Before(cutoff) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func decodeItem(value []byte) (domain.Item, bool) {
	var item domain.Item
	if err := json.Unmarshal(value, &item); err != nil || item.ID == "" {
		return domain.Item{}, false
	}
	return item, true
}
