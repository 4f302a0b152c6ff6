// Package storage persists the ledger, category set and manual list as independent
// JSON blobs in a key-value backend.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/itstock/internal/inventory"
	"github.com/odyssey-erp/itstock/internal/masterdata/categories"
	"github.com/odyssey-erp/itstock/internal/platform/kv"
	"github.com/odyssey-erp/itstock/internal/procurement"
)

// DefaultKeyPrefix namespaces the four blobs.
const DefaultKeyPrefix = "it-stock-"

// Collection names, also used as key suffixes.
const (
	CollectionItems      = "items"
	CollectionMovements  = "movements"
	CollectionCategories = "categories"
	CollectionManualList = "manual-list"
)

var errNotSequence = errors.New("stored value is not a sequence")

// FailureRecorder counts persistence failures.
type FailureRecorder interface {
	PersistenceFailure(collection, op string)
}

// Snapshot is the state restored at startup.
type Snapshot struct {
	Items      []inventory.Item
	Movements  []inventory.Movement
	Categories []string
	ManualList []procurement.ManualItem
}

// Options configures a Store.
type Options struct {
	Prefix      string
	Diagnostics *Diagnostics
	Metrics     FailureRecorder
	Logger      *slog.Logger
}

// Store reads and writes the four collections. It satisfies the persistence ports of
// the inventory, categories and procurement services.
type Store struct {
	backend kv.Store
	prefix  string
	diag    *Diagnostics
	metrics FailureRecorder
	logger  *slog.Logger
	now     func() time.Time
}

var (
	_ inventory.Persister         = (*Store)(nil)
	_ categories.Persister        = (*Store)(nil)
	_ procurement.ManualPersister = (*Store)(nil)
)

// New wraps a backend.
func New(backend kv.Store, opts Options) *Store {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	diag := opts.Diagnostics
	if diag == nil {
		diag = NewDiagnostics()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend: backend,
		prefix:  prefix,
		diag:    diag,
		metrics: opts.Metrics,
		logger:  logger.With(slog.String("component", "storage")),
		now:     time.Now,
	}
}

// Diagnostics exposes the failure ring.
func (s *Store) Diagnostics() *Diagnostics { return s.diag }

// Key returns the backend key of a collection.
func (s *Store) Key(collection string) string { return s.prefix + collection }

// Load fetches all four collections concurrently. Each collection falls back to its
// default independently; failures are recorded, never returned.
func (s *Store) Load(ctx context.Context) Snapshot {
	var (
		snap Snapshot
		g    errgroup.Group
	)
	g.Go(func() error {
		snap.Items = loadSlice[inventory.Item](ctx, s, CollectionItems)
		return nil
	})
	g.Go(func() error {
		snap.Movements = loadSlice[inventory.Movement](ctx, s, CollectionMovements)
		return nil
	})
	g.Go(func() error {
		snap.Categories = loadSlice[string](ctx, s, CollectionCategories)
		return nil
	})
	g.Go(func() error {
		snap.ManualList = loadSlice[procurement.ManualItem](ctx, s, CollectionManualList)
		return nil
	})
	_ = g.Wait()

	if len(snap.Categories) == 0 {
		snap.Categories = categories.Defaults()
	}
	s.logger.Info("snapshot loaded",
		slog.Int("items", len(snap.Items)),
		slog.Int("movements", len(snap.Movements)),
		slog.Int("categories", len(snap.Categories)),
		slog.Int("manual", len(snap.ManualList)))
	return snap
}

// SaveItems writes the item collection.
func (s *Store) SaveItems(ctx context.Context, items []inventory.Item) error {
	return saveSlice(ctx, s, CollectionItems, items)
}

// SaveMovements writes the movement log.
func (s *Store) SaveMovements(ctx context.Context, movements []inventory.Movement) error {
	return saveSlice(ctx, s, CollectionMovements, movements)
}

// SaveCategories writes the category labels.
func (s *Store) SaveCategories(ctx context.Context, names []string) error {
	return saveSlice(ctx, s, CollectionCategories, names)
}

// SaveManualList writes the manual shopping list.
func (s *Store) SaveManualList(ctx context.Context, list []procurement.ManualItem) error {
	return saveSlice(ctx, s, CollectionManualList, list)
}

func loadSlice[T any](ctx context.Context, s *Store, collection string) []T {
	raw, err := s.backend.Get(ctx, s.Key(collection))
	if errors.Is(err, kv.ErrNotFound) {
		return []T{}
	}
	if err != nil {
		s.fail(collection, OpLoad, err)
		return []T{}
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		s.fail(collection, OpLoad, errNotSequence)
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		s.fail(collection, OpLoad, fmt.Errorf("decode: %w", err))
		return []T{}
	}
	if out == nil {
		out = []T{}
	}
	return out
}

func saveSlice[T any](ctx context.Context, s *Store, collection string, values []T) error {
	if values == nil {
		values = []T{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return s.fail(collection, OpSave, fmt.Errorf("encode: %w", err))
	}
	if err := s.backend.Set(ctx, s.Key(collection), raw); err != nil {
		return s.fail(collection, OpSave, err)
	}
	return nil
}

func (s *Store) fail(collection, op string, err error) *PersistenceError {
	perr := &PersistenceError{Collection: collection, Op: op, Err: err}
	s.diag.Record(Failure{Collection: collection, Op: op, Message: err.Error(), At: s.now().UTC()})
	if s.metrics != nil {
		s.metrics.PersistenceFailure(collection, op)
	}
	s.logger.Warn("persistence failure",
		slog.String("collection", collection),
		slog.String("op", op),
		slog.Any("error", err))
	return perr
}
