package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/odyssey-erp/itstock/internal/shared"
)

// Persister stores the ledger collections after a successful mutation. Failures are
// recorded by the implementation and never roll back in-memory state.
type Persister interface {
	SaveItems(ctx context.Context, items []Item) error
	SaveMovements(ctx context.Context, movements []Movement) error
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// MetricsPort receives ledger counters.
type MetricsPort interface {
	MovementApplied(kind string)
	MovementRejected(reason string)
}

// Service coordinates ledger operations for the single logical actor and persists
// after every successful command.
type Service struct {
	mu      sync.Mutex
	ledger  *Ledger
	store   Persister
	audit   AuditPort
	metrics MetricsPort
	logger  *slog.Logger
}

// ServiceConfig groups optional collaborators.
type ServiceConfig struct {
	Audit   AuditPort
	Metrics MetricsPort
	Logger  *slog.Logger
}

// NewService builds Service over an already loaded ledger.
func NewService(ledger *Ledger, store Persister, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if ledger == nil {
		ledger = NewLedger(nil, nil)
	}
	return &Service{ledger: ledger, store: store, audit: cfg.Audit, metrics: cfg.Metrics, logger: logger}
}

// CreateItem adds an item, logging opening stock when present.
func (s *Service) CreateItem(ctx context.Context, input ItemInput, initialReason string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.ledger.CreateItem(input, initialReason)
	if err != nil {
		return Item{}, err
	}
	if item.Quantity > 0 {
		s.observeApplied(MovementEntry)
	}
	s.persist(ctx, true)
	s.record(ctx, "inventory:create", item.ID, map[string]any{"name": item.Name, "quantity": item.Quantity})
	return item, nil
}

// EditItem applies a direct field patch without logging a movement.
func (s *Service) EditItem(ctx context.Context, id string, patch ItemPatch) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.ledger.EditItem(id, patch)
	if err != nil {
		return Item{}, err
	}
	s.persist(ctx, false)
	meta := map[string]any{"name": item.Name}
	if patch.Quantity != nil {
		meta["quantity"] = item.Quantity
	}
	s.record(ctx, "inventory:edit", item.ID, meta)
	return item, nil
}

// DeleteItem removes an item; unknown ids are a no-op.
func (s *Service) DeleteItem(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ledger.DeleteItem(id) {
		return
	}
	s.persist(ctx, false)
	s.record(ctx, "inventory:delete", id, nil)
}

// ApplyMovement posts an ENTRY or EXIT.
func (s *Service) ApplyMovement(ctx context.Context, itemID string, kind MovementKind, quantity int, reason string) (Item, Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, mv, err := s.ledger.ApplyMovement(itemID, kind, quantity, reason)
	if err != nil {
		s.observeRejected(err)
		return Item{}, Movement{}, err
	}
	s.observeApplied(kind)
	s.persist(ctx, true)
	s.record(ctx, fmt.Sprintf("inventory:%s", kind), item.ID, map[string]any{"qty": mv.SignedQuantity, "reason": reason})
	return item, mv, nil
}

// ReceiveByName books an entry by item name, creating the item when it is unknown.
func (s *Service) ReceiveByName(ctx context.Context, input ItemInput, reason string) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	receipt, err := s.ledger.ReceiveByName(input, reason)
	if err != nil {
		s.observeRejected(err)
		return Receipt{}, err
	}
	s.observeApplied(MovementEntry)
	s.persist(ctx, true)
	s.record(ctx, "inventory:receive", receipt.Item.ID, map[string]any{"qty": input.Quantity, "created": receipt.Created})
	return receipt, nil
}

// Item returns a single item.
func (s *Service) Item(ctx context.Context, id string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Item(id)
}

// FindByName resolves an item by case-insensitive name.
func (s *Service) FindByName(ctx context.Context, name string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.FindByName(name)
}

// Items lists items.
func (s *Service) Items(ctx context.Context, filter ItemFilter) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Items(filter)
}

// Movements lists the log most-recent-first.
func (s *Service) Movements(ctx context.Context, filter MovementFilter) []Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Movements(filter)
}

// CategoryUsage counts items referencing a category label.
func (s *Service) CategoryUsage(ctx context.Context, category string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.CategoryUsage(category)
}

// Summary returns the dashboard projection.
func (s *Service) Summary(ctx context.Context) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Summary()
}

func (s *Service) persist(ctx context.Context, withMovements bool) {
	if s.store == nil {
		return
	}
	items, movements := s.ledger.Snapshot()
	if err := s.store.SaveItems(ctx, items); err != nil {
		s.logger.Warn("persist items", slog.Any("error", err))
	}
	if !withMovements {
		return
	}
	if err := s.store.SaveMovements(ctx, movements); err != nil {
		s.logger.Warn("persist movements", slog.Any("error", err))
	}
}

func (s *Service) record(ctx context.Context, action, id string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "inventory_item",
		EntityID: id,
		Meta:     meta,
	})
}

func (s *Service) observeApplied(kind MovementKind) {
	if s.metrics != nil {
		s.metrics.MovementApplied(string(kind))
	}
}

func (s *Service) observeRejected(err error) {
	if s.metrics == nil {
		return
	}
	reason := "other"
	switch {
	case errors.Is(err, shared.ErrInsufficientStock):
		reason = "insufficient_stock"
	case errors.Is(err, shared.ErrNotFound):
		reason = "not_found"
	case errors.Is(err, shared.ErrValidation):
		reason = "validation"
	}
	s.metrics.MovementRejected(reason)
}
