package procurement

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/odyssey-erp/itstock/internal/inventory"
)

// ItemSource provides the current item collection.
type ItemSource interface {
	Items(ctx context.Context, filter inventory.ItemFilter) []inventory.Item
}

// ManualPersister stores the manual list after a change.
type ManualPersister interface {
	SaveManualList(ctx context.Context, list []ManualItem) error
}

// Advisor produces free-form commentary on a final list.
type Advisor interface {
	Advise(ctx context.Context, lines []Line) (string, error)
}

// Service owns the manual shopping list and derives the final list on demand.
type Service struct {
	mu      sync.Mutex
	manual  []ManualItem
	items   ItemSource
	store   ManualPersister
	advisor Advisor
	newID   func() string
	logger  *slog.Logger
}

// ServiceConfig groups optional collaborators.
type ServiceConfig struct {
	Store   ManualPersister
	Advisor Advisor
	Logger  *slog.Logger
	NewID   func() string
}

// NewService builds Service over a loaded manual list.
func NewService(items ItemSource, manual []ManualItem, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Service{
		manual:  slices.Clone(manual),
		items:   items,
		store:   cfg.Store,
		advisor: cfg.Advisor,
		newID:   newID,
		logger:  logger,
	}
}

// Suggestions derives the low-stock reorder rows from the current items.
func (s *Service) Suggestions(ctx context.Context) []Suggestion {
	return DeriveLowStock(s.items.Items(ctx, inventory.ItemFilter{}))
}

// ManualItems returns a copy of the manual list.
func (s *Service) ManualItems(ctx context.Context) []ManualItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ManualItem, len(s.manual))
	copy(out, s.manual)
	return out
}

// AddManual appends a manual row with a fresh id.
func (s *Service) AddManual(ctx context.Context, name string, quantity int, note string) (ManualItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ManualItem{}, ErrNameRequired
	}
	if quantity < 1 {
		return ManualItem{}, ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item := ManualItem{ID: s.newID(), Name: name, Quantity: quantity, Note: strings.TrimSpace(note)}
	s.manual = append(s.manual, item)
	s.persist(ctx)
	return item, nil
}

// RemoveManual deletes a manual row; unknown ids are a no-op.
func (s *Service) RemoveManual(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.manual, func(m ManualItem) bool { return m.ID == id })
	if idx < 0 {
		return
	}
	s.manual = slices.Delete(s.manual, idx, idx+1)
	s.persist(ctx)
}

// FinalList combines suggestions, overrides and the manual list.
func (s *Service) FinalList(ctx context.Context, overrides []Override) []Line {
	return BuildFinalList(s.Suggestions(ctx), overrides, s.ManualItems(ctx))
}

// Checklist renders the final list as text.
func (s *Service) Checklist(ctx context.Context, overrides []Override) string {
	return FormatChecklist(s.FinalList(ctx, overrides))
}

// Advice asks the configured advisor to review the final list.
func (s *Service) Advice(ctx context.Context, overrides []Override) (string, error) {
	if s.advisor == nil {
		return "", ErrNoAdvisor
	}
	lines := s.FinalList(ctx, overrides)
	if len(lines) == 0 {
		return "", ErrEmptyList
	}
	return s.advisor.Advise(ctx, lines)
}

func (s *Service) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveManualList(ctx, slices.Clone(s.manual)); err != nil {
		s.logger.Warn("persist manual list", slog.Any("error", err))
	}
}
