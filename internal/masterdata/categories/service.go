package categories

import (
	"context"
	"log/slog"
	"sync"
)

// Persister stores the category labels after a change.
type Persister interface {
	SaveCategories(ctx context.Context, names []string) error
}

// Service serialises access to the category set and saves after each change.
type Service struct {
	mu     sync.Mutex
	set    *Set
	store  Persister
	logger *slog.Logger
}

// NewService wraps an already loaded set.
func NewService(set *Set, store Persister, logger *slog.Logger) *Service {
	if set == nil {
		set = NewSet(Defaults())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{set: set, store: store, logger: logger}
}

// List returns the labels in insertion order.
func (s *Service) List(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.List()
}

// Contains reports whether the label exists.
func (s *Service) Contains(ctx context.Context, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Contains(name)
}

// Add inserts a label; blanks and duplicates leave the set untouched.
func (s *Service) Add(ctx context.Context, name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set.Add(name) {
		s.persist(ctx)
	}
	return s.set.List()
}

// Remove deletes a label. Items keep whatever category string they carry.
func (s *Service) Remove(ctx context.Context, name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set.Remove(name) {
		s.persist(ctx)
	}
	return s.set.List()
}

func (s *Service) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveCategories(ctx, s.set.List()); err != nil {
		s.logger.Warn("persist categories", slog.Any("error", err))
	}
}
