package memory

import (
	"context"
	"sync"

	"trustlink/pkg/domain"
	audit "trustlink/pkg/platform/audit"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	events map[domain.Principal][]audit.Event
	all    []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[domain.Principal][]audit.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Principal] = append(s.events[event.Principal], event)
	s.all = append(s.all, event)
	return nil
}

func (s *InMemoryStore) ListByPrincipal(_ context.Context, principal domain.Principal) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[principal]...), nil
}

// ListRecent returns the last limit events in append order.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := max(len(s.all)-limit, 0)
	return append([]audit.Event{}, s.all[start:]...), nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[domain.Principal][]audit.Event)
	s.all = nil
}
