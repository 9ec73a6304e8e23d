package audit

import (
	"context"
	"sync"

	"custodia/pkg/domain"
)

// Store persists audit events in operation order.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
	ListByUser(ctx context.Context, user domain.Address) ([]Event, error)
}

// InMemoryStore keeps the ordered event log in process memory. It
// intentionally favors clarity over performance.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, user domain.Address) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.User == user {
			out = append(out, e)
		}
	}
	return out, nil
}
