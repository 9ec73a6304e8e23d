// Package store provides the ledger state backends. The in-memory store is
// the default; PostgreSQL backs multi-process deployments.
package store

import (
	"context"
	"sync"

	"custodia/pkg/domain"
	dErrors "custodia/pkg/domain-errors"
)

// InMemoryLedgerStore keeps registry, bindings and balances in process
// memory. The registry is an append-only sequence with a reverse index;
// map presence is the membership sentinel, so the zeroth-registered user can
// never false-positive against an uninitialized index.
type InMemoryLedgerStore struct {
	mu          sync.RWMutex
	users       []domain.Address
	index       map[domain.Address]uint64
	balances    map[domain.Address]uint64
	bindings    map[domain.Address]domain.Address
	deployments uint64

	// txMu serializes RunInTx blocks so snapshot/restore stays coherent.
	txMu sync.Mutex
}

func NewInMemoryLedgerStore() *InMemoryLedgerStore {
	return &InMemoryLedgerStore{
		index:    make(map[domain.Address]uint64),
		balances: make(map[domain.Address]uint64),
		bindings: make(map[domain.Address]domain.Address),
	}
}

func (s *InMemoryLedgerStore) IsRegistered(_ context.Context, user domain.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.index[user]
	return ok && s.users[idx] == user, nil
}

func (s *InMemoryLedgerStore) RegistryIndex(_ context.Context, user domain.Address) (uint64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.index[user]
	return idx, ok, nil
}

func (s *InMemoryLedgerStore) Register(_ context.Context, user domain.Address) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[user]; ok {
		return 0, dErrors.Newf(dErrors.CodeAlreadyRegistered, "user %s already registered", user)
	}
	idx := uint64(len(s.users))
	s.users = append(s.users, user)
	s.index[user] = idx
	return idx, nil
}

func (s *InMemoryLedgerStore) UserCount(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.users)), nil
}

func (s *InMemoryLedgerStore) Balance(_ context.Context, user domain.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[user], nil
}

func (s *InMemoryLedgerStore) SetBalance(_ context.Context, user domain.Address, balance uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[user] = balance
	return nil
}

func (s *InMemoryLedgerStore) Binding(_ context.Context, user domain.Address) (domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bindings[user], nil
}

func (s *InMemoryLedgerStore) SetBinding(_ context.Context, user, deposit domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if deposit.IsZero() {
		delete(s.bindings, user)
		return nil
	}
	s.bindings[user] = deposit
	return nil
}

func (s *InMemoryLedgerStore) IncrementDeployments(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deployments++
	return s.deployments, nil
}

func (s *InMemoryLedgerStore) DeploymentCount(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deployments, nil
}

// RunInTx snapshots all state, runs fn, and restores the snapshot on error so
// multi-step mutations stay all-or-nothing.
func (s *InMemoryLedgerStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *InMemoryLedgerStore) Ping(_ context.Context) error {
	return nil
}

type memorySnapshot struct {
	users       []domain.Address
	index       map[domain.Address]uint64
	balances    map[domain.Address]uint64
	bindings    map[domain.Address]domain.Address
	deployments uint64
}

func (s *InMemoryLedgerStore) snapshot() memorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := memorySnapshot{
		users:       make([]domain.Address, len(s.users)),
		index:       make(map[domain.Address]uint64, len(s.index)),
		balances:    make(map[domain.Address]uint64, len(s.balances)),
		bindings:    make(map[domain.Address]domain.Address, len(s.bindings)),
		deployments: s.deployments,
	}
	copy(snap.users, s.users)
	for k, v := range s.index {
		snap.index[k] = v
	}
	for k, v := range s.balances {
		snap.balances[k] = v
	}
	for k, v := range s.bindings {
		snap.bindings[k] = v
	}
	return snap
}

func (s *InMemoryLedgerStore) restore(snap memorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.index = snap.index
	s.balances = snap.balances
	s.bindings = snap.bindings
	s.deployments = snap.deployments
}
