package service

import (
	"context"

	"custodia/internal/ledger/models"
	"custodia/pkg/domain"
	dErrors "custodia/pkg/domain-errors"
)

// Reads are unauthenticated and never lifecycle-gated.

func (s *Service) IsRegistered(ctx context.Context, user domain.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.IsRegistered(ctx, user)
}

func (s *Service) GetBalance(ctx context.Context, user domain.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Balance(ctx, user)
}

func (s *Service) ResolveDepositAddress(ctx context.Context, user domain.Address) (domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Binding(ctx, user)
}

func (s *Service) GetVaultAddress(_ context.Context) domain.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vaultAddr
}

func (s *Service) GetFactoryAddress(_ context.Context) domain.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.factoryAddr
}

func (s *Service) DeploymentCount(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.DeploymentCount(ctx)
}

// GetUser assembles the full per-user view.
func (s *Service) GetUser(ctx context.Context, user domain.Address) (models.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index, registered, err := s.store.RegistryIndex(ctx, user)
	if err != nil {
		return models.UserRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "lookup registry index")
	}
	balance, err := s.store.Balance(ctx, user)
	if err != nil {
		return models.UserRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "read balance")
	}
	deposit, err := s.store.Binding(ctx, user)
	if err != nil {
		return models.UserRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "resolve binding")
	}
	return models.UserRecord{
		Address:        user,
		Balance:        balance,
		RegistryIndex:  index,
		Registered:     registered,
		DepositAddress: deposit,
	}, nil
}

// Health reports store backend reachability.
func (s *Service) Health(ctx context.Context) error {
	return s.store.Ping(ctx)
}
