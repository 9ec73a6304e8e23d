package service

import (
	"context"
	"math"

	"custodia/internal/audit"
	"custodia/internal/ledger/models"
	"custodia/internal/ledger/ports"
	"custodia/pkg/domain"
	dErrors "custodia/pkg/domain-errors"
)

// AcceptFunds records value pushed by the user's bound deposit address and
// forwards the full amount to the vault. The caller must be the live binding
// for the named user; a formerly bound address is rejected. The credit
// persists only if the vault transfer succeeds.
func (s *Service) AcceptFunds(ctx context.Context, caller, user domain.Address, amount uint64) (err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.accept_funds")
	defer func() { s.finish("accept_funds", span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.access.State(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "read lifecycle state")
	}
	if state == ports.StateStopped {
		return dErrors.New(dErrors.CodeSystemStopped, "system is stopped")
	}

	bound, err := s.store.Binding(ctx, user)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "resolve binding")
	}
	if bound.IsZero() || caller != bound {
		return dErrors.Newf(dErrors.CodeUnauthorized, "caller %s is not the deposit address bound to %s", caller, user)
	}

	balance, err := s.store.Balance(ctx, user)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "read balance")
	}
	if amount > math.MaxUint64-balance {
		return dErrors.Newf(dErrors.CodeArithmeticOverflow, "deposit of %d overflows balance %d", amount, balance)
	}
	if s.vaultAddr.IsZero() {
		return dErrors.New(dErrors.CodeInvalidAddress, "vault address not configured")
	}

	// Forward the full received value into custody before the credit commits:
	// the ledger must never show a balance backed by funds that never reached
	// the vault.
	if err = s.vault.Transfer(ctx, s.vaultAddr, user, amount); err != nil {
		return dErrors.Wrap(err, dErrors.CodeExternalCallFailed, "vault transfer")
	}
	if err = s.store.SetBalance(ctx, user, balance+amount); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "write balance")
	}

	s.metrics.AddCredited(amount)
	s.logger.InfoContext(ctx, "user deposit accepted", "user", user, "deposit", caller, "amount", amount)
	s.emit(ctx, audit.Event{
		Kind:         audit.KindUserDeposit,
		User:         user,
		Counterparty: caller,
		Amount:       amount,
	})
	return nil
}

// RequestWithdrawal debits the user and submits a transfer request naming
// (user, amount) to the vault. The debit persists only if the vault accepted
// the request; eventual delivery is the vault's concern, retries are the
// caller's. Controller-only.
func (s *Service) RequestWithdrawal(ctx context.Context, caller, user domain.Address, amount uint64) (err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.request_withdrawal")
	defer func() { s.finish("request_withdrawal", span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.guard(ctx, caller, ports.RoleController); err != nil {
		return err
	}

	balance, err := s.store.Balance(ctx, user)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "read balance")
	}
	if balance < amount {
		return dErrors.Newf(dErrors.CodeInsufficientBalance, "balance %d cannot cover withdrawal of %d", balance, amount)
	}
	if s.vaultAddr.IsZero() {
		return dErrors.New(dErrors.CodeInvalidAddress, "vault address not configured")
	}

	if err = s.vault.SubmitTransaction(ctx, s.vaultAddr, user, amount); err != nil {
		return dErrors.Wrap(err, dErrors.CodeExternalCallFailed, "vault submission")
	}
	if err = s.store.SetBalance(ctx, user, balance-amount); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "write balance")
	}

	s.metrics.AddDebited(amount)
	s.logger.InfoContext(ctx, "withdrawal requested", "user", user, "amount", amount)
	s.emit(ctx, audit.Event{
		Kind:   audit.KindWithdrawRequested,
		User:   user,
		Actor:  caller,
		Amount: amount,
	})
	return nil
}

// DeployUserDepositable provisions a deposit address for the user: register
// if absent, refuse when already bound, ask the factory for a new address,
// then commit registration, binding and the deployment count as one unit.
// Controller-only.
func (s *Service) DeployUserDepositable(ctx context.Context, caller, user domain.Address) (dep models.Deployment, err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.deploy_user_depositable")
	defer func() { s.finish("deploy_user_depositable", span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.guard(ctx, caller, ports.RoleController); err != nil {
		return models.Deployment{}, err
	}
	if user.IsZero() {
		return models.Deployment{}, dErrors.New(dErrors.CodeInvalidAddress, "user address cannot be null")
	}

	bound, err := s.store.Binding(ctx, user)
	if err != nil {
		return models.Deployment{}, dErrors.Wrap(err, dErrors.CodeInternal, "resolve binding")
	}
	if !bound.IsZero() {
		return models.Deployment{}, dErrors.Newf(dErrors.CodeAlreadyBound, "user %s already has deposit address %s", user, bound)
	}
	if s.factoryAddr.IsZero() {
		return models.Deployment{}, dErrors.New(dErrors.CodeInvalidAddress, "factory address not configured")
	}

	registered, err := s.store.IsRegistered(ctx, user)
	if err != nil {
		return models.Deployment{}, dErrors.Wrap(err, dErrors.CodeInternal, "check registration")
	}

	// The factory call happens before any local mutation so a deploy failure
	// leaves the ledger untouched; the local steps then commit as one
	// transaction.
	newAddr, err := s.factory.DeployDepositable(ctx, s.factoryAddr, user, s.self)
	if err != nil {
		return models.Deployment{}, dErrors.Wrap(err, dErrors.CodeExternalCallFailed, "factory deploy")
	}
	if newAddr.IsZero() {
		return models.Deployment{}, dErrors.New(dErrors.CodeExternalCallFailed, "factory returned null address")
	}

	var (
		index uint64
		count uint64
	)
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		if !registered {
			if index, err = s.store.Register(ctx, user); err != nil {
				return err
			}
		}
		if err := s.store.SetBinding(ctx, user, newAddr); err != nil {
			return err
		}
		count, err = s.store.IncrementDeployments(ctx)
		return err
	})
	if err != nil {
		return models.Deployment{}, dErrors.Wrap(err, dErrors.CodeInternal, "commit deployment")
	}

	if !registered {
		s.metrics.IncRegisteredUsers()
		s.emit(ctx, audit.Event{
			Kind:     audit.KindUserInserted,
			User:     user,
			Actor:    caller,
			Sequence: index,
		})
	}
	s.metrics.IncDeployments()
	s.logger.InfoContext(ctx, "depositable deployed", "user", user, "deposit", newAddr, "count", count)
	s.emit(ctx, audit.Event{
		Kind:         audit.KindDepositableDeployed,
		User:         user,
		Counterparty: newAddr,
		Actor:        caller,
		Sequence:     count,
	})
	return models.Deployment{User: user, DepositAddress: newAddr, DeployedCount: count}, nil
}
