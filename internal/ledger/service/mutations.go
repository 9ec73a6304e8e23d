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

// Register appends the user to the registry and returns the assigned index.
// Controller-only.
func (s *Service) Register(ctx context.Context, caller, user domain.Address) (reg models.Registration, err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.register")
	defer func() { s.finish("register", span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.guard(ctx, caller, ports.RoleController); err != nil {
		return models.Registration{}, err
	}
	if user.IsZero() {
		return models.Registration{}, dErrors.New(dErrors.CodeInvalidAddress, "user address cannot be null")
	}

	index, err := s.store.Register(ctx, user)
	if err != nil {
		return models.Registration{}, err
	}

	s.metrics.IncRegisteredUsers()
	s.logger.InfoContext(ctx, "user registered", "user", user, "index", index)
	s.emit(ctx, audit.Event{
		Kind:     audit.KindUserInserted,
		User:     user,
		Actor:    caller,
		Sequence: index,
	})
	return models.Registration{User: user, Index: index}, nil
}

// Bind overwrites the user's deposit address. The mapping is permissive: no
// check that the address is not already bound to another user.
// Controller-only.
func (s *Service) Bind(ctx context.Context, caller, user, deposit domain.Address) (err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.bind")
	defer func() { s.finish("bind", span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.guard(ctx, caller, ports.RoleController); err != nil {
		return err
	}
	if err = s.store.SetBinding(ctx, user, deposit); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "store binding")
	}
	s.logger.InfoContext(ctx, "deposit address bound", "user", user, "deposit", deposit)
	return nil
}

// Unbind clears the user's deposit address; no prior-state check.
// Controller-only.
func (s *Service) Unbind(ctx context.Context, caller, user domain.Address) (err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.unbind")
	defer func() { s.finish("unbind", span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.guard(ctx, caller, ports.RoleController); err != nil {
		return err
	}
	if err = s.store.SetBinding(ctx, user, domain.ZeroAddress); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "clear binding")
	}
	s.logger.InfoContext(ctx, "deposit address unbound", "user", user)
	return nil
}

// Credit adds amount to the user's balance. Crediting an unregistered user is
// permitted and creates a zero-initialized balance record implicitly.
// Controller-only.
func (s *Service) Credit(ctx context.Context, caller, user domain.Address, amount uint64, reference string) (err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.credit")
	defer func() { s.finish("credit", span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.guard(ctx, caller, ports.RoleController); err != nil {
		return err
	}
	if err = s.applyCredit(ctx, user, amount); err != nil {
		return err
	}

	s.metrics.AddCredited(amount)
	s.logger.InfoContext(ctx, "credit deposited", "user", user, "amount", amount, "reference", reference)
	s.emit(ctx, audit.Event{
		Kind:      audit.KindCreditDeposited,
		User:      user,
		Actor:     caller,
		Amount:    amount,
		Reference: reference,
	})
	return nil
}

// Debit subtracts amount from the user's balance, failing with
// InsufficientBalance when the balance cannot cover it. Controller-only.
func (s *Service) Debit(ctx context.Context, caller, user domain.Address, amount uint64, reference string) (err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.debit")
	defer func() { s.finish("debit", span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.guard(ctx, caller, ports.RoleController); err != nil {
		return err
	}
	if err = s.applyDebit(ctx, user, amount); err != nil {
		return err
	}

	s.metrics.AddDebited(amount)
	s.logger.InfoContext(ctx, "credit collected", "user", user, "amount", amount, "reference", reference)
	s.emit(ctx, audit.Event{
		Kind:      audit.KindCreditCollected,
		User:      user,
		Actor:     caller,
		Amount:    amount,
		Reference: reference,
	})
	return nil
}

// applyCredit performs the overflow-checked addition. Callers hold s.mu.
func (s *Service) applyCredit(ctx context.Context, user domain.Address, amount uint64) error {
	balance, err := s.store.Balance(ctx, user)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "read balance")
	}
	if amount > math.MaxUint64-balance {
		return dErrors.Newf(dErrors.CodeArithmeticOverflow, "credit of %d overflows balance %d", amount, balance)
	}
	if err := s.store.SetBalance(ctx, user, balance+amount); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "write balance")
	}
	return nil
}

// applyDebit performs the underflow-checked subtraction. Callers hold s.mu.
func (s *Service) applyDebit(ctx context.Context, user domain.Address, amount uint64) error {
	balance, err := s.store.Balance(ctx, user)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "read balance")
	}
	if balance < amount {
		return dErrors.Newf(dErrors.CodeInsufficientBalance, "balance %d cannot cover %d", balance, amount)
	}
	if err := s.store.SetBalance(ctx, user, balance-amount); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "write balance")
	}
	return nil
}
