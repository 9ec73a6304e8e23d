package service

import (
	"context"

	"custodia/internal/audit"
	"custodia/internal/ledger/ports"
	"custodia/pkg/domain"
	dErrors "custodia/pkg/domain-errors"
)

// SetVaultAddress reassigns the custody target. Owner-only; null rejected.
func (s *Service) SetVaultAddress(ctx context.Context, caller, addr domain.Address) (err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.set_vault_address")
	defer func() { s.finish("set_vault_address", span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.guard(ctx, caller, ports.RoleOwner); err != nil {
		return err
	}
	if addr.IsZero() {
		return dErrors.New(dErrors.CodeInvalidAddress, "vault address cannot be null")
	}

	s.vaultAddr = addr
	s.logger.InfoContext(ctx, "vault address changed", "vault", addr, "actor", caller)
	s.emit(ctx, audit.Event{
		Kind:         audit.KindVaultAddressChanged,
		Counterparty: addr,
		Actor:        caller,
	})
	return nil
}

// SetFactoryAddress reassigns the depositable provisioner. Controller-only;
// null rejected.
func (s *Service) SetFactoryAddress(ctx context.Context, caller, addr domain.Address) (err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.set_factory_address")
	defer func() { s.finish("set_factory_address", span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.guard(ctx, caller, ports.RoleController); err != nil {
		return err
	}
	if addr.IsZero() {
		return dErrors.New(dErrors.CodeInvalidAddress, "factory address cannot be null")
	}

	s.factoryAddr = addr
	s.logger.InfoContext(ctx, "factory address changed", "factory", addr, "actor", caller)
	s.emit(ctx, audit.Event{
		Kind:         audit.KindFactoryAddressChanged,
		Counterparty: addr,
		Actor:        caller,
	})
	return nil
}

// Pause flips the lifecycle switch to Stopped. Owner-only and deliberately
// not lifecycle-gated, or the switch could never be flipped back.
func (s *Service) Pause(ctx context.Context, caller domain.Address) (err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.pause")
	defer func() { s.finish("pause", span, err) }()

	if err = s.requireOwner(ctx, caller); err != nil {
		return err
	}
	if s.lifecycle == nil {
		return dErrors.New(dErrors.CodeInternal, "lifecycle transitions not supported by the configured provider")
	}
	if err = s.lifecycle.Pause(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "pause lifecycle")
	}
	s.logger.WarnContext(ctx, "system paused", "actor", caller)
	return nil
}

// Resume flips the lifecycle switch back to Running. Owner-only.
func (s *Service) Resume(ctx context.Context, caller domain.Address) (err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.resume")
	defer func() { s.finish("resume", span, err) }()

	if err = s.requireOwner(ctx, caller); err != nil {
		return err
	}
	if s.lifecycle == nil {
		return dErrors.New(dErrors.CodeInternal, "lifecycle transitions not supported by the configured provider")
	}
	if err = s.lifecycle.Resume(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "resume lifecycle")
	}
	s.logger.InfoContext(ctx, "system resumed", "actor", caller)
	return nil
}

func (s *Service) requireOwner(ctx context.Context, caller domain.Address) error {
	role, err := s.access.Classify(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "classify caller")
	}
	if role != ports.RoleOwner {
		return dErrors.Newf(dErrors.CodeUnauthorized, "caller %s is %s, owner required", caller, role)
	}
	return nil
}
