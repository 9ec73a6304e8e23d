package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"custodia/internal/access"
	"custodia/internal/audit"
	"custodia/internal/ledger/store"
	"custodia/pkg/domain"
	dErrors "custodia/pkg/domain-errors"
)

const (
	selfAddr    = domain.Address("0x5e1f5e1f5e1f5e1f5e1f5e1f5e1f5e1f5e1f5e1f")
	ownerAddr   = domain.Address("0x1111111111111111111111111111111111111111")
	ctrlAddr    = domain.Address("0x2222222222222222222222222222222222222222")
	otherAddr   = domain.Address("0x3333333333333333333333333333333333333333")
	vaultAddr   = domain.Address("0x4444444444444444444444444444444444444444")
	factoryAddr = domain.Address("0x5555555555555555555555555555555555555555")
	userAddr    = domain.Address("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	user2Addr   = domain.Address("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	depAddr     = domain.Address("0xdddddddddddddddddddddddddddddddddddddddd")
)

type vaultCall struct {
	vault  domain.Address
	user   domain.Address
	amount uint64
}

type fakeVault struct {
	inflow      uint64
	transfers   []vaultCall
	submissions []vaultCall
	transferErr error
	submitErr   error
}

func (v *fakeVault) Transfer(_ context.Context, vault, user domain.Address, amount uint64) error {
	if v.transferErr != nil {
		return v.transferErr
	}
	v.inflow += amount
	v.transfers = append(v.transfers, vaultCall{vault, user, amount})
	return nil
}

func (v *fakeVault) SubmitTransaction(_ context.Context, vault, user domain.Address, amount uint64) error {
	if v.submitErr != nil {
		return v.submitErr
	}
	v.submissions = append(v.submissions, vaultCall{vault, user, amount})
	return nil
}

type fakeFactory struct {
	deployed  int
	deployErr error
	next      domain.Address
}

func (f *fakeFactory) DeployDepositable(_ context.Context, _, _, _ domain.Address) (domain.Address, error) {
	if f.deployErr != nil {
		return domain.ZeroAddress, f.deployErr
	}
	f.deployed++
	if !f.next.IsZero() {
		return f.next, nil
	}
	return domain.Address(fmt.Sprintf("0x%040x", f.deployed)), nil
}

type ServiceSuite struct {
	suite.Suite
	ctx        context.Context
	store      *store.InMemoryLedgerStore
	accessCtrl *access.InMemoryController
	vault      *fakeVault
	factory    *fakeFactory
	auditLog   *audit.InMemoryStore
	svc        *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemoryLedgerStore()
	s.accessCtrl = access.NewInMemoryController(ownerAddr, ctrlAddr)
	s.vault = &fakeVault{}
	s.factory = &fakeFactory{}
	s.auditLog = audit.NewInMemoryStore()

	svc, err := New(
		s.store,
		s.accessCtrl,
		s.vault,
		s.factory,
		Addresses{Self: selfAddr, Vault: vaultAddr, Factory: factoryAddr},
		WithAuditPublisher(audit.NewPublisher(s.auditLog)),
		WithLifecycleController(s.accessCtrl),
	)
	s.Require().NoError(err)
	s.svc = svc
}

func (s *ServiceSuite) events() []audit.Event {
	events, err := s.auditLog.List(s.ctx)
	s.Require().NoError(err)
	return events
}

func (s *ServiceSuite) lastEvent() audit.Event {
	events := s.events()
	s.Require().NotEmpty(events)
	return events[len(events)-1]
}

func (s *ServiceSuite) TestRegister() {
	s.Run("controller registers a user", func() {
		reg, err := s.svc.Register(s.ctx, ctrlAddr, userAddr)
		s.Require().NoError(err)
		s.Equal(uint64(0), reg.Index)

		registered, err := s.svc.IsRegistered(s.ctx, userAddr)
		s.Require().NoError(err)
		s.True(registered)

		last := s.lastEvent()
		s.Equal(audit.KindUserInserted, last.Kind)
		s.Equal(userAddr, last.User)
		s.Equal(uint64(0), last.Sequence)
	})

	s.Run("second registration always fails", func() {
		_, err := s.svc.Register(s.ctx, ctrlAddr, userAddr)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeAlreadyRegistered))
	})

	s.Run("owner is not a controller", func() {
		_, err := s.svc.Register(s.ctx, ownerAddr, user2Addr)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	s.Run("unknown caller rejected", func() {
		_, err := s.svc.Register(s.ctx, otherAddr, user2Addr)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	s.Run("null user rejected", func() {
		_, err := s.svc.Register(s.ctx, ctrlAddr, domain.ZeroAddress)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInvalidAddress))
	})
}

func (s *ServiceSuite) TestBindResolveUnbind() {
	s.Require().NoError(s.svc.Bind(s.ctx, ctrlAddr, userAddr, depAddr))

	resolved, err := s.svc.ResolveDepositAddress(s.ctx, userAddr)
	s.Require().NoError(err)
	s.Equal(depAddr, resolved)

	s.Require().NoError(s.svc.Unbind(s.ctx, ctrlAddr, userAddr))

	resolved, err = s.svc.ResolveDepositAddress(s.ctx, userAddr)
	s.Require().NoError(err)
	s.True(resolved.IsZero())
}

func (s *ServiceSuite) TestBindIsPermissiveAcrossUsers() {
	// The mapping deliberately allows one address bound to two users.
	s.Require().NoError(s.svc.Bind(s.ctx, ctrlAddr, userAddr, depAddr))
	s.Require().NoError(s.svc.Bind(s.ctx, ctrlAddr, user2Addr, depAddr))

	a, err := s.svc.ResolveDepositAddress(s.ctx, userAddr)
	s.Require().NoError(err)
	b, err := s.svc.ResolveDepositAddress(s.ctx, user2Addr)
	s.Require().NoError(err)
	s.Equal(a, b)
}

func (s *ServiceSuite) TestCreditDebitRoundTrip() {
	s.Require().NoError(s.svc.Credit(s.ctx, ctrlAddr, userAddr, 500, "ref-1"))

	balance, err := s.svc.GetBalance(s.ctx, userAddr)
	s.Require().NoError(err)
	s.Equal(uint64(500), balance)

	s.Require().NoError(s.svc.Debit(s.ctx, ctrlAddr, userAddr, 500, "ref-2"))

	balance, err = s.svc.GetBalance(s.ctx, userAddr)
	s.Require().NoError(err)
	s.Equal(uint64(0), balance, "credit then debit of the same amount restores the prior balance")
}

func (s *ServiceSuite) TestCreditUnregisteredUser() {
	// No existence check: crediting creates a zero-initialized record.
	s.Require().NoError(s.svc.Credit(s.ctx, ctrlAddr, user2Addr, 7, ""))

	registered, err := s.svc.IsRegistered(s.ctx, user2Addr)
	s.Require().NoError(err)
	s.False(registered)

	balance, err := s.svc.GetBalance(s.ctx, user2Addr)
	s.Require().NoError(err)
	s.Equal(uint64(7), balance)
}

func (s *ServiceSuite) TestCreditOverflow() {
	s.Require().NoError(s.svc.Credit(s.ctx, ctrlAddr, userAddr, ^uint64(0), ""))

	err := s.svc.Credit(s.ctx, ctrlAddr, userAddr, 1, "")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeArithmeticOverflow))

	balance, err := s.svc.GetBalance(s.ctx, userAddr)
	s.Require().NoError(err)
	s.Equal(^uint64(0), balance, "failed credit must not change the balance")
}

func (s *ServiceSuite) TestDebitInsufficientBalance() {
	s.Require().NoError(s.svc.Credit(s.ctx, ctrlAddr, userAddr, 100, ""))

	err := s.svc.Debit(s.ctx, ctrlAddr, userAddr, 150, "")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeInsufficientBalance))

	balance, err := s.svc.GetBalance(s.ctx, userAddr)
	s.Require().NoError(err)
	s.Equal(uint64(100), balance, "failed debit must leave the balance unchanged")
}

func (s *ServiceSuite) TestCreditEventReferences() {
	s.Require().NoError(s.svc.Credit(s.ctx, ctrlAddr, userAddr, 10, "invoice-42"))
	last := s.lastEvent()
	s.Equal(audit.KindCreditDeposited, last.Kind)
	s.Equal("invoice-42", last.Reference)

	s.Require().NoError(s.svc.Debit(s.ctx, ctrlAddr, userAddr, 10, "invoice-42"))
	last = s.lastEvent()
	s.Equal(audit.KindCreditCollected, last.Kind)
	s.Equal("invoice-42", last.Reference)
}

func (s *ServiceSuite) TestAcceptFundsFullScenario() {
	// Register U, deploy a depositable receiving D, push 100 from D.
	_, err := s.svc.Register(s.ctx, ctrlAddr, userAddr)
	s.Require().NoError(err)

	dep, err := s.svc.DeployUserDepositable(s.ctx, ctrlAddr, userAddr)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.AcceptFunds(s.ctx, dep.DepositAddress, userAddr, 100))

	balance, err := s.svc.GetBalance(s.ctx, userAddr)
	s.Require().NoError(err)
	s.Equal(uint64(100), balance)

	s.Equal(uint64(100), s.vault.inflow, "vault recorded inflow increases by the deposit")

	last := s.lastEvent()
	s.Equal(audit.KindUserDeposit, last.Kind)
	s.Equal(userAddr, last.User)
	s.Equal(dep.DepositAddress, last.Counterparty)
	s.Equal(uint64(100), last.Amount)
}

func (s *ServiceSuite) TestAcceptFundsRejectsUnboundCaller() {
	s.Require().NoError(s.svc.Bind(s.ctx, ctrlAddr, userAddr, depAddr))

	err := s.svc.AcceptFunds(s.ctx, otherAddr, userAddr, 50)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestAcceptFundsRejectsFormerlyBoundAddress() {
	s.Require().NoError(s.svc.Bind(s.ctx, ctrlAddr, userAddr, depAddr))
	s.Require().NoError(s.svc.Unbind(s.ctx, ctrlAddr, userAddr))

	err := s.svc.AcceptFunds(s.ctx, depAddr, userAddr, 50)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeUnauthorized))

	balance, err := s.svc.GetBalance(s.ctx, userAddr)
	s.Require().NoError(err)
	s.Equal(uint64(0), balance)
}

func (s *ServiceSuite) TestAcceptFundsVaultFailureIsAtomic() {
	s.Require().NoError(s.svc.Bind(s.ctx, ctrlAddr, userAddr, depAddr))
	s.vault.transferErr = errors.New("transfer reverted")

	err := s.svc.AcceptFunds(s.ctx, depAddr, userAddr, 100)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeExternalCallFailed))

	balance, err := s.svc.GetBalance(s.ctx, userAddr)
	s.Require().NoError(err)
	s.Equal(uint64(0), balance, "credit must not persist when forwarding fails")
	s.Equal(uint64(0), s.vault.inflow)
}

func (s *ServiceSuite) TestRequestWithdrawal() {
	s.Require().NoError(s.svc.Credit(s.ctx, ctrlAddr, userAddr, 300, ""))

	s.Run("debits and submits to the vault", func() {
		s.Require().NoError(s.svc.RequestWithdrawal(s.ctx, ctrlAddr, userAddr, 120))

		balance, err := s.svc.GetBalance(s.ctx, userAddr)
		s.Require().NoError(err)
		s.Equal(uint64(180), balance)

		s.Require().Len(s.vault.submissions, 1)
		s.Equal(vaultCall{vaultAddr, userAddr, 120}, s.vault.submissions[0])

		last := s.lastEvent()
		s.Equal(audit.KindWithdrawRequested, last.Kind)
		s.Equal(uint64(120), last.Amount)
	})

	s.Run("insufficient balance leaves state untouched", func() {
		err := s.svc.RequestWithdrawal(s.ctx, ctrlAddr, userAddr, 500)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInsufficientBalance))
	})

	s.Run("vault rejection rolls the debit back", func() {
		s.vault.submitErr = errors.New("vault unavailable")
		err := s.svc.RequestWithdrawal(s.ctx, ctrlAddr, userAddr, 50)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeExternalCallFailed))

		balance, err := s.svc.GetBalance(s.ctx, userAddr)
		s.Require().NoError(err)
		s.Equal(uint64(180), balance)
	})

	s.Run("non-controller rejected", func() {
		err := s.svc.RequestWithdrawal(s.ctx, otherAddr, userAddr, 10)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
	})
}

func (s *ServiceSuite) TestDeployUserDepositable() {
	s.Run("registers unregistered user and binds", func() {
		dep, err := s.svc.DeployUserDepositable(s.ctx, ctrlAddr, userAddr)
		s.Require().NoError(err)
		s.False(dep.DepositAddress.IsZero())
		s.Equal(uint64(1), dep.DeployedCount)

		registered, err := s.svc.IsRegistered(s.ctx, userAddr)
		s.Require().NoError(err)
		s.True(registered)

		resolved, err := s.svc.ResolveDepositAddress(s.ctx, userAddr)
		s.Require().NoError(err)
		s.Equal(dep.DepositAddress, resolved)

		events := s.events()
		s.Require().Len(events, 2)
		s.Equal(audit.KindUserInserted, events[0].Kind)
		s.Equal(audit.KindDepositableDeployed, events[1].Kind)
		s.Equal(uint64(1), events[1].Sequence)
	})

	s.Run("refuses a second live binding", func() {
		_, err := s.svc.DeployUserDepositable(s.ctx, ctrlAddr, userAddr)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeAlreadyBound))
	})

	s.Run("factory failure leaves no partial state", func() {
		s.factory.deployErr = errors.New("deploy reverted")
		_, err := s.svc.DeployUserDepositable(s.ctx, ctrlAddr, user2Addr)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeExternalCallFailed))

		registered, err := s.svc.IsRegistered(s.ctx, user2Addr)
		s.Require().NoError(err)
		s.False(registered, "registration must roll back with the failed deploy")

		count, err := s.svc.DeploymentCount(s.ctx)
		s.Require().NoError(err)
		s.Equal(uint64(1), count)
	})
}

func (s *ServiceSuite) TestAdministrativeSetters() {
	newVault := domain.Address("0x6666666666666666666666666666666666666666")
	newFactory := domain.Address("0x7777777777777777777777777777777777777777")

	s.Run("owner reassigns the vault", func() {
		s.Require().NoError(s.svc.SetVaultAddress(s.ctx, ownerAddr, newVault))
		s.Equal(newVault, s.svc.GetVaultAddress(s.ctx))

		last := s.lastEvent()
		s.Equal(audit.KindVaultAddressChanged, last.Kind)
		s.Equal(newVault, last.Counterparty)
		s.Equal(ownerAddr, last.Actor)
	})

	s.Run("controller cannot reassign the vault", func() {
		err := s.svc.SetVaultAddress(s.ctx, ctrlAddr, vaultAddr)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	s.Run("null vault rejected, address unchanged", func() {
		err := s.svc.SetVaultAddress(s.ctx, ownerAddr, domain.ZeroAddress)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInvalidAddress))
		s.Equal(newVault, s.svc.GetVaultAddress(s.ctx))
	})

	s.Run("controller reassigns the factory", func() {
		s.Require().NoError(s.svc.SetFactoryAddress(s.ctx, ctrlAddr, newFactory))
		s.Equal(newFactory, s.svc.GetFactoryAddress(s.ctx))
	})

	s.Run("owner cannot reassign the factory", func() {
		err := s.svc.SetFactoryAddress(s.ctx, ownerAddr, factoryAddr)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
	})
}

func (s *ServiceSuite) TestStoppedGatesEveryMutation() {
	s.Require().NoError(s.svc.Bind(s.ctx, ctrlAddr, userAddr, depAddr))
	s.Require().NoError(s.svc.Credit(s.ctx, ctrlAddr, userAddr, 100, ""))
	s.Require().NoError(s.svc.Pause(s.ctx, ownerAddr))

	mutations := map[string]func() error{
		"register": func() error { _, err := s.svc.Register(s.ctx, ctrlAddr, user2Addr); return err },
		"bind":     func() error { return s.svc.Bind(s.ctx, ctrlAddr, userAddr, depAddr) },
		"unbind":   func() error { return s.svc.Unbind(s.ctx, ctrlAddr, userAddr) },
		"credit":   func() error { return s.svc.Credit(s.ctx, ctrlAddr, userAddr, 1, "") },
		"debit":    func() error { return s.svc.Debit(s.ctx, ctrlAddr, userAddr, 1, "") },
		"accept_funds": func() error {
			return s.svc.AcceptFunds(s.ctx, depAddr, userAddr, 1)
		},
		"request_withdrawal": func() error {
			return s.svc.RequestWithdrawal(s.ctx, ctrlAddr, userAddr, 1)
		},
		"deploy": func() error { _, err := s.svc.DeployUserDepositable(s.ctx, ctrlAddr, user2Addr); return err },
		"set_vault": func() error {
			return s.svc.SetVaultAddress(s.ctx, ownerAddr, vaultAddr)
		},
		"set_factory": func() error {
			return s.svc.SetFactoryAddress(s.ctx, ctrlAddr, factoryAddr)
		},
	}
	for name, mutate := range mutations {
		err := mutate()
		s.Require().Error(err, name)
		s.True(dErrors.Is(err, dErrors.CodeSystemStopped), "%s must fail with SystemStopped, got %v", name, err)
	}

	// Reads stay open while stopped.
	balance, err := s.svc.GetBalance(s.ctx, userAddr)
	s.Require().NoError(err)
	s.Equal(uint64(100), balance)

	// Owner resumes and mutations work again.
	s.Require().NoError(s.svc.Resume(s.ctx, ownerAddr))
	s.Require().NoError(s.svc.Credit(s.ctx, ctrlAddr, userAddr, 1, ""))
}

func (s *ServiceSuite) TestPauseResumeOwnerOnly() {
	err := s.svc.Pause(s.ctx, ctrlAddr)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeUnauthorized))

	s.Require().NoError(s.svc.Pause(s.ctx, ownerAddr))

	err = s.svc.Resume(s.ctx, ctrlAddr)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeUnauthorized))

	s.Require().NoError(s.svc.Resume(s.ctx, ownerAddr))
}

func (s *ServiceSuite) TestGetUser() {
	_, err := s.svc.Register(s.ctx, ctrlAddr, userAddr)
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Bind(s.ctx, ctrlAddr, userAddr, depAddr))
	s.Require().NoError(s.svc.Credit(s.ctx, ctrlAddr, userAddr, 42, ""))

	record, err := s.svc.GetUser(s.ctx, userAddr)
	s.Require().NoError(err)
	s.True(record.Registered)
	s.Equal(uint64(0), record.RegistryIndex)
	s.Equal(uint64(42), record.Balance)
	s.Equal(depAddr, record.DepositAddress)
}
