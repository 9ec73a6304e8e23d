package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"custodia/pkg/domain"
	dErrors "custodia/pkg/domain-errors"
)

const (
	alice = domain.Address("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	bob   = domain.Address("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	dep   = domain.Address("0xdddddddddddddddddddddddddddddddddddddddd")
)

type InMemoryLedgerStoreSuite struct {
	suite.Suite
	store *InMemoryLedgerStore
	ctx   context.Context
}

func TestInMemoryLedgerStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryLedgerStoreSuite))
}

func (s *InMemoryLedgerStoreSuite) SetupTest() {
	s.store = NewInMemoryLedgerStore()
	s.ctx = context.Background()
}

func (s *InMemoryLedgerStoreSuite) TestRegister() {
	s.Run("assigns sequential indices", func() {
		idx, err := s.store.Register(s.ctx, alice)
		s.Require().NoError(err)
		s.Equal(uint64(0), idx)

		idx, err = s.store.Register(s.ctx, bob)
		s.Require().NoError(err)
		s.Equal(uint64(1), idx)

		count, err := s.store.UserCount(s.ctx)
		s.Require().NoError(err)
		s.Equal(uint64(2), count)
	})

	s.Run("rejects double registration", func() {
		_, err := s.store.Register(s.ctx, alice)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeAlreadyRegistered))
	})
}

// The zeroth-registered user occupies index 0, the default index value. An
// unregistered address must still test negative.
func (s *InMemoryLedgerStoreSuite) TestZerothUserNoFalsePositive() {
	registered, err := s.store.IsRegistered(s.ctx, alice)
	s.Require().NoError(err)
	s.False(registered, "empty registry must report no members")

	_, err = s.store.Register(s.ctx, alice)
	s.Require().NoError(err)

	registered, err = s.store.IsRegistered(s.ctx, alice)
	s.Require().NoError(err)
	s.True(registered)

	registered, err = s.store.IsRegistered(s.ctx, bob)
	s.Require().NoError(err)
	s.False(registered, "unregistered address must not inherit index 0 membership")

	_, ok, err := s.store.RegistryIndex(s.ctx, bob)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *InMemoryLedgerStoreSuite) TestBalances() {
	balance, err := s.store.Balance(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(uint64(0), balance, "unknown users read as zero")

	s.Require().NoError(s.store.SetBalance(s.ctx, alice, 250))
	balance, err = s.store.Balance(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(uint64(250), balance)
}

func (s *InMemoryLedgerStoreSuite) TestBindings() {
	s.Run("unbound resolves to zero address", func() {
		bound, err := s.store.Binding(s.ctx, alice)
		s.Require().NoError(err)
		s.True(bound.IsZero())
	})

	s.Run("bind then resolve", func() {
		s.Require().NoError(s.store.SetBinding(s.ctx, alice, dep))
		bound, err := s.store.Binding(s.ctx, alice)
		s.Require().NoError(err)
		s.Equal(dep, bound)
	})

	s.Run("unbind via zero address", func() {
		s.Require().NoError(s.store.SetBinding(s.ctx, alice, domain.ZeroAddress))
		bound, err := s.store.Binding(s.ctx, alice)
		s.Require().NoError(err)
		s.True(bound.IsZero())
	})
}

func (s *InMemoryLedgerStoreSuite) TestDeploymentCounter() {
	count, err := s.store.DeploymentCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(0), count)

	count, err = s.store.IncrementDeployments(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(1), count)

	count, err = s.store.DeploymentCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(1), count)
}

func (s *InMemoryLedgerStoreSuite) TestRunInTxRollsBackOnError() {
	_, err := s.store.Register(s.ctx, alice)
	s.Require().NoError(err)
	s.Require().NoError(s.store.SetBalance(s.ctx, alice, 100))

	boom := errors.New("factory unavailable")
	err = s.store.RunInTx(s.ctx, func(ctx context.Context) error {
		if _, err := s.store.Register(ctx, bob); err != nil {
			return err
		}
		if err := s.store.SetBinding(ctx, bob, dep); err != nil {
			return err
		}
		if _, err := s.store.IncrementDeployments(ctx); err != nil {
			return err
		}
		return boom
	})
	s.Require().ErrorIs(err, boom)

	registered, err := s.store.IsRegistered(s.ctx, bob)
	s.Require().NoError(err)
	s.False(registered, "registration must not survive a failed transaction")

	bound, err := s.store.Binding(s.ctx, bob)
	s.Require().NoError(err)
	s.True(bound.IsZero())

	count, err := s.store.DeploymentCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(0), count)

	// Pre-existing state survives the rollback untouched.
	balance, err := s.store.Balance(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(uint64(100), balance)
}

func (s *InMemoryLedgerStoreSuite) TestRunInTxCommits() {
	err := s.store.RunInTx(s.ctx, func(ctx context.Context) error {
		if _, err := s.store.Register(ctx, alice); err != nil {
			return err
		}
		return s.store.SetBinding(ctx, alice, dep)
	})
	s.Require().NoError(err)

	registered, err := s.store.IsRegistered(s.ctx, alice)
	s.Require().NoError(err)
	s.True(registered)

	bound, err := s.store.Binding(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(dep, bound)
}
