// Package ports defines the capabilities the ledger consumes and the store
// contract it owns. Interfaces are placed here when consumed across packages
// to avoid duplication.
package ports

import (
	"context"

	"custodia/internal/audit"
	"custodia/pkg/domain"
)

// Role classifies a caller for authorization purposes. Deposit-address
// callers are not classified here; the service matches them against the live
// binding directly.
type Role int

const (
	RoleOther Role = iota
	RoleController
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleController:
		return "controller"
	default:
		return "other"
	}
}

// LifecycleState is the process-wide run/stop switch consulted by every
// mutating operation.
type LifecycleState int

const (
	StateRunning LifecycleState = iota
	StateStopped
)

func (s LifecycleState) String() string {
	if s == StateStopped {
		return "stopped"
	}
	return "running"
}

// AccessController is the consumed role/lifecycle capability. Implementations
// own transition mechanics; the ledger only reads.
type AccessController interface {
	State(ctx context.Context) (LifecycleState, error)
	Classify(ctx context.Context, caller domain.Address) (Role, error)
}

// LifecycleController extends AccessController with owner-driven transitions.
// Exposed through the admin surface, never consumed by ledger operations.
type LifecycleController interface {
	AccessController
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
}

// Vault is the external custody contract. Transfer pushes received funds into
// custody; SubmitTransaction requests an outbound disbursement. Both report
// synchronous success or failure only.
type Vault interface {
	Transfer(ctx context.Context, vault, user domain.Address, amount uint64) error
	SubmitTransaction(ctx context.Context, vault, user domain.Address, amount uint64) error
}

// Factory provisions a new deposit address owned by the ledger on behalf of a
// user. No retry contract: failures surface as-is.
type Factory interface {
	DeployDepositable(ctx context.Context, factory, user, ownerLedger domain.Address) (domain.Address, error)
}

// AuditPublisher records one event per successful mutating call.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// LedgerStore owns registry, binding and balance state. Individual methods
// are atomic; multi-step mutations run under RunInTx. Serialization of whole
// logical operations is the service's responsibility.
type LedgerStore interface {
	// IsRegistered reports registry membership.
	IsRegistered(ctx context.Context, user domain.Address) (bool, error)

	// RegistryIndex returns the user's position in the registry sequence.
	RegistryIndex(ctx context.Context, user domain.Address) (uint64, bool, error)

	// Register appends the user and returns the assigned index. Fails with
	// CodeAlreadyRegistered if the user is present.
	Register(ctx context.Context, user domain.Address) (uint64, error)

	// UserCount returns the registry length.
	UserCount(ctx context.Context) (uint64, error)

	// Balance returns the user's balance, zero for unknown users.
	Balance(ctx context.Context, user domain.Address) (uint64, error)

	// SetBalance records an already-validated balance.
	SetBalance(ctx context.Context, user domain.Address, balance uint64) error

	// Binding resolves the user's deposit address, ZeroAddress when unbound.
	Binding(ctx context.Context, user domain.Address) (domain.Address, error)

	// SetBinding overwrites the user's deposit address. ZeroAddress unbinds.
	SetBinding(ctx context.Context, user, deposit domain.Address) error

	// IncrementDeployments bumps and returns the global deployment count.
	IncrementDeployments(ctx context.Context) (uint64, error)

	// DeploymentCount returns the global deployment count.
	DeploymentCount(ctx context.Context) (uint64, error)

	// RunInTx executes fn atomically: either every store mutation made through
	// the fn's context persists, or none do.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Ping reports backend reachability for health checks.
	Ping(ctx context.Context) error
}
