// Package service implements the custodial ledger operations. Every mutation
// passes the lifecycle gate, then the role gate, then performs its registry,
// binding or balance change, and finally emits one audit event. Operations
// serialize through a single lock held for the whole logical operation,
// external forwarding included, so no two mutations of the same user can
// interleave.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"custodia/internal/audit"
	"custodia/internal/ledger/metrics"
	"custodia/internal/ledger/ports"
	"custodia/pkg/domain"
	dErrors "custodia/pkg/domain-errors"
)

// Addresses carries the identity wiring the ledger starts with. Self is this
// ledger's own address, handed to the factory as the owner of every deployed
// depositable. Vault and Factory may be reassigned at runtime through the
// administrative setters.
type Addresses struct {
	Self    domain.Address
	Vault   domain.Address
	Factory domain.Address
}

type Service struct {
	// mu serializes logical operations against the shared ledger state,
	// including the external vault/factory call inside each operation.
	mu sync.RWMutex

	store     ports.LedgerStore
	access    ports.AccessController
	lifecycle ports.LifecycleController
	vault     ports.Vault
	factory   ports.Factory

	auditPublisher ports.AuditPublisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
	tracer         trace.Tracer

	self        domain.Address
	vaultAddr   domain.Address
	factoryAddr domain.Address
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLifecycleController enables the owner-driven pause/resume surface when
// the configured access provider supports transitions.
func WithLifecycleController(lc ports.LifecycleController) Option {
	return func(s *Service) {
		s.lifecycle = lc
	}
}

func New(
	store ports.LedgerStore,
	access ports.AccessController,
	vault ports.Vault,
	factory ports.Factory,
	addrs Addresses,
	opts ...Option,
) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("ledger store is required")
	}
	if access == nil {
		return nil, fmt.Errorf("access controller is required")
	}
	if vault == nil {
		return nil, fmt.Errorf("vault client is required")
	}
	if factory == nil {
		return nil, fmt.Errorf("factory client is required")
	}
	if addrs.Self.IsZero() {
		return nil, fmt.Errorf("ledger self address is required")
	}

	svc := &Service{
		store:       store,
		access:      access,
		vault:       vault,
		factory:     factory,
		logger:      slog.Default(),
		tracer:      otel.Tracer("custodia/ledger"),
		self:        addrs.Self,
		vaultAddr:   addrs.Vault,
		factoryAddr: addrs.Factory,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// guard runs the lifecycle gate then the role gate. Reads are never gated.
func (s *Service) guard(ctx context.Context, caller domain.Address, required ports.Role) error {
	state, err := s.access.State(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "read lifecycle state")
	}
	if state == ports.StateStopped {
		return dErrors.New(dErrors.CodeSystemStopped, "system is stopped")
	}
	role, err := s.access.Classify(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "classify caller")
	}
	if role != required {
		return dErrors.Newf(dErrors.CodeUnauthorized, "caller %s is %s, %s required", caller, role, required)
	}
	return nil
}

// emit records the audit event for a committed mutation. A sink failure is
// logged, never surfaced: the state change already happened.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed", "kind", event.Kind, "error", err)
	}
}

func (s *Service) finish(op string, span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
	s.metrics.RecordOperation(op, err)
}
