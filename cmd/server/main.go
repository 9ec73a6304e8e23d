// Command server runs the custodial ledger: the HTTP API, the audit mirror
// worker, and the backing stores selected by configuration.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"custodia/internal/access"
	"custodia/internal/audit"
	"custodia/internal/factory"
	"custodia/internal/jwtauth"
	"custodia/internal/ledger/handler"
	"custodia/internal/ledger/metrics"
	"custodia/internal/ledger/ports"
	"custodia/internal/ledger/service"
	"custodia/internal/ledger/store"
	"custodia/internal/platform/config"
	"custodia/internal/platform/httpserver"
	"custodia/internal/platform/logger"
	"custodia/internal/platform/postgres"
	"custodia/internal/platform/redis"
	httptransport "custodia/internal/transport/http"
	"custodia/internal/vault"
	"custodia/pkg/domain"
)

const tokenIssuer = "custodia"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "custodia: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addrs, err := parseAddresses(cfg)
	if err != nil {
		return err
	}

	ledgerStore, closeStore, err := newLedgerStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	accessController, lifecycle, err := newAccessController(ctx, cfg)
	if err != nil {
		return err
	}

	auditStore := audit.NewInMemoryStore()
	var publisherOpts []audit.Option
	var sink *audit.KafkaSink
	if len(cfg.KafkaBrokers) > 0 {
		sink, err = audit.NewKafkaSink(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			return fmt.Errorf("audit sink: %w", err)
		}
		publisherOpts = append(publisherOpts, audit.WithSink(sink))
	}
	publisher := audit.NewPublisher(auditStore, publisherOpts...)

	svc, err := service.New(
		ledgerStore,
		accessController,
		vault.NewClient(cfg.VaultBaseURL, cfg.ExternalCallTimeout),
		factory.NewClient(cfg.FactoryBaseURL, cfg.ExternalCallTimeout),
		addrs,
		service.WithLogger(log),
		service.WithAuditPublisher(publisher),
		service.WithMetrics(metrics.New()),
		service.WithLifecycleController(lifecycle),
	)
	if err != nil {
		return err
	}

	tokens := jwtauth.New(cfg.JWTSigningKey, tokenIssuer)
	router := httptransport.NewRouter(handler.New(svc, publisher, tokens, log))
	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting custodia ledger", "addr", cfg.Addr, "self", addrs.Self)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if sink != nil {
		group.Go(func() error {
			if err := sink.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("audit sink: %w", err)
			}
			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func parseAddresses(cfg config.Config) (service.Addresses, error) {
	self, err := domain.ParseAddress(cfg.SelfAddress)
	if err != nil {
		return service.Addresses{}, fmt.Errorf("CUSTODIA_SELF_ADDRESS: %w", err)
	}
	addrs := service.Addresses{Self: self}
	if cfg.VaultAddress != "" {
		if addrs.Vault, err = domain.ParseAddress(cfg.VaultAddress); err != nil {
			return service.Addresses{}, fmt.Errorf("CUSTODIA_VAULT_ADDRESS: %w", err)
		}
	}
	if cfg.FactoryAddress != "" {
		if addrs.Factory, err = domain.ParseAddress(cfg.FactoryAddress); err != nil {
			return service.Addresses{}, fmt.Errorf("CUSTODIA_FACTORY_ADDRESS: %w", err)
		}
	}
	return addrs, nil
}

func newLedgerStore(ctx context.Context, cfg config.Config) (ports.LedgerStore, func(), error) {
	switch cfg.LedgerStore {
	case config.BackendMemory:
		return store.NewInMemoryLedgerStore(), func() {}, nil
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("ledger store: %w", err)
		}
		return store.NewPostgres(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger store backend %q", cfg.LedgerStore)
	}
}

func newAccessController(ctx context.Context, cfg config.Config) (ports.AccessController, ports.LifecycleController, error) {
	owner, err := domain.ParseAddress(cfg.OwnerAddress)
	if err != nil {
		return nil, nil, fmt.Errorf("CUSTODIA_OWNER_ADDRESS: %w", err)
	}
	controllers := make([]domain.Address, 0, len(cfg.Controllers))
	for _, raw := range cfg.Controllers {
		addr, err := domain.ParseAddress(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("CUSTODIA_CONTROLLERS: %w", err)
		}
		controllers = append(controllers, addr)
	}

	switch cfg.AccessStore {
	case config.BackendMemory:
		ctrl := access.NewInMemoryController(owner, controllers...)
		return ctrl, ctrl, nil
	case config.BackendRedis:
		client, err := redis.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("access store: %w", err)
		}
		ctrl := access.NewRedisController(client.Client)
		if err := ctrl.Seed(ctx, owner, controllers...); err != nil {
			return nil, nil, fmt.Errorf("seed access store: %w", err)
		}
		return ctrl, ctrl, nil
	default:
		return nil, nil, fmt.Errorf("unknown access store backend %q", cfg.AccessStore)
	}
}
