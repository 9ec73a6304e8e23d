package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"custodia/pkg/domain"
	dErrors "custodia/pkg/domain-errors"
	"custodia/pkg/platform/tx"
)

// PostgresLedgerStore persists ledger state in PostgreSQL. Registry order is
// the registry_index sequence; the deployment counter lives in a single-row
// table. Mutations made inside RunInTx go through the context-scoped
// transaction so a failed multi-step operation leaves nothing behind.
type PostgresLedgerStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{db: db}
}

// Schema is applied by deploy tooling; kept here so the integration tests and
// operators share one definition.
const Schema = `
CREATE TABLE IF NOT EXISTS ledger_users (
    address        TEXT PRIMARY KEY,
    registry_index BIGINT NOT NULL,
    balance        NUMERIC(20, 0) NOT NULL DEFAULT 0 CHECK (balance >= 0),
    deposit_addr   TEXT NOT NULL DEFAULT ''
);

-- Rows created by balance or binding writes before registration carry a
-- registry_index of -1; only registered rows take part in the ordering.
CREATE UNIQUE INDEX IF NOT EXISTS ledger_users_registry_index
    ON ledger_users (registry_index) WHERE registry_index >= 0;

CREATE TABLE IF NOT EXISTS ledger_counters (
    name  TEXT PRIMARY KEY,
    value BIGINT NOT NULL
);

INSERT INTO ledger_counters (name, value)
    VALUES ('deployments', 0)
    ON CONFLICT (name) DO NOTHING;
`

// querier lets every method run against the pool or a context transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresLedgerStore) q(ctx context.Context) querier {
	if txn, ok := tx.From(ctx); ok {
		return txn
	}
	return s.db
}

func (s *PostgresLedgerStore) IsRegistered(ctx context.Context, user domain.Address) (bool, error) {
	var exists bool
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM ledger_users WHERE address = $1 AND registry_index >= 0)`,
		user.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return exists, nil
}

func (s *PostgresLedgerStore) RegistryIndex(ctx context.Context, user domain.Address) (uint64, bool, error) {
	var idx int64
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT registry_index FROM ledger_users WHERE address = $1 AND registry_index >= 0`,
		user.String(),
	).Scan(&idx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup registry index: %w", err)
	}
	return uint64(idx), true, nil
}

func (s *PostgresLedgerStore) Register(ctx context.Context, user domain.Address) (uint64, error) {
	registered, err := s.IsRegistered(ctx, user)
	if err != nil {
		return 0, err
	}
	if registered {
		return 0, dErrors.Newf(dErrors.CodeAlreadyRegistered, "user %s already registered", user)
	}

	var idx int64
	err = s.q(ctx).QueryRowContext(ctx, `
		INSERT INTO ledger_users (address, registry_index)
		VALUES ($1, (SELECT COUNT(*) FROM ledger_users WHERE registry_index >= 0))
		ON CONFLICT (address) DO UPDATE
		    SET registry_index = (SELECT COUNT(*) FROM ledger_users WHERE registry_index >= 0)
		RETURNING registry_index`,
		user.String(),
	).Scan(&idx)
	if err != nil {
		return 0, fmt.Errorf("register user: %w", err)
	}
	return uint64(idx), nil
}

func (s *PostgresLedgerStore) UserCount(ctx context.Context) (uint64, error) {
	var count int64
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ledger_users WHERE registry_index >= 0`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return uint64(count), nil
}

func (s *PostgresLedgerStore) Balance(ctx context.Context, user domain.Address) (uint64, error) {
	var balance uint64
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT balance FROM ledger_users WHERE address = $1`,
		user.String(),
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return balance, nil
}

func (s *PostgresLedgerStore) SetBalance(ctx context.Context, user domain.Address, balance uint64) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO ledger_users (address, registry_index, balance)
		VALUES ($1, -1, $2)
		ON CONFLICT (address) DO UPDATE SET balance = EXCLUDED.balance`,
		user.String(), balance,
	)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

func (s *PostgresLedgerStore) Binding(ctx context.Context, user domain.Address) (domain.Address, error) {
	var deposit string
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT deposit_addr FROM ledger_users WHERE address = $1`,
		user.String(),
	).Scan(&deposit)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ZeroAddress, nil
	}
	if err != nil {
		return domain.ZeroAddress, fmt.Errorf("resolve binding: %w", err)
	}
	return domain.Address(deposit), nil
}

func (s *PostgresLedgerStore) SetBinding(ctx context.Context, user, deposit domain.Address) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO ledger_users (address, registry_index, deposit_addr)
		VALUES ($1, -1, $2)
		ON CONFLICT (address) DO UPDATE SET deposit_addr = EXCLUDED.deposit_addr`,
		user.String(), deposit.String(),
	)
	if err != nil {
		return fmt.Errorf("set binding: %w", err)
	}
	return nil
}

func (s *PostgresLedgerStore) IncrementDeployments(ctx context.Context) (uint64, error) {
	var value int64
	err := s.q(ctx).QueryRowContext(ctx,
		`UPDATE ledger_counters SET value = value + 1 WHERE name = 'deployments' RETURNING value`,
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("increment deployments: %w", err)
	}
	return uint64(value), nil
}

func (s *PostgresLedgerStore) DeploymentCount(ctx context.Context) (uint64, error) {
	var value int64
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT value FROM ledger_counters WHERE name = 'deployments'`,
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("read deployment count: %w", err)
	}
	return uint64(value), nil
}

// RunInTx opens a serializable transaction, stows it in the context, and
// commits only if fn succeeds.
func (s *PostgresLedgerStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	txn, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx.WithTx(ctx, txn)); err != nil {
		if rbErr := txn.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresLedgerStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
