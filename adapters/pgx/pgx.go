// Package pgx stores users in PostgreSQL through pgx.
package pgx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/samber/oops"

	"github.com/lborres/ledger/adapters/pgx/migrations"
	"github.com/lborres/ledger/core"
	"github.com/lborres/ledger/pkg/crypto"
)

// querier is the subset of *pgxpool.Pool the adapter uses.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

type Adapter struct {
	pool querier
	ids  *crypto.IDGenerator
}

var _ core.UserStorage = (*Adapter)(nil)

func New(pool querier) *Adapter {
	return &Adapter{
		pool: pool,
		ids:  crypto.NewUserIDGenerator(),
	}
}

// Ping reports whether the database answers.
func (a *Adapter) Ping(ctx context.Context) error {
	if err := a.pool.Ping(ctx); err != nil {
		return unavailable(err, "ping")
	}
	return nil
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}
	return nil
}

func unavailable(err error, operation string) error {
	return oops.
		Code("STORE_UNAVAILABLE").
		With("operation", operation).
		Wrap(fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err))
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
