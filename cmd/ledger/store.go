package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/lborres/ledger/adapters/memory"
	pgxstore "github.com/lborres/ledger/adapters/pgx"
	"github.com/lborres/ledger/core"
)

type userStore interface {
	core.UserStorage
	DeleteUser(ctx context.Context, id string) error
}

// openStore connects to PostgreSQL when dsn is set and falls back to an
// in-memory store otherwise. The returned func releases the connection.
func openStore(ctx context.Context, dsn string, logger zerolog.Logger) (userStore, func(), error) {
	if dsn == "" {
		logger.Warn().Msg("no dsn configured, users are kept in memory")
		return memory.New(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, oops.Code("DB_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}

	store := pgxstore.New(pool)
	if err := waitForDatabase(ctx, store, logger); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return store, pool.Close, nil
}

// waitForDatabase pings until the database answers or the attempts run out.
func waitForDatabase(ctx context.Context, store *pgxstore.Adapter, logger zerolog.Logger) error {
	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := store.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("database not ready, retrying")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "ping database").Wrap(err)
	}
	return nil
}
