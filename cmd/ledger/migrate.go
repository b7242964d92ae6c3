package main

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	pgxstore "github.com/lborres/ledger/adapters/pgx"
	"github.com/lborres/ledger/internal/config"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.DSN == "" {
		return oops.Code("CONFIG_INVALID").Errorf("dsn is required (set LEDGER_DSN)")
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "open database").Wrap(err)
	}
	defer db.Close()

	cmd.Println("Running migrations...")
	if err := pgxstore.Migrate(cmd.Context(), db); err != nil {
		return err
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
