package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lborres/ledger/core"
)

const userColumns = `id, username, password_hash, created_at, updated_at`

func (a *Adapter) CreateUser(ctx context.Context, user *core.User) error {
	if user.ID == "" {
		id, err := a.ids.Generate()
		if err != nil {
			return err
		}
		user.ID = id
	}

	query := `INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3) RETURNING created_at, updated_at`
	err := a.pool.QueryRow(ctx, query, user.ID, user.Username, user.PasswordHash).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return core.ErrUserExists
		}
		return unavailable(err, "create user")
	}
	return nil
}

// FindByUsername matches the username exactly; PostgreSQL TEXT equality is
// case-sensitive.
func (a *Adapter) FindByUsername(ctx context.Context, username string) (*core.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return a.findOne(ctx, "find user by username", q, username)
}

func (a *Adapter) FindByID(ctx context.Context, id string) (*core.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return a.findOne(ctx, "find user by id", q, id)
}

func (a *Adapter) DeleteUser(ctx context.Context, id string) error {
	tag, err := a.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return unavailable(err, "delete user")
	}
	if tag.RowsAffected() == 0 {
		return core.ErrUserNotFound
	}
	return nil
}

func (a *Adapter) findOne(ctx context.Context, operation, query string, arg string) (*core.User, error) {
	user := &core.User{}
	err := a.pool.QueryRow(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, core.ErrUserNotFound
		}
		return nil, unavailable(err, operation)
	}
	return user, nil
}
