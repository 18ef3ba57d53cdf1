package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spec-kit/config-manager/internal/domain"
)

// DBTX is the subset of database/sql used by the Postgres repositories.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type postgresAccountRepository struct {
	db DBTX
}

// NewPostgresAccountRepository returns a Postgres-backed implementation.
func NewPostgresAccountRepository(db DBTX) AccountRepository {
	return &postgresAccountRepository{db: db}
}

func (r *postgresAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (username, email, password_hash, role)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (username) DO NOTHING
        RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		account.Username,
		account.Email,
		account.PasswordHash,
		string(account.Role),
	).Scan(&account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *postgresAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	const query = `
        SELECT username, email, password_hash, role, created_at
        FROM accounts WHERE username=$1`

	var (
		account domain.Account
		role    string
	)
	if err := r.db.QueryRowContext(ctx, query, username).Scan(
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&role,
		&account.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("select account: %w", err)
	}
	account.Role = domain.Role(role)
	return &account, nil
}
