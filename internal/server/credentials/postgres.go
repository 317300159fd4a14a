package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mkalvans/authcore/internal/dbx"
	"github.com/mkalvans/authcore/internal/domain"
)

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, cred *Credential) error {
	query := `
		INSERT INTO users (email, password_hash, requires_2fa)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, cred.Email.Expose(), cred.PasswordHash, cred.RequiresTwoFactor); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return domain.Unexpected(fmt.Errorf("db error: %w", err))
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, email domain.Email) (*Credential, error) {
	query := `
		SELECT password_hash, requires_2fa
		FROM users
		WHERE email = $1
	`
	cred := &Credential{Email: email}
	err := r.db.QueryRowContext(ctx, query, email.Expose()).Scan(&cred.PasswordHash, &cred.RequiresTwoFactor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.Unexpected(fmt.Errorf("db error: %w", err))
	}
	return cred, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, email domain.Email) error {
	query := `
		DELETE FROM users
		WHERE email = $1
	`
	res, err := r.db.ExecContext(ctx, query, email.Expose())
	if err != nil {
		return domain.Unexpected(fmt.Errorf("db error: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Unexpected(fmt.Errorf("db error: %w", err))
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
