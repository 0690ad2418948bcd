package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dilkhush-raj/hrms/internal/domain"
)

// Compile-time interface assertion.
var _ AccountRepository = (*PostgresAccountRepo)(nil)

const uniqueViolation = "23505"

// PostgresAccountRepo implements AccountRepository on a pgx pool.
type PostgresAccountRepo struct {
	db *pgxpool.Pool
}

func NewPostgresAccountRepo(pool *pgxpool.Pool) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: pool}
}

const accountColumns = `id, name, email, password_hash, phone, role, active, email_verified, refresh_token, profile, created_at, updated_at`

func (r *PostgresAccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE email = $1`, accountColumns)
	return r.scanAccount(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresAccountRepo) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)
	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

const insertAccountSQL = `INSERT INTO accounts (id, name, email, password_hash, phone, role, active, email_verified, profile)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (r *PostgresAccountRepo) Create(ctx context.Context, account domain.Account) error {
	profile, err := domain.EncodeProfile(account.Profile)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, insertAccountSQL,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Phone,
		string(account.Role),
		account.Active,
		account.EmailVerified,
		profile,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepo) UpdateRole(ctx context.Context, id int64, role domain.Role, profile domain.Profile) error {
	encoded, err := domain.EncodeProfile(profile)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET role = $2, profile = $3, updated_at = NOW() WHERE id = $1`,
		id, string(role), encoded)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAccountRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRefreshToken writes only the refresh_token column, so it cannot fail on
// unrelated account fields.
func (r *PostgresAccountRepo) SetRefreshToken(ctx context.Context, id int64, refreshToken string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET refresh_token = $2 WHERE id = $1`,
		id, refreshToken)
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAccountRepo) ClearRefreshToken(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET refresh_token = NULL WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAccountRepo) SetEmailVerified(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("set email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAccountRepo) DeleteByEmail(ctx context.Context, email string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAccountRepo) scanAccount(row pgx.Row) (domain.Account, error) {
	var (
		account      domain.Account
		role         string
		refreshToken sql.NullString
		phone        sql.NullString
		profileRaw   []byte
	)
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&phone,
		&role,
		&account.Active,
		&account.EmailVerified,
		&refreshToken,
		&profileRaw,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, ErrNotFound
		}
		return domain.Account{}, fmt.Errorf("scan account: %w", err)
	}

	account.Role = domain.Role(role)
	account.Phone = phone.String
	account.RefreshToken = refreshToken.String

	profile, err := domain.DecodeProfile(account.Role, profileRaw)
	if err != nil {
		return domain.Account{}, err
	}
	account.Profile = profile

	return account, nil
}
