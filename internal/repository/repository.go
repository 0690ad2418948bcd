package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dilkhush-raj/hrms/internal/domain"
)

var (
	// ErrNotFound signals a lookup that matched no account.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicateEmail surfaces the storage-level unique constraint; with
	// two concurrent registrations exactly one insert wins.
	ErrDuplicateEmail = errors.New("email already registered")
)

// AccountRepository exposes persistence for accounts. Emails are expected
// pre-normalized (lower-cased, trimmed) by callers.
type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByID(ctx context.Context, id int64) (domain.Account, error)
	Create(ctx context.Context, account domain.Account) error
	UpdateRole(ctx context.Context, id int64, role domain.Role, profile domain.Profile) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetRefreshToken(ctx context.Context, id int64, refreshToken string) error
	ClearRefreshToken(ctx context.Context, id int64) error
	SetEmailVerified(ctx context.Context, id int64) error
	DeleteByEmail(ctx context.Context, email string) error
}

// OTPStore keeps short-lived email verification codes.
type OTPStore interface {
	SaveCode(ctx context.Context, email, code string, ttl time.Duration) error
	// GetCode returns "" without error when no code is stored.
	GetCode(ctx context.Context, email string) (string, error)
	DeleteCode(ctx context.Context, email string) error
}
