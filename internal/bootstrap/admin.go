package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dilkhush-raj/hrms/internal/config"
	"github.com/dilkhush-raj/hrms/internal/domain"
	"github.com/dilkhush-raj/hrms/internal/password"
	"github.com/dilkhush-raj/hrms/internal/repository"
)

// EnsureAdmin creates a default admin account at startup if ADMIN_EMAIL and
// ADMIN_PASSWORD are configured and no such account exists.
func EnsureAdmin(lc fx.Lifecycle, cfg config.Config, accounts repository.AccountRepository, hasher *password.Hasher, node *snowflake.Node, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ensureAdmin(ctx, cfg, accounts, hasher, node, logger)
		},
	})
}

func ensureAdmin(ctx context.Context, cfg config.Config, accounts repository.AccountRepository, hasher *password.Hasher, node *snowflake.Node, logger *zap.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || strings.TrimSpace(cfg.AdminPassword) == "" {
		return nil
	}

	if _, err := accounts.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("bootstrap lookup account: %w", err)
	}

	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap hash password: %w", err)
	}

	account := domain.Account{
		ID:           node.Generate().Int64(),
		Name:         "Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Active:       true,
		Profile:      domain.DefaultProfile(domain.RoleAdmin),
	}

	if err := accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil
		}
		return fmt.Errorf("bootstrap create account: %w", err)
	}

	if logger != nil {
		logger.Info("bootstrap admin account created",
			zap.String("email", account.Email),
			zap.Int64("account_id", account.ID),
		)
	}
	return nil
}
