package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dilkhush-raj/hrms/internal/config"
	"github.com/dilkhush-raj/hrms/internal/domain"
	"github.com/dilkhush-raj/hrms/internal/mailer"
	"github.com/dilkhush-raj/hrms/internal/password"
	"github.com/dilkhush-raj/hrms/internal/policy"
	"github.com/dilkhush-raj/hrms/internal/repository"
	"github.com/dilkhush-raj/hrms/internal/token"
)

// AccountView is the sanitized account shape returned to clients. It never
// carries the password hash or refresh token.
type AccountView struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Role          domain.Role    `json:"role"`
	Phone         string         `json:"phone,omitempty"`
	Active        bool           `json:"active"`
	EmailVerified bool           `json:"emailVerified"`
	Profile       domain.Profile `json:"profile,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// LoginResult carries the issued token pair and the sanitized identity.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         domain.Identity
}

// AccountService implements registration, authentication and account
// administration flows.
type AccountService struct {
	accounts  repository.AccountRepository
	otp       repository.OTPStore
	mail      mailer.Mailer
	hasher    *password.Hasher
	issuer    *token.Issuer
	snowflake *snowflake.Node
	cfg       config.Config
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewAccountService wires dependencies.
func NewAccountService(accounts repository.AccountRepository, otp repository.OTPStore, mail mailer.Mailer, hasher *password.Hasher, issuer *token.Issuer, snowflake *snowflake.Node, cfg config.Config, logger *zap.Logger) *AccountService {
	return &AccountService{
		accounts:  accounts,
		otp:       otp,
		mail:      mail,
		hasher:    hasher,
		issuer:    issuer,
		snowflake: snowflake,
		cfg:       cfg,
		logger:    logger,
		tracer:    otel.Tracer("github.com/dilkhush-raj/hrms/internal/service"),
	}
}

// Register creates a candidate account and sends a welcome email. Email
// delivery failures are logged but never fail the registration.
func (s *AccountService) Register(ctx context.Context, name, email, plaintext string) error {
	ctx, span := s.startSpan(ctx, "AccountService.Register")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(email) == "" || plaintext == "" {
		return badRequest("Missing required fields")
	}
	normalized := normalizeEmail(email)
	if !validEmail(normalized) {
		return badRequest("Invalid email format")
	}
	if !validPassword(plaintext) {
		return badRequest("Invalid password format")
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		ID:           s.snowflake.Generate().Int64(),
		Name:         name,
		Email:        normalized,
		PasswordHash: hash,
		Role:         domain.RoleCandidate,
		Active:       true,
		Profile:      domain.DefaultProfile(domain.RoleCandidate),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return newAPIError(http.StatusConflict, "User already exists")
		}
		span.RecordError(err)
		return fmt.Errorf("create account: %w", err)
	}

	subject, html := mailer.WelcomeEmail(account.Name)
	if err := s.mail.Send(ctx, account.Email, subject, html); err != nil {
		s.log().Warn("welcome email failed", zap.String("email", account.Email), zap.Error(err))
	}

	s.audit("account.registered", "account_id", account.ID, "email", account.Email)
	return nil
}

// Login verifies credentials and issues a fresh token pair. The refresh
// token is persisted so it can be invalidated at logout.
func (s *AccountService) Login(ctx context.Context, email, plaintext string) (LoginResult, error) {
	ctx, span := s.startSpan(ctx, "AccountService.Login")
	defer span.End()

	if strings.TrimSpace(email) == "" {
		return LoginResult{}, badRequest("Missing email")
	}
	if strings.TrimSpace(plaintext) == "" {
		return LoginResult{}, badRequest("Missing password")
	}
	normalized := normalizeEmail(email)
	if !validEmail(normalized) {
		return LoginResult{}, badRequest("Invalid email format")
	}

	account, err := s.accounts.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, unauthorized("Invalid email or password")
		}
		span.RecordError(err)
		return LoginResult{}, fmt.Errorf("lookup account: %w", err)
	}

	valid, err := s.hasher.Verify(plaintext, account.PasswordHash)
	if err != nil || !valid {
		span.RecordError(errors.New("invalid password"))
		return LoginResult{}, unauthorized("Invalid email or password")
	}

	access, refresh, err := s.issuer.Issue(account)
	if err != nil {
		span.RecordError(err)
		return LoginResult{}, fmt.Errorf("issue tokens: %w", err)
	}

	if err := s.accounts.SetRefreshToken(ctx, account.ID, refresh); err != nil {
		span.RecordError(err)
		return LoginResult{}, fmt.Errorf("persist refresh token: %w", err)
	}

	s.audit("account.login", "account_id", account.ID, "role", account.Role)
	return LoginResult{AccessToken: access, RefreshToken: refresh, User: account.Identity()}, nil
}

// Refresh exchanges a valid refresh token for a new access token and the
// account's identity. A token that no longer matches the persisted one
// (e.g. after logout) is rejected.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (string, domain.Identity, error) {
	ctx, span := s.startSpan(ctx, "AccountService.Refresh")
	defer span.End()

	if refreshToken == "" {
		return "", domain.Identity{}, unauthorized("Refresh token missing")
	}

	accountID, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		span.RecordError(err)
		return "", domain.Identity{}, unauthorized("Invalid refresh token")
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		span.RecordError(err)
		return "", domain.Identity{}, unauthorized("Invalid refresh token")
	}
	if account.RefreshToken == "" || account.RefreshToken != refreshToken {
		return "", domain.Identity{}, unauthorized("Invalid refresh token")
	}

	access, err := s.issuer.IssueAccess(account)
	if err != nil {
		span.RecordError(err)
		return "", domain.Identity{}, fmt.Errorf("issue access token: %w", err)
	}

	s.audit("account.refresh", "account_id", account.ID)
	return access, account.Identity(), nil
}

// Logout clears the persisted refresh token, invalidating future refreshes.
func (s *AccountService) Logout(ctx context.Context, accountID int64) error {
	ctx, span := s.startSpan(ctx, "AccountService.Logout")
	defer span.End()

	if err := s.accounts.ClearRefreshToken(ctx, accountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("User not found")
		}
		span.RecordError(err)
		return fmt.Errorf("clear refresh token: %w", err)
	}

	s.audit("account.logout", "account_id", accountID)
	return nil
}

// CheckAuth loads the authenticated account in its sanitized form.
func (s *AccountService) CheckAuth(ctx context.Context, accountID int64) (AccountView, error) {
	ctx, span := s.startSpan(ctx, "AccountService.CheckAuth")
	defer span.End()

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AccountView{}, notFound("User not found")
		}
		span.RecordError(err)
		return AccountView{}, fmt.Errorf("lookup account: %w", err)
	}
	return viewOf(account), nil
}

// UpdateRole transitions the target account to a new role under the role
// policy. The profile is reset to the new role's default unless the role is
// unchanged.
func (s *AccountService) UpdateRole(ctx context.Context, caller domain.Identity, email string, newRole domain.Role) error {
	ctx, span := s.startSpan(ctx, "AccountService.UpdateRole")
	defer span.End()

	if err := policy.AuthorizeRoleChange(caller, email, newRole); err != nil {
		if errors.Is(err, policy.ErrInvalidRole) {
			return badRequest(err.Error())
		}
		return forbidden(err.Error())
	}

	normalized := normalizeEmail(email)
	if !validEmail(normalized) {
		return badRequest("Invalid email format")
	}

	target, err := s.accounts.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("User not found")
		}
		span.RecordError(err)
		return fmt.Errorf("lookup account: %w", err)
	}

	profile := target.Profile
	if target.Role != newRole {
		profile = domain.DefaultProfile(newRole)
	}
	if err := s.accounts.UpdateRole(ctx, target.ID, newRole, profile); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("User not found")
		}
		span.RecordError(err)
		return fmt.Errorf("update role: %w", err)
	}

	s.audit("account.role_updated", "caller_id", caller.ID, "target_id", target.ID, "role", newRole)
	return nil
}

// Delete removes an account under the delete policy: hr and admin may delete
// anyone, others only themselves.
func (s *AccountService) Delete(ctx context.Context, caller domain.Identity, email string) error {
	ctx, span := s.startSpan(ctx, "AccountService.Delete")
	defer span.End()

	if err := policy.AuthorizeDelete(caller, email); err != nil {
		return forbidden(err.Error())
	}

	normalized := normalizeEmail(email)
	if !validEmail(normalized) {
		return badRequest("Invalid email format")
	}

	if err := s.accounts.DeleteByEmail(ctx, normalized); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("User not found")
		}
		span.RecordError(err)
		return fmt.Errorf("delete account: %w", err)
	}

	s.audit("account.deleted", "caller_id", caller.ID, "email", normalized)
	return nil
}

// ChangePassword replaces the caller's password.
func (s *AccountService) ChangePassword(ctx context.Context, accountID int64, plaintext string) error {
	ctx, span := s.startSpan(ctx, "AccountService.ChangePassword")
	defer span.End()

	if !validPassword(plaintext) {
		return badRequest("Invalid password format")
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("User not found")
		}
		span.RecordError(err)
		return fmt.Errorf("lookup account: %w", err)
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		span.RecordError(err)
		return fmt.Errorf("update password: %w", err)
	}

	s.audit("account.password_changed", "account_id", account.ID)
	return nil
}

func viewOf(account domain.Account) AccountView {
	return AccountView{
		ID:            fmt.Sprintf("%d", account.ID),
		Name:          account.Name,
		Email:         account.Email,
		Role:          account.Role,
		Phone:         account.Phone,
		Active:        account.Active,
		EmailVerified: account.EmailVerified,
		Profile:       account.Profile,
		CreatedAt:     account.CreatedAt,
	}
}

func (s *AccountService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *AccountService) audit(event string, attrs ...any) {
	logger := s.log()
	if logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(attrs)/2+2)
	fields = append(fields, zap.String("event", event), zap.Time("timestamp", time.Now().UTC()))
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[i+1]))
	}
	logger.Info("audit", fields...)
}

func (s *AccountService) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}
