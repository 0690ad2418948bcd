// Package token mints and validates the signed credentials that make up a
// session: a short-lived access token carrying the caller's identity and
// role, and a longer-lived refresh token carrying only the account ID.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"

	"github.com/dilkhush-raj/hrms/internal/domain"
)

// ErrInvalidToken covers bad signatures, malformed tokens, and expiry.
var ErrInvalidToken = errors.New("invalid token")

// AccessClaims is the custom JWT payload embedded in access tokens. The role
// is fixed at minting time; a later role change does not rewrite tokens
// already in flight.
type AccessClaims struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// Issuer signs access and refresh tokens with two distinct HS256 secrets.
type Issuer struct {
	accessKey   []byte
	refreshKey  []byte
	accessTTL   time.Duration
	hrAccessTTL time.Duration
	refreshTTL  time.Duration
}

// NewIssuer constructs an issuer. hrAccessTTL applies only to accounts whose
// role is "hr"; pass the default TTL to disable the override.
func NewIssuer(accessSecret, refreshSecret string, accessTTL, hrAccessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessKey:   []byte(accessSecret),
		refreshKey:  []byte(refreshSecret),
		accessTTL:   accessTTL,
		hrAccessTTL: hrAccessTTL,
		refreshTTL:  refreshTTL,
	}
}

// Issue mints the access/refresh pair for an account. On any signing failure
// neither token is returned; the caller must answer with a server error
// instead of a half-issued session.
func (i *Issuer) Issue(account domain.Account) (access, refresh string, err error) {
	access, err = i.IssueAccess(account)
	if err != nil {
		return "", "", err
	}
	refresh, err = i.IssueRefresh(account.ID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// IssueAccess mints a signed access token embedding {id, name, email, role}.
func (i *Issuer) IssueAccess(account domain.Account) (string, error) {
	ttl := i.accessTTL
	if account.Role == domain.RoleHR {
		ttl = i.hrAccessTTL
	}

	now := time.Now().UTC()
	std := gojwt.Claims{
		Subject:  strconv.FormatInt(account.ID, 10),
		IssuedAt: gojwt.NewNumericDate(now),
		Expiry:   gojwt.NewNumericDate(now.Add(ttl)),
	}
	custom := AccessClaims{
		Name:  account.Name,
		Email: account.Email,
		Role:  account.Role,
	}

	signed, err := i.sign(i.accessKey, std, &custom)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefresh mints a signed refresh token embedding only the account ID.
func (i *Issuer) IssueRefresh(accountID int64) (string, error) {
	now := time.Now().UTC()
	std := gojwt.Claims{
		Subject:  strconv.FormatInt(accountID, 10),
		IssuedAt: gojwt.NewNumericDate(now),
		Expiry:   gojwt.NewNumericDate(now.Add(i.refreshTTL)),
	}

	signed, err := i.sign(i.refreshKey, std, nil)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, nil
}

// ParseAccess verifies signature and expiry against the access secret and
// returns the embedded identity.
func (i *Issuer) ParseAccess(raw string) (domain.Identity, error) {
	var (
		std    gojwt.Claims
		custom AccessClaims
	)
	if err := i.parse(i.accessKey, raw, &std, &custom); err != nil {
		return domain.Identity{}, err
	}

	id, err := strconv.ParseInt(std.Subject, 10, 64)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	return domain.Identity{ID: id, Name: custom.Name, Email: custom.Email, Role: custom.Role}, nil
}

// ParseRefresh verifies signature and expiry against the refresh secret and
// returns the subject account ID.
func (i *Issuer) ParseRefresh(raw string) (int64, error) {
	var std gojwt.Claims
	if err := i.parse(i.refreshKey, raw, &std, nil); err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(std.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}

func (i *Issuer) sign(key []byte, std gojwt.Claims, custom *AccessClaims) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.HS256, Key: key},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	builder := gojwt.Signed(signer).Claims(std)
	if custom != nil {
		builder = builder.Claims(custom)
	}
	return builder.Serialize()
}

func (i *Issuer) parse(key []byte, raw string, std *gojwt.Claims, custom *AccessClaims) error {
	parsed, err := gojwt.ParseSigned(raw, []gojose.SignatureAlgorithm{gojose.HS256})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if custom != nil {
		err = parsed.Claims(key, std, custom)
	} else {
		err = parsed.Claims(key, std)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if err := std.Validate(gojwt.Expected{Time: time.Now()}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}
