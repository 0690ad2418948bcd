package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dilkhush-raj/hrms/internal/domain"
	"github.com/dilkhush-raj/hrms/internal/token"
)

const identityKey = "identity"

// AccessCookie is the cookie carrying the access token.
const AccessCookie = "accessToken"

// RefreshCookie is the cookie carrying the refresh token.
const RefreshCookie = "refreshToken"

// Auth gates routes behind a valid access token.
type Auth struct {
	Issuer *token.Issuer
}

// RequireSession extracts the access token from the accessToken cookie or,
// failing that, the Authorization bearer header, validates it and attaches
// the caller identity.
func (m *Auth) RequireSession(c *gin.Context) {
	raw := bearerToken(c)
	if raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - no token provided"})
		return
	}

	identity, err := m.Issuer.ParseAccess(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - invalid token"})
		return
	}

	c.Set(identityKey, identity)
	c.Next()
}

func bearerToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetIdentity exposes the authenticated identity to handlers.
func GetIdentity(c *gin.Context) (domain.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := value.(domain.Identity)
	return identity, ok
}
