package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dilkhush-raj/hrms/internal/config"
	"github.com/dilkhush-raj/hrms/internal/domain"
	"github.com/dilkhush-raj/hrms/internal/http/middleware"
	"github.com/dilkhush-raj/hrms/internal/service"
)

// AuthHandler exposes the account and session endpoints.
type AuthHandler struct {
	Accounts *service.AccountService
	cfg      config.Config
}

// NewAuthHandler creates the handler set.
func NewAuthHandler(accounts *service.AccountService, cfg config.Config) *AuthHandler {
	return &AuthHandler{Accounts: accounts, cfg: cfg}
}

// Register creates a new candidate account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if err := h.Accounts.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User registered successfully"})
}

// Login authenticates credentials and sets the session cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	result, err := h.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setCookie(c, middleware.AccessCookie, result.AccessToken, h.accessMaxAge(result.User.Role))
	h.setCookie(c, middleware.RefreshCookie, result.RefreshToken, int(h.cfg.RefreshTokenTTL.Seconds()))

	c.JSON(http.StatusOK, gin.H{"status": "success", "user": result.User})
}

// Refresh exchanges the refresh cookie for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(middleware.RefreshCookie)
	if err != nil || refresh == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token missing"})
		return
	}

	access, identity, err := h.Accounts.Refresh(c.Request.Context(), refresh)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setCookie(c, middleware.AccessCookie, access, h.accessMaxAge(identity.Role))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Access token refreshed"})
}

// Logout clears the persisted refresh token and expires both cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - no token provided"})
		return
	}

	if err := h.Accounts.Logout(c.Request.Context(), identity.ID); err != nil {
		respondError(c, err)
		return
	}

	h.setCookie(c, middleware.AccessCookie, "", -1)
	h.setCookie(c, middleware.RefreshCookie, "", -1)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// CheckAuth returns the authenticated account. A stale session for a deleted
// account answers 200 with success=false rather than an error status.
func (h *AuthHandler) CheckAuth(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - no token provided"})
		return
	}

	view, err := h.Accounts.CheckAuth(c.Request.Context(), identity.ID)
	if err != nil {
		var apiErr *service.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "User not found"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": view})
}

// UpdateRole transitions another account's role, subject to the role policy.
func (h *AuthHandler) UpdateRole(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - no token provided"})
		return
	}

	var req struct {
		Email   string `json:"email"`
		NewRole string `json:"newRole"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if err := h.Accounts.UpdateRole(c.Request.Context(), identity, req.Email, domain.Role(req.NewRole)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User role updated successfully"})
}

// Delete removes an account, subject to the delete policy.
func (h *AuthHandler) Delete(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - no token provided"})
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if err := h.Accounts.Delete(c.Request.Context(), identity, req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}

// ChangePassword replaces the caller's own password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - no token provided"})
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if err := h.Accounts.ChangePassword(c.Request.Context(), identity.ID, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
}

// accessMaxAge keeps the cookie lifetime in step with the token's expiry,
// which is longer for hr sessions when the override is configured.
func (h *AuthHandler) accessMaxAge(role domain.Role) int {
	ttl := h.cfg.AccessTokenTTL
	if role == domain.RoleHR && h.cfg.HRAccessTokenTTL > 0 {
		ttl = h.cfg.HRAccessTokenTTL
	}
	return int(ttl.Seconds())
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, value, maxAge, "/", h.cfg.CookieDomain, h.cfg.CookieSecure, true)
}

func respondError(c *gin.Context, err error) {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
