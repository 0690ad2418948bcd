package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dilkhush-raj/hrms/internal/service"
)

// VerifyHandler exposes the email verification endpoints.
type VerifyHandler struct {
	Accounts *service.AccountService
}

// NewVerifyHandler creates the handler.
func NewVerifyHandler(accounts *service.AccountService) *VerifyHandler {
	return &VerifyHandler{Accounts: accounts}
}

// Send emails a fresh verification code.
func (h *VerifyHandler) Send(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if err := h.Accounts.SendVerificationOTP(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent successfully"})
}

// Verify checks a submitted code and marks the email verified.
func (h *VerifyHandler) Verify(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if err := h.Accounts.VerifyEmailOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified successfully"})
}
