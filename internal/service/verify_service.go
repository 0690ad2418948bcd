package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dilkhush-raj/hrms/internal/mailer"
	"github.com/dilkhush-raj/hrms/internal/repository"
)

const otpDigits = 6

// SendVerificationOTP generates a one-time code, stores it with a TTL and
// emails it to the account holder. Calling it again replaces any pending
// code.
func (s *AccountService) SendVerificationOTP(ctx context.Context, email string) error {
	ctx, span := s.startSpan(ctx, "AccountService.SendVerificationOTP")
	defer span.End()

	normalized := normalizeEmail(email)
	if !validEmail(normalized) {
		return badRequest("Invalid email format")
	}

	account, err := s.accounts.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("User not found")
		}
		span.RecordError(err)
		return fmt.Errorf("lookup account: %w", err)
	}

	code, err := generateOTP()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("generate otp: %w", err)
	}

	if err := s.otp.SaveCode(ctx, normalized, code, s.cfg.OTPTTL); err != nil {
		span.RecordError(err)
		return fmt.Errorf("store otp: %w", err)
	}

	subject, html := mailer.OTPEmail(account.Name, code)
	if err := s.mail.Send(ctx, normalized, subject, html); err != nil {
		span.RecordError(err)
		s.log().Error("otp email failed", zap.String("email", normalized), zap.Error(err))
		return fmt.Errorf("send otp email: %w", err)
	}

	s.audit("account.otp_sent", "account_id", account.ID)
	return nil
}

// VerifyEmailOTP checks a submitted code against the stored one and marks
// the account's email as verified. Codes are single-use.
func (s *AccountService) VerifyEmailOTP(ctx context.Context, email, code string) error {
	ctx, span := s.startSpan(ctx, "AccountService.VerifyEmailOTP")
	defer span.End()

	normalized := normalizeEmail(email)
	code = strings.TrimSpace(code)
	if normalized == "" || code == "" {
		return badRequest("Missing required fields")
	}

	account, err := s.accounts.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("User not found")
		}
		span.RecordError(err)
		return fmt.Errorf("lookup account: %w", err)
	}

	stored, err := s.otp.GetCode(ctx, normalized)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("load otp: %w", err)
	}
	if stored == "" {
		return badRequest("OTP expired or not requested")
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(stored)) != 1 {
		return badRequest("Invalid OTP")
	}

	if err := s.accounts.SetEmailVerified(ctx, account.ID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("mark verified: %w", err)
	}
	if err := s.otp.DeleteCode(ctx, normalized); err != nil {
		s.log().Warn("otp cleanup failed", zap.String("email", normalized), zap.Error(err))
	}

	s.audit("account.email_verified", "account_id", account.ID)
	return nil
}

func generateOTP() (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint32(buf[:]) % 1_000_000
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}
