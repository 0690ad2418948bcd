package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dilkhush-raj/hrms/internal/repository"
)

// RedisOTPStore implements OTPStore backed by Redis. Codes expire on their
// own through the key TTL.
type RedisOTPStore struct {
	client redis.UniversalClient
}

var _ repository.OTPStore = (*RedisOTPStore)(nil)

// NewRedisOTPStore constructs a Redis-backed OTP store.
func NewRedisOTPStore(client redis.UniversalClient) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

// SaveCode stores the verification code under the normalized email with TTL.
// A resend overwrites the previous code and restarts the window.
func (s *RedisOTPStore) SaveCode(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, otpKey(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("persist otp: %w", err)
	}
	return nil
}

// GetCode loads the stored code, returning "" when none exists or it expired.
func (s *RedisOTPStore) GetCode(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, otpKey(email)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("load otp: %w", err)
	}
	return code, nil
}

// DeleteCode removes the stored code after successful verification.
func (s *RedisOTPStore) DeleteCode(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, otpKey(email)).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

func otpKey(email string) string {
	return "otp:email:" + email
}
