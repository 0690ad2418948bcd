package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minSecretLen = 32

// Config contains runtime configuration values.
type Config struct {
	Environment          string
	HTTPPort             string
	DatabaseURL          string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	AccessTokenSecret    string
	AccessTokenTTL       time.Duration
	HRAccessTokenTTL     time.Duration
	RefreshTokenSecret   string
	RefreshTokenTTL      time.Duration
	OTPTTL               time.Duration
	CookieDomain         string
	CookieSecure         bool
	AdminEmail           string
	AdminPassword        string
	MailerAPIKey         string
	MailerFrom           string
	MailerBaseURL        string
	ServiceName          string
	RateLimitRPM         int
	TelemetryEndpoint    string
	TelemetryInsecure    bool
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:          getEnv("APP_ENV", "development"),
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisAddr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getInt("REDIS_DB", 0),
		AccessTokenSecret:    os.Getenv("ACCESS_TOKEN_SECRET"),
		AccessTokenTTL:       getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		HRAccessTokenTTL:     getDuration("HR_ACCESS_TOKEN_TTL", 0),
		RefreshTokenSecret:   os.Getenv("REFRESH_TOKEN_SECRET"),
		RefreshTokenTTL:      getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		OTPTTL:               getDuration("OTP_TTL", 5*time.Minute),
		CookieDomain:         os.Getenv("COOKIE_DOMAIN"),
		CookieSecure:         getBool("COOKIE_SECURE", true),
		AdminEmail:           strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
		MailerAPIKey:         os.Getenv("MAILER_API_KEY"),
		MailerFrom:           getEnv("MAILER_FROM", "PSQUARE <no-reply@psquare.dev>"),
		MailerBaseURL:        getEnv("MAILER_BASE_URL", "https://api.resend.com"),
		ServiceName:          getEnv("SERVICE_NAME", "hrms-auth"),
		RateLimitRPM:         getInt("RATE_LIMIT_RPM", 600),
		TelemetryEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TelemetryInsecure:    getBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		CORSAllowedOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CORSAllowedMethods:   getList("CORS_ALLOWED_METHODS", []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"}),
		CORSAllowedHeaders:   getList("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type"}),
		CORSAllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", true),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.AccessTokenSecret == "" {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}
	if cfg.RefreshTokenSecret == "" {
		return Config{}, fmt.Errorf("REFRESH_TOKEN_SECRET is required")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return Config{}, fmt.Errorf("access and refresh token secrets must differ")
	}
	// HS256 requires a key of at least 32 bytes; a shorter secret would pass
	// startup and then fail on every token signing.
	if len(cfg.AccessTokenSecret) < minSecretLen {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_SECRET must be at least %d bytes", minSecretLen)
	}
	if len(cfg.RefreshTokenSecret) < minSecretLen {
		return Config{}, fmt.Errorf("REFRESH_TOKEN_SECRET must be at least %d bytes", minSecretLen)
	}

	// HR sessions fall back to the default window unless overridden.
	if cfg.HRAccessTokenTTL <= 0 {
		cfg.HRAccessTokenTTL = cfg.AccessTokenTTL
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		var cleaned []string
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
