// Package mailer sends transactional email through a Resend-compatible JSON
// API. Delivery failures never roll back the operation that triggered them;
// callers log and move on.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Mailer delivers a single HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// HTTPMailer talks to a Resend-style /emails endpoint.
type HTTPMailer struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
}

var _ Mailer = (*HTTPMailer)(nil)

// NewHTTPMailer builds a mailer bound to the given sender address.
func NewHTTPMailer(apiKey, from, baseURL string) *HTTPMailer {
	return &HTTPMailer{
		apiKey:  apiKey,
		from:    from,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *HTTPMailer) Send(ctx context.Context, to, subject, html string) error {
	payload, err := json.Marshal(sendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("encode mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("send mail: status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// NopMailer logs instead of sending; used when no API key is configured.
type NopMailer struct {
	logger *zap.Logger
}

var _ Mailer = (*NopMailer)(nil)

func NewNopMailer(logger *zap.Logger) *NopMailer {
	if logger == nil {
		logger = zap.L()
	}
	return &NopMailer{logger: logger}
}

func (m *NopMailer) Send(ctx context.Context, to, subject, html string) error {
	m.logger.Info("mail delivery skipped, no mailer configured",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
