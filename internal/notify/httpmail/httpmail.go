// Package httpmail delivers mail through a transactional email
// provider's HTTP JSON API.
package httpmail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jobdeck/jobdeck/internal/notify"
)

// Config captures the subset of provider behaviour we need.
type Config struct {
	Endpoint   string
	APIKey     string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// Client sends rendered messages to the provider's send endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	retryLimit int
	client     *http.Client
}

// NewClient builds a provider client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("email provider endpoint is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	retries := cfg.RetryLimit
	if retries < 0 {
		retries = 0
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		endpoint:   endpoint,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		retryLimit: retries,
		client:     hc,
	}, nil
}

// sendRequest is the provider wire format.
type sendRequest struct {
	From    address `json:"from"`
	To      address `json:"to"`
	Subject string  `json:"subject"`
	HTML    string  `json:"html,omitempty"`
	Text    string  `json:"text,omitempty"`
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// ProviderError is a structured non-2xx response from the provider.
type ProviderError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("email provider returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("email provider returned %d", e.StatusCode)
}

// Send posts one message to the provider, retrying transient failures
// with a short linear backoff.
func (c *Client) Send(ctx context.Context, msg notify.Message) error {
	if strings.TrimSpace(msg.ToAddress) == "" {
		return errors.New("recipient address is required")
	}

	body, err := json.Marshal(sendRequest{
		From:    address{Email: msg.FromAddress, Name: msg.FromName},
		To:      address{Email: msg.ToAddress, Name: msg.ToName},
		Subject: msg.Subject,
		HTML:    msg.HTMLBody,
		Text:    msg.TextBody,
	})
	if err != nil {
		return fmt.Errorf("encode email payload: %w", err)
	}

	attempts := c.retryLimit + 1
	var lastErr error
	for attempt := range attempts {
		err = c.post(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) {
			return err
		}
		if attempt < attempts-1 {
			// Simple linear backoff to avoid hammering a degraded provider.
			delay := time.Duration(attempt+1) * 200 * time.Millisecond
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	return lastErr
}

// retryable reports whether an error is worth another attempt. Provider
// 4xx responses are permanent (bad address, bad payload); everything
// else is treated as transient.
func retryable(err error) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &ProviderError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	// Drain so the transport can reuse the connection.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return nil
}
