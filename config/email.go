package config

import (
	"fmt"
	"strings"
	"time"
)

// EmailDriver selects the outbound email transport.
type EmailDriver string

const (
	// EmailDriverHTTP sends through a transactional email provider's HTTP API.
	EmailDriverHTTP EmailDriver = "http"
	// EmailDriverSMTP sends through an SMTP relay.
	EmailDriverSMTP EmailDriver = "smtp"
	// EmailDriverNone disables outbound email entirely (in-app notifications only).
	EmailDriverNone EmailDriver = "none"
)

// UnmarshalText implements encoding.TextUnmarshaler for EmailDriver.
func (d *EmailDriver) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "http", "smtp", "none":
		*d = EmailDriver(v)
		return nil
	default:
		return fmt.Errorf("invalid EmailDriver: %q (valid options: http, smtp, none)", v)
	}
}

// HTTPEmailConfig contains settings for the HTTP transactional provider transport.
type HTTPEmailConfig struct {
	// Endpoint is the provider's send endpoint, e.g. "https://api.provider.example/v1/send".
	Endpoint string `env:"ENDPOINT"`

	// APIKey is sent as a bearer token.
	APIKey string `env:"API_KEY"`

	// Timeout bounds each send attempt.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`

	// RetryLimit is the number of in-call retries after the first attempt.
	RetryLimit int `env:"RETRY_LIMIT" envDefault:"2"`
}

// SMTPEmailConfig contains settings for the SMTP relay transport.
type SMTPEmailConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

// EmailConfig groups all outbound email configuration.
type EmailConfig struct {
	// Driver determines which transport to use.
	Driver EmailDriver `env:"DRIVER" envDefault:"none"`

	// FromAddress is the sender address on all outbound mail.
	FromAddress string `env:"FROM_ADDRESS" envDefault:"notifications@jobdeck.local"`

	// FromName is the sender display name on all outbound mail.
	FromName string `env:"FROM_NAME" envDefault:"Jobdeck"`

	// HTTP provider configuration (used when Driver=http).
	HTTP HTTPEmailConfig `envPrefix:"HTTP_"`

	// SMTP relay configuration (used when Driver=smtp).
	SMTP SMTPEmailConfig `envPrefix:"SMTP_"`
}

// Sanitize applies guardrails to email configuration values.
func (e *EmailConfig) Sanitize() {
	if e.HTTP.Timeout <= 0 {
		e.HTTP.Timeout = 10 * time.Second
	}
	if e.HTTP.RetryLimit < 0 {
		e.HTTP.RetryLimit = 0
	}
	if e.SMTP.Port <= 0 {
		e.SMTP.Port = 587
	}
}
