// Package smtpmail delivers mail through an SMTP relay, composing a
// multipart/alternative MIME message with text and HTML parts.
package smtpmail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/jobdeck/jobdeck/internal/notify"
)

// Config captures SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Client sends rendered messages through the configured relay.
type Client struct {
	addr     string
	host     string
	username string
	password string
}

// NewClient builds an SMTP client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return nil, errors.New("smtp host is required")
	}
	port := cfg.Port
	if port <= 0 {
		port = 587
	}

	return &Client{
		addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		host:     host,
		username: cfg.Username,
		password: cfg.Password,
	}, nil
}

// Send composes a MIME message and submits it to the relay. The
// context is honoured only up to the point of dialing; net/smtp does
// not support per-command deadlines.
func (c *Client) Send(ctx context.Context, msg notify.Message) error {
	if strings.TrimSpace(msg.ToAddress) == "" {
		return errors.New("recipient address is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := compose(msg)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if c.username != "" {
		auth = smtp.PlainAuth("", c.username, c.password, c.host)
	}

	if err := smtp.SendMail(c.addr, auth, msg.FromAddress, []string{msg.ToAddress}, raw); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// compose builds a multipart/alternative message with a plain-text
// part first and an HTML part second, per RFC 2046 preference order.
func compose(msg notify.Message) ([]byte, error) {
	var buf bytes.Buffer

	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{{Name: msg.FromName, Address: msg.FromAddress}})
	h.SetAddressList("To", []*mail.Address{{Name: msg.ToName, Address: msg.ToAddress}})
	h.SetSubject(msg.Subject)

	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create mime writer: %w", err)
	}

	iw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("create alternative part: %w", err)
	}

	if err := writePart(iw, "text/plain; charset=utf-8", msg.TextBody); err != nil {
		return nil, err
	}
	if err := writePart(iw, "text/html; charset=utf-8", msg.HTMLBody); err != nil {
		return nil, err
	}

	if err := iw.Close(); err != nil {
		return nil, fmt.Errorf("close alternative part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close mime writer: %w", err)
	}

	return buf.Bytes(), nil
}

func writePart(iw *mail.InlineWriter, contentType, body string) error {
	var ph mail.InlineHeader
	ph.Set("Content-Type", contentType)

	pw, err := iw.CreatePart(ph)
	if err != nil {
		return fmt.Errorf("create %s part: %w", contentType, err)
	}
	if _, err := io.WriteString(pw, body); err != nil {
		return fmt.Errorf("write %s part: %w", contentType, err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close %s part: %w", contentType, err)
	}
	return nil
}
