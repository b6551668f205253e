// Package mailer provides the outbound email transport.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Sender delivers a single HTML email. Implementations perform network
// delivery; failure is reported as an error and carries no partial state.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Disabled is a Sender that rejects every delivery. It stands in when SMTP
// is not configured so subscriber management keeps working; dispatch runs
// simply report every send as failed.
type Disabled struct{}

// Send always fails.
func (Disabled) Send(context.Context, string, string, string) error {
	return fmt.Errorf("email delivery is not configured")
}

// Config holds SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP is the go-mail backed Sender.
type SMTP struct {
	client *mail.Client
	from   string
}

// NewSMTP creates an SMTP sender. The connection is dialed per send, which
// suits the low-volume sequential dispatch this service performs.
func NewSMTP(cfg Config) (*SMTP, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTP{client: client, from: cfg.From}, nil
}

// Send delivers one HTML email.
func (s *SMTP) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
