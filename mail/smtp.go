package mail

import (
	"context"
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig defines a public type used by aegis APIs.
//
// SMTPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// Sender is the From address stamped on every outgoing message.
	Sender string
}

// SMTPMailer defines a public type used by aegis APIs.
//
// SMTPMailer instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SMTPMailer struct {
	client *gomail.Client
	sender string
}

// NewSMTPMailer describes the newsmtpmailer operation and its observable behavior.
//
// NewSMTPMailer may return an error when input validation, dependency calls, or security checks fail.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("mail: host is required")
	}
	if cfg.Sender == "" {
		return nil, errors.New("mail: sender is required")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: client init: %w", err)
	}

	return &SMTPMailer{client: client, sender: cfg.Sender}, nil
}

// Send describes the send operation and its observable behavior.
//
// Send may return an error when input validation, dependency calls, or security checks fail.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return fmt.Errorf("mail: from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}
