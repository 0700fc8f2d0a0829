// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers transactional email over SMTP.

It wraps wneessen/go-mail. The only message the service sends today is the
registration verification code.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Message copy for the verification email.
const (
	VerificationSubject = "Email Verification Code"
	verificationBody    = "Your verification code is: %s"
	sendTimeout         = 10 * time.Second
)

// Options configures the SMTP connection.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// TLS is one of "mandatory", "opportunistic" or "none".
	TLS string
}

// sender is the subset of [*gomail.Client] the Mailer uses.
type sender interface {
	DialAndSendWithContext(context context.Context, messages ...*gomail.Msg) error
	Close() error
}

// Mailer sends verification codes. It is safe for concurrent use because
// every send dials its own connection.
type Mailer struct {
	sender sender
	from   string
	logger *slog.Logger
}

// NewMailer builds an SMTP client from options. No connection is opened until the first send.
func NewMailer(options Options, logger *slog.Logger) (*Mailer, error) {
	clientOptions := []gomail.Option{
		gomail.WithPort(options.Port),
		gomail.WithTimeout(sendTimeout),
		gomail.WithTLSPolicy(tlsPolicy(options.TLS)),
	}
	if options.Username != "" {
		clientOptions = append(clientOptions,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(options.Username),
			gomail.WithPassword(options.Password),
		)
	}

	client, err := gomail.NewClient(options.Host, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("mail: failed to create SMTP client: %w", err)
	}

	logger.Info("smtp_mailer_configured",
		slog.String("host", options.Host),
		slog.Int("port", options.Port),
		slog.String("tls", options.TLS),
	)

	return newMailer(client, options.From, logger), nil
}

func newMailer(sender sender, from string, logger *slog.Logger) *Mailer {
	return &Mailer{sender: sender, from: from, logger: logger}
}

/*
SendVerificationCode emails code to address.

Parameters:
  - context: context.Context
  - address: string (recipient)
  - code: string (never logged)

Returns:
  - error: message build or SMTP delivery failures
*/
func (mailer *Mailer) SendVerificationCode(context context.Context, address, code string) error {
	message, err := BuildVerificationMessage(mailer.from, address, code)
	if err != nil {
		return err
	}

	if err := mailer.sender.DialAndSendWithContext(context, message); err != nil {
		return fmt.Errorf("mail_send_verification_failed: %w", err)
	}

	mailer.logger.DebugContext(context, "verification_email_sent", slog.String("to", address))
	return nil
}

// Close releases the underlying SMTP client.
func (mailer *Mailer) Close() error {
	return mailer.sender.Close()
}

// BuildVerificationMessage assembles the plain-text verification email.
func BuildVerificationMessage(from, to, code string) (*gomail.Msg, error) {
	message := gomail.NewMsg()

	if err := message.From(from); err != nil {
		return nil, fmt.Errorf("mail_invalid_sender: %w", err)
	}
	if err := message.To(to); err != nil {
		return nil, fmt.Errorf("mail_invalid_recipient: %w", err)
	}

	message.Subject(VerificationSubject)
	message.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(verificationBody, code))
	return message, nil
}

func tlsPolicy(mode string) gomail.TLSPolicy {
	switch strings.ToLower(mode) {
	case "none":
		return gomail.NoTLS
	case "opportunistic":
		return gomail.TLSOpportunistic
	default:
		return gomail.TLSMandatory
	}
}
