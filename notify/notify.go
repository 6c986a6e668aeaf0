// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/danielhkuo/votedesk/cliparse"
)

// Notifier delivers a plain-text message to a user's email address.
type Notifier interface {
	Notify(ctx context.Context, email, subject, body string) error
}

// DeliveryError reports a message that could not be handed off.
type DeliveryError struct {
	To  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver mail to %s: %v", e.To, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// SMTPNotifier sends mail through an SMTP relay.
type SMTPNotifier struct {
	from string
	send func(*gomail.Message) error
}

func NewSMTPNotifier(cfg cliparse.SMTPConfig) *SMTPNotifier {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	return &SMTPNotifier{
		from: cfg.From,
		send: func(m *gomail.Message) error { return d.DialAndSend(m) },
	}
}

func (n *SMTPNotifier) Notify(ctx context.Context, email, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return &DeliveryError{To: email, Err: err}
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.send(m); err != nil {
		return &DeliveryError{To: email, Err: err}
	}
	return nil
}

// ErrNotConfigured is returned by LogNotifier, which never delivers anything.
var ErrNotConfigured = errors.New("smtp not configured")

// LogNotifier records that a message could not be sent. The body is never
// logged since it may carry a credential.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, email, subject, _ string) error {
	n.log.Warn("smtp not configured, message not sent",
		zap.String("to", email),
		zap.String("subject", subject),
	)
	return &DeliveryError{To: email, Err: ErrNotConfigured}
}

// New picks the SMTP notifier when a relay is configured.
func New(cfg cliparse.SMTPConfig, log *zap.Logger) Notifier {
	if cfg.Enabled() {
		return NewSMTPNotifier(cfg)
	}
	return NewLogNotifier(log)
}
