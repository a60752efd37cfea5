package mailer

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned when no SMTP host or sender is set.
var ErrNotConfigured = errors.New("mailer is not configured")

type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

type Mailer interface {
	Send(ctx context.Context, message Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// dialer is the part of gomail.Dialer used here.
type dialer interface {
	DialAndSend(messages ...*gomail.Message) error
}

type SMTPMailer struct {
	from   string
	dialer dialer
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, ErrNotConfigured
	}
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, message Message) error {
	if message.To == "" {
		return errors.New("recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", message.To)
	msg.SetHeader("Subject", message.Subject)
	msg.SetBody("text/html", message.HTMLBody)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail to %s: %w", message.To, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
