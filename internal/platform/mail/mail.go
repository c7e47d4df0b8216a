// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers outbound notifications such as signup confirmation codes.

Delivery is fire-and-forget from the caller's point of view: a [Notifier]
returns an error so it can be logged, but no caller rolls back on it.

Backends:

  - log: writes the message to the structured log (development default).
  - smtp: sends through an SMTP relay with net/smtp.
  - redis: pushes a JSON message onto a Redis list for an external mailer.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/yamdb/internal/platform/config"
)

// Notifier sends a single message to one recipient.
type Notifier interface {
	Notify(context context.Context, recipient, subject, body string) error
}

// Message is the envelope shared by every backend.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// New picks the backend named by cfg.MailBackend.
//
// The redis backend needs a connected client; the other backends ignore it.
func New(cfg *config.Config, client *goredis.Client, logger *slog.Logger) (Notifier, error) {
	switch cfg.MailBackend {
	case config.MailBackendLog:
		return NewLogNotifier(cfg.MailFrom, logger), nil
	case config.MailBackendSMTP:
		return NewSMTPNotifier(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}), nil
	case config.MailBackendRedis:
		if client == nil {
			return nil, fmt.Errorf("mail: redis backend selected without a redis client")
		}
		return NewRedisOutbox(client, cfg.MailOutboxKey, cfg.MailFrom), nil
	default:
		return nil, fmt.Errorf("mail: unknown backend %q", cfg.MailBackend)
	}
}

// # Log Backend

// LogNotifier writes messages to the structured log instead of sending them.
type LogNotifier struct {
	from   string
	logger *slog.Logger
}

// NewLogNotifier constructs a [LogNotifier].
func NewLogNotifier(from string, logger *slog.Logger) *LogNotifier {
	return &LogNotifier{from: from, logger: logger}
}

// Notify implements [Notifier].
func (notifier *LogNotifier) Notify(context context.Context, recipient, subject, body string) error {
	notifier.logger.InfoContext(context, "mail_logged",
		slog.String("from", notifier.from),
		slog.String("to", recipient),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
