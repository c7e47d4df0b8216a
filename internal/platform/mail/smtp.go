// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// SMTPConfig addresses an SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// dialFunc matches [net.Dialer.DialContext].
type dialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// SMTPNotifier sends plain-text mail through an SMTP relay.
//
// Every session is bound to the caller's context and to a send timeout, so a
// slow or silent relay cannot hold a request past either.
type SMTPNotifier struct {
	host    string
	addr    string
	from    string
	auth    smtp.Auth
	dial    dialFunc
	timeout time.Duration
}

// NewSMTPNotifier constructs an [SMTPNotifier]. PLAIN auth is used only when a
// username is configured.
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPNotifier{
		host:    cfg.Host,
		addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		from:    cfg.From,
		auth:    auth,
		dial:    (&net.Dialer{}).DialContext,
		timeout: constants.MailSendTimeout,
	}
}

// Notify implements [Notifier].
func (notifier *SMTPNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, notifier.timeout)
	defer cancel()

	message := buildMessage(notifier.from, recipient, subject, body)
	if err := notifier.deliver(ctx, recipient, message); err != nil {
		switch {
		case ctx.Err() != nil:
			err = fmt.Errorf("%w (%v)", ctx.Err(), err)
		case errors.Is(err, os.ErrDeadlineExceeded):
			err = fmt.Errorf("%w (%v)", context.DeadlineExceeded, err)
		}
		return fmt.Errorf("mail: smtp send to %s failed: %w", notifier.addr, err)
	}

	return nil
}

// deliver runs one SMTP session. The connection carries the context deadline
// and is closed as soon as the context ends, which unblocks any pending read.
func (notifier *SMTPNotifier) deliver(ctx context.Context, recipient string, message []byte) error {
	conn, err := notifier.dial(ctx, "tcp", notifier.addr)
	if err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	client, err := smtp.NewClient(conn, notifier.host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: notifier.host}); err != nil {
			return err
		}
	}

	if notifier.auth != nil {
		if err := client.Auth(notifier.auth); err != nil {
			return err
		}
	}

	if err := client.Mail(notifier.from); err != nil {
		return err
	}
	if err := client.Rcpt(recipient); err != nil {
		return err
	}

	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write(message); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	return client.Quit()
}

// buildMessage renders RFC 5322 headers and body with CRLF line endings.
func buildMessage(from, to, subject, body string) []byte {
	var builder strings.Builder
	builder.WriteString("From: " + from + "\r\n")
	builder.WriteString("To: " + to + "\r\n")
	builder.WriteString("Subject: " + subject + "\r\n")
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(builder.String())
}
