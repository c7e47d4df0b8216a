// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// setupOutbox starts a miniredis server and returns a client bound to it.
func setupOutbox(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, server
}

/*
TestRedisOutbox_Notify verifies that messages are queued as JSON in FIFO order.
*/
func TestRedisOutbox_Notify(t *testing.T) {
	client, server := setupOutbox(t)
	outbox := NewRedisOutbox(client, "mail:outbox", "noreply@yamdb.local")
	ctx := context.Background()

	require.NoError(t, outbox.Notify(ctx, "bob@x.com", "Confirmation code", "first"))
	require.NoError(t, outbox.Notify(ctx, "amy@x.com", "Confirmation code", "second"))

	items, err := server.List("mail:outbox")
	require.NoError(t, err)
	require.Len(t, items, 2)

	// LPUSH prepends, so the oldest message sits at the tail.
	var oldest Message
	require.NoError(t, json.Unmarshal([]byte(items[1]), &oldest))
	assert.Equal(t, "bob@x.com", oldest.To)
	assert.Equal(t, "first", oldest.Body)
	assert.Equal(t, "noreply@yamdb.local", oldest.From)
}

func TestRedisOutbox_DefaultKey(t *testing.T) {
	client, server := setupOutbox(t)
	outbox := NewRedisOutbox(client, "", "noreply@yamdb.local")

	require.NoError(t, outbox.Notify(context.Background(), "bob@x.com", "s", "b"))

	items, err := server.List(constants.RedisKeyMailOutbox)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRedisOutbox_NotifyFailure(t *testing.T) {
	client, server := setupOutbox(t)
	outbox := NewRedisOutbox(client, "mail:outbox", "noreply@yamdb.local")

	server.Close()

	err := outbox.Notify(context.Background(), "bob@x.com", "s", "b")
	assert.Error(t, err)
}

// relaySession is what a scripted relay saw during one session.
type relaySession struct {
	from string
	to   string
	data string
}

// startRelay serves one scripted SMTP session on a loopback listener. When
// rejectRecipient is set the relay refuses RCPT with 550.
func startRelay(t *testing.T, rejectRecipient bool) (string, <-chan relaySession) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	sessions := make(chan relaySession, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		text := textproto.NewConn(conn)
		var session relaySession
		_ = text.PrintfLine("220 relay.local ESMTP")
		for {
			line, err := text.ReadLine()
			if err != nil {
				return
			}
			switch verb := strings.ToUpper(line); {
			case strings.HasPrefix(verb, "EHLO"), strings.HasPrefix(verb, "HELO"):
				_ = text.PrintfLine("250 relay.local")
			case strings.HasPrefix(verb, "MAIL FROM:"):
				session.from = line[len("MAIL FROM:"):]
				_ = text.PrintfLine("250 OK")
			case strings.HasPrefix(verb, "RCPT TO:"):
				if rejectRecipient {
					_ = text.PrintfLine("550 mailbox unavailable")
					continue
				}
				session.to = line[len("RCPT TO:"):]
				_ = text.PrintfLine("250 OK")
			case verb == "DATA":
				_ = text.PrintfLine("354 go ahead")
				data, err := text.ReadDotBytes()
				if err != nil {
					return
				}
				session.data = string(data)
				_ = text.PrintfLine("250 queued")
			case verb == "QUIT":
				_ = text.PrintfLine("221 bye")
				sessions <- session
				return
			default:
				_ = text.PrintfLine("250 OK")
			}
		}
	}()

	return listener.Addr().String(), sessions
}

func newTestSMTPNotifier(t *testing.T, addr string, cfg SMTPConfig) *SMTPNotifier {
	t.Helper()
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	cfg.Host, cfg.Port = host, port
	return NewSMTPNotifier(cfg)
}

func TestSMTPNotifier_Notify(t *testing.T) {
	addr, sessions := startRelay(t, false)
	notifier := newTestSMTPNotifier(t, addr, SMTPConfig{From: "noreply@yamdb.local"})

	require.NoError(t, notifier.Notify(context.Background(), "bob@x.com", "Confirmation code", "line1\nline2"))

	select {
	case session := <-sessions:
		assert.Equal(t, "<noreply@yamdb.local>", strings.Fields(session.from)[0])
		assert.Equal(t, "<bob@x.com>", session.to)
		assert.Contains(t, session.data, "Subject: Confirmation code\n")
		assert.Contains(t, session.data, "line1\nline2")
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not finish the session")
	}
}

func TestSMTPNotifier_RecipientRejected(t *testing.T) {
	addr, _ := startRelay(t, true)
	notifier := newTestSMTPNotifier(t, addr, SMTPConfig{From: "noreply@yamdb.local"})

	err := notifier.Notify(context.Background(), "ghost@x.com", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "550")
}

// startSilentRelay accepts connections and never greets.
func startSilentRelay(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	accepted := make(chan net.Conn, 1)
	go func() {
		if conn, err := listener.Accept(); err == nil {
			accepted <- conn
		}
	}()
	t.Cleanup(func() {
		_ = listener.Close()
		select {
		case conn := <-accepted:
			_ = conn.Close()
		default:
		}
	})

	return listener.Addr().String()
}

/*
TestSMTPNotifier_SilentRelay verifies that a relay which accepts the
connection but never greets cannot hold the caller past its context.
*/
func TestSMTPNotifier_SilentRelay(t *testing.T) {
	notifier := newTestSMTPNotifier(t, startSilentRelay(t), SMTPConfig{From: "noreply@yamdb.local"})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	started := time.Now()
	err := notifier.Notify(ctx, "bob@x.com", "s", "b")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(started), 2*time.Second)
}

func TestSMTPNotifier_SendTimeout(t *testing.T) {
	notifier := newTestSMTPNotifier(t, startSilentRelay(t), SMTPConfig{})
	notifier.timeout = 100 * time.Millisecond

	started := time.Now()
	err := notifier.Notify(context.Background(), "bob@x.com", "s", "b")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(started), 2*time.Second)
}

func TestSMTPNotifier_DialError(t *testing.T) {
	notifier := NewSMTPNotifier(SMTPConfig{Host: "mail.local", Port: "25", Username: "u", Password: "p"})
	notifier.dial = func(context.Context, string, string) (net.Conn, error) {
		return nil, errors.New("connection refused")
	}

	assert.NotNil(t, notifier.auth)
	err := notifier.Notify(context.Background(), "bob@x.com", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail.local:25")
}

func TestLogNotifier_Notify(t *testing.T) {
	var buffer bytes.Buffer
	notifier := NewLogNotifier("noreply@yamdb.local", slog.New(slog.NewJSONHandler(&buffer, nil)))

	require.NoError(t, notifier.Notify(context.Background(), "bob@x.com", "Confirmation code", "abc"))
	assert.Contains(t, buffer.String(), `"msg":"mail_logged"`)
	assert.Contains(t, buffer.String(), `"to":"bob@x.com"`)
}

func TestNew_SelectsBackend(t *testing.T) {
	client, _ := setupOutbox(t)
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	notifier, err := New(&config.Config{MailBackend: config.MailBackendLog}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &LogNotifier{}, notifier)

	notifier, err = New(&config.Config{MailBackend: config.MailBackendSMTP, SMTPHost: "h", SMTPPort: "25"}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &SMTPNotifier{}, notifier)

	notifier, err = New(&config.Config{MailBackend: config.MailBackendRedis, MailOutboxKey: "k"}, client, logger)
	require.NoError(t, err)
	assert.IsType(t, &RedisOutbox{}, notifier)

	_, err = New(&config.Config{MailBackend: config.MailBackendRedis}, nil, logger)
	assert.Error(t, err)
}
