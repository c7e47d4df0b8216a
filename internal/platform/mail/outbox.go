// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// RedisOutbox queues messages on a Redis list. A separate mailer process pops
// them with BRPOP, so producers see FIFO order.
type RedisOutbox struct {
	client *goredis.Client
	key    string
	from   string
}

// NewRedisOutbox constructs a [RedisOutbox] pushing onto key, or onto
// [constants.RedisKeyMailOutbox] when key is empty.
func NewRedisOutbox(client *goredis.Client, key, from string) *RedisOutbox {
	if key == "" {
		key = constants.RedisKeyMailOutbox
	}
	return &RedisOutbox{client: client, key: key, from: from}
}

// Notify implements [Notifier].
func (outbox *RedisOutbox) Notify(context context.Context, recipient, subject, body string) error {
	payload, err := json.Marshal(Message{
		From:    outbox.from,
		To:      recipient,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("mail: encode outbox message: %w", err)
	}

	if err := outbox.client.LPush(context, outbox.key, payload).Err(); err != nil {
		return fmt.Errorf("mail: push to outbox %s: %w", outbox.key, err)
	}

	return nil
}
