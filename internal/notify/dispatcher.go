package notify

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Sender is the outbound message contract (GatewayClient in production).
type Sender interface {
	Send(ctx context.Context, phoneE164, body string) error
}

// LogSender stands in when no gateway is configured: the message is logged
// and counted as sent so the workflow still progresses in dev environments.
type LogSender struct {
	Logger *zap.Logger
}

func (l LogSender) Send(_ context.Context, phoneE164, body string) error {
	l.Logger.Info("sms gateway disabled, message not sent",
		zap.String("to", phoneE164), zap.String("body", body))
	return nil
}

// Dispatcher sends at most one message per key. Keys are shaped
// notify:{job}:{step}, so a redriven submit cannot double-text the contact.
type Dispatcher struct {
	sender Sender
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDispatcher(sender Sender, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Dispatcher {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Dispatcher{sender: sender, rdb: rdb, ttl: ttl, logger: logger}
}

// SendOnce claims the key, sends, and reports whether a message has gone out
// for this key (now or earlier). A failed send releases the claim so a manual
// re-trigger can retry; the error itself is only logged.
func (d *Dispatcher) SendOnce(ctx context.Context, key, phone, body string) bool {
	claimed, err := d.rdb.SetNX(ctx, key, time.Now().Format(time.RFC3339), d.ttl).Result()
	if err != nil {
		// Dedupe unavailable: still try the send rather than silently dropping.
		d.logger.Warn("notify dedupe unavailable", zap.String("key", key), zap.Error(err))
		claimed = true
	}
	if !claimed {
		d.logger.Info("notification already dispatched", zap.String("key", key))
		return true
	}
	if err := d.sender.Send(ctx, phone, body); err != nil {
		d.logger.Warn("sms dispatch failed", zap.String("key", key), zap.Error(err))
		d.rdb.Del(context.WithoutCancel(ctx), key)
		return false
	}
	d.logger.Info("sms dispatched", zap.String("key", key))
	return true
}
