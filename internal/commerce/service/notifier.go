package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TransitionEvent is published after a purchase order transition has
// committed. Subscribers (mail, dashboards) consume it off the channel.
type TransitionEvent struct {
	POID       string    `json:"po_id"`
	PONumber   string    `json:"po_number"`
	BrandID    string    `json:"brand_id"`
	Action     string    `json:"action"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier delivers transition events. Delivery is fire-and-forget:
// failures are logged by implementations, never returned to callers.
type Notifier interface {
	NotifyTransition(ctx context.Context, event TransitionEvent)
}

const notificationChannel = "growship:po:transitions"

// RedisNotifier publishes events on a Redis pub/sub channel.
type RedisNotifier struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisNotifier(client *redis.Client, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, logger: logger}
}

func (n *RedisNotifier) NotifyTransition(ctx context.Context, event TransitionEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("failed to marshal transition event", zap.Error(err))
		return
	}
	if err := n.client.Publish(ctx, notificationChannel, payload).Err(); err != nil {
		n.logger.Warn("failed to publish transition event",
			zap.String("po_id", event.POID),
			zap.String("action", event.Action),
			zap.Error(err))
	}
}

// LogNotifier writes events to the log. Used when Redis is not
// configured and as the default in tests.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyTransition(_ context.Context, event TransitionEvent) {
	n.logger.Info("purchase order transition",
		zap.String("po_id", event.POID),
		zap.String("po_number", event.PONumber),
		zap.String("action", event.Action),
		zap.String("from_status", event.FromStatus),
		zap.String("to_status", event.ToStatus),
		zap.String("actor_id", event.ActorID))
}
