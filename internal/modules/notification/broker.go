package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"artfolio/internal/domain"
	"artfolio/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const Channel = "artfolio:notifications"

// LocalPublisher delivers straight to this process's hub.
type LocalPublisher struct {
	hub *Hub
}

func NewLocalPublisher(hub *Hub) *LocalPublisher {
	return &LocalPublisher{hub: hub}
}

func (p *LocalPublisher) Publish(_ context.Context, n domain.Notification) error {
	deliver(p.hub, n)
	return nil
}

// RedisBroker publishes on a shared channel so every instance can reach its
// own connections. Run must be started for delivery to happen.
type RedisBroker struct {
	rdb     *redis.Client
	hub     *Hub
	channel string
}

func NewRedisBroker(rdb *redis.Client, hub *Hub) *RedisBroker {
	return &RedisBroker{rdb: rdb, hub: hub, channel: Channel}
}

func (b *RedisBroker) Publish(ctx context.Context, n domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Run consumes the channel until ctx is cancelled.
func (b *RedisBroker) Run(ctx context.Context) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	logrus.WithField("channel", b.channel).Info("notification subscriber started")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("notification subscription closed")
			}
			b.handle(msg.Payload)
		}
	}
}

func (b *RedisBroker) handle(payload string) {
	var n domain.Notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		logrus.WithError(err).Warn("drop malformed notification message")
		return
	}
	deliver(b.hub, n)
}

func deliver(hub *Hub, n domain.Notification) {
	if hub == nil {
		return
	}
	if hub.SendToUser(n.UserID, newNotificationEvent(n)) > 0 {
		metrics.NotificationsDelivered.WithLabelValues("delivered").Inc()
		return
	}
	metrics.NotificationsDelivered.WithLabelValues("offline").Inc()
}
