package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// alertsChannel is the redis channel carrying fired-alert events between
// service instances.
const alertsChannel = "rate_alerts"

// RedisSink publishes fired-alert events to a redis channel so every service
// instance's websocket hub sees firings from every scheduler.
type RedisSink struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisSink builds a publisher on client.
func NewRedisSink(client *redis.Client, logger *zap.Logger) *RedisSink {
	return &RedisSink{client: client, logger: logger}
}

func (s *RedisSink) Emit(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to marshal alert event", zap.Error(err))
		return
	}
	if err := s.client.Publish(ctx, alertsChannel, payload).Err(); err != nil {
		s.logger.Error("failed to publish alert event",
			zap.String("alert_id", event.AlertID),
			zap.Error(err),
		)
	}
}

// RedisSubscriber receives fired-alert events from the channel.
type RedisSubscriber struct {
	pubsub *redis.PubSub
	logger *zap.Logger
}

// NewRedisSubscriber subscribes to the alerts channel and confirms the
// subscription before returning.
func NewRedisSubscriber(ctx context.Context, client *redis.Client, logger *zap.Logger) (*RedisSubscriber, error) {
	pubsub := client.Subscribe(ctx, alertsChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		return nil, err
	}
	logger.Info("subscribed to alerts channel", zap.String("channel", alertsChannel))
	return &RedisSubscriber{pubsub: pubsub, logger: logger}, nil
}

// Receive blocks until the next event arrives or ctx ends.
func (s *RedisSubscriber) Receive(ctx context.Context) (Event, error) {
	msg, err := s.pubsub.ReceiveMessage(ctx)
	if err != nil {
		return Event{}, err
	}

	var event Event
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// Close closes the subscription.
func (s *RedisSubscriber) Close() error {
	return s.pubsub.Close()
}
