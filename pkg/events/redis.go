package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alantheprice/outreach/pkg/utils"
)

const publishTimeout = 5 * time.Second

// RedisRelay publishes events to a redis channel so that the replica holding
// the user's websocket delivers them through its local hub.
type RedisRelay struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  *utils.Logger
}

// NewRedisRelay creates a relay forwarding channel messages into hub.
func NewRedisRelay(client *redis.Client, channel string, hub *Hub, logger *utils.Logger) *RedisRelay {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &RedisRelay{client: client, channel: channel, hub: hub, logger: logger}
}

// Connect opens a redis client for addr and checks it is reachable.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, utils.NewNetworkError("connect redis", fmt.Errorf("failed to connect to Redis at %s: %w", addr, err))
	}
	return rdb, nil
}

// Deliver implements Deliverer by publishing to the relay channel.
func (r *RedisRelay) Deliver(userID, eventType string, payload any, views []string) error {
	data, err := json.Marshal(NewEvent(userID, eventType, payload, views))
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return utils.NewNetworkError("publish event", err)
	}
	return nil
}

// Run subscribes to the relay channel and forwards every message to the hub
// until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return utils.NewNetworkError("subscribe "+r.channel, err)
	}
	r.logger.Logf("Relaying events from redis channel %s", r.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := r.forward(msg.Payload); err != nil {
				r.logger.LogError(err)
			}
		}
	}
}

func (r *RedisRelay) forward(payload string) error {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return fmt.Errorf("failed to parse relayed event: %w", err)
	}
	if ev.UserID == "" {
		return fmt.Errorf("relayed event %s has no user", ev.ID)
	}
	r.hub.Publish(ev)
	return nil
}
