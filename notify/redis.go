package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"study_server_go/cycle"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is used when no channel is configured.
const DefaultChannel = "study-cycles"

// RedisNotifier publishes notices as JSON on a redis pub/sub channel.
type RedisNotifier struct {
	rdb     *redis.Client
	channel string
}

// NewRedisNotifier connects to addr and checks the connection.
func NewRedisNotifier(ctx context.Context, addr, channel string) (*RedisNotifier, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisNotifierWithClient(rdb, channel), nil
}

// NewRedisNotifierWithClient wraps an existing client.
func NewRedisNotifierWithClient(rdb *redis.Client, channel string) *RedisNotifier {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisNotifier{rdb: rdb, channel: channel}
}

// Channel is the pub/sub channel notices go to.
func (n *RedisNotifier) Channel() string {
	return n.channel
}

// Notify publishes the notice.
func (n *RedisNotifier) Notify(ctx context.Context, notice cycle.Notice) error {
	raw, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	if err := n.rdb.Publish(ctx, n.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis publish to %s: %w", n.channel, err)
	}
	return nil
}

// Close releases the redis connection.
func (n *RedisNotifier) Close() error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Close()
}
