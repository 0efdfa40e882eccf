package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const publishTimeout = 2 * time.Second

// RedisPublisher publishes notifications as JSON on a per-board channel so
// other server instances can relay them to their websocket clients.
type RedisPublisher struct {
	rdb    *redis.Client
	prefix string
	origin string
}

// envelope is the published payload. It decodes as a plain Notification.
type envelope struct {
	Origin string `json:"origin"`
	Notification
}

func NewRedisPublisher(rdb *redis.Client, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = "kanboard"
	}
	return &RedisPublisher{rdb: rdb, prefix: prefix, origin: uuid.NewString()}
}

// Channel returns the channel name used for boardID. Workspace-level
// notifications go to the "workspaces" channel.
func (p *RedisPublisher) Channel(boardID string) string {
	if boardID == "" {
		return fmt.Sprintf("%s:workspaces:notifications", p.prefix)
	}
	return fmt.Sprintf("%s:board:%s:notifications", p.prefix, boardID)
}

func (p *RedisPublisher) Notify(n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.Publish(ctx, n); err != nil {
		log.Printf("⚠️  %v", err)
	}
}

// Publish sends n to its channel.
func (p *RedisPublisher) Publish(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(envelope{Origin: p.origin, Notification: n})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.Channel(n.BoardID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Subscribe hands fn every notification published by other instances
// until ctx is done. Notifications this publisher sent are skipped.
func (p *RedisPublisher) Subscribe(ctx context.Context, fn func(Notification)) error {
	pubsub := p.rdb.PSubscribe(ctx, p.prefix+":*:notifications")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to notifications: %w", err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("⚠️  Dropping malformed notification on %s: %v", msg.Channel, err)
				continue
			}
			if env.Origin == p.origin {
				continue
			}
			fn(env.Notification)
		}
	}
}

// Close closes the underlying redis client.
func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}
