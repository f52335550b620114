package chat

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// BusEvent is one message seen on the fan-out bus.
type BusEvent struct {
	Key     string
	Payload []byte
}

// MessageBus carries persisted messages between server instances. Every
// instance subscribes to the channel-key pattern and delivers to whichever
// members it holds locally; the publishing instance receives its own events
// through the same path, so there is exactly one delivery route.
type MessageBus interface {
	Publish(ctx context.Context, key string, payload []byte) error
	Subscribe(ctx context.Context, pattern string) <-chan BusEvent
}

// RedisBus is the production bus, backed by redis pub/sub.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client}
}

func (b *RedisBus) Publish(ctx context.Context, key string, payload []byte) error {
	return b.client.Publish(ctx, key, payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, pattern string) <-chan BusEvent {
	pubsub := b.client.PSubscribe(ctx, pattern)

	out := make(chan BusEvent)
	go func() {
		defer close(out)
		defer pubsub.Close()
		for msg := range pubsub.Channel() {
			out <- BusEvent{Key: msg.Channel, Payload: []byte(msg.Payload)}
		}
	}()
	return out
}
