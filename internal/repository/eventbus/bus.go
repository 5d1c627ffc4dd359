package eventbus

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/qugu2427/alienpls-api/internal/domain"
)

// Bus fans room events out over redis pub/sub, so every server instance
// holding subscribers for a room delivers the same stream.
type Bus struct {
	rc *redis.Client
}

func NewBus(rc *redis.Client) *Bus {
	return &Bus{rc: rc}
}

func (b *Bus) getChannel(room string) string {
	return "events::" + room
}

func (b *Bus) Publish(ctx context.Context, room string, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return b.rc.Publish(ctx, b.getChannel(room), payload).Err()
}

// Subscribe returns a channel of raw event payloads for the room and a close
// function. The channel is closed when the subscription ends.
func (b *Bus) Subscribe(ctx context.Context, room string) (<-chan []byte, func() error) {
	pubsub := b.rc.Subscribe(ctx, b.getChannel(room))

	events := make(chan []byte)
	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			events <- []byte(msg.Payload)
		}
	}()

	return events, pubsub.Close
}
