package eventbus

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qugu2427/alienpls-api/internal/domain"
)

func TestPublishSubscribe(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	bus := NewBus(rc)
	ctx := context.Background()

	events, closeSub := bus.Subscribe(ctx, "testroom")
	defer closeSub()

	// the subscription lands asynchronously, so publish until it sticks
	var payload []byte
	require.Eventually(t, func() bool {
		require.NoError(t, bus.Publish(ctx, "testroom", domain.Event{Type: domain.EventJoin}))
		select {
		case payload = <-events:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	var event domain.Event
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, domain.EventJoin, event.Type)
}

func TestSubscribeIsPerRoom(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	bus := NewBus(rc)
	ctx := context.Background()

	events, closeSub := bus.Subscribe(ctx, "roomone")
	defer closeSub()

	var payload []byte
	require.Eventually(t, func() bool {
		require.NoError(t, bus.Publish(ctx, "roomtwo", domain.Event{Type: domain.EventLeave}))
		require.NoError(t, bus.Publish(ctx, "roomone", domain.Event{Type: domain.EventJoin}))
		select {
		case payload = <-events:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	var event domain.Event
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, domain.EventJoin, event.Type, "events for other rooms must not arrive")
}
