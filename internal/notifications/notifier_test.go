package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "dm:user:0", UserChannel(0))
	assert.Equal(t, "dm:user:42", UserChannel(42))
}

func TestNotifier_Enabled(t *testing.T) {
	t.Parallel()
	assert.False(t, NewNotifier(nil).Enabled())
	assert.True(t, NewNotifier(newTestRedis(t)).Enabled())

	var nilNotifier *Notifier
	assert.False(t, nilNotifier.Enabled())
}

func TestNotifier_PublishUser(t *testing.T) {
	t.Parallel()
	rdb := newTestRedis(t)
	notifier := NewNotifier(rdb)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, UserChannel(9))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, notifier.PublishUser(ctx, 9, Event{Type: "new_message", Payload: "hey"}))

	select {
	case msg := <-sub.Channel():
		var event Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, "new_message", event.Type)
		assert.Equal(t, "hey", event.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a published event")
	}
}

func TestNotifier_PublishUser_NoBackendIsNoop(t *testing.T) {
	t.Parallel()
	notifier := NewNotifier(nil)
	require.NoError(t, notifier.PublishUser(context.Background(), 1, Event{Type: "new_message"}))
}

func TestHub_StartWiringDeliversPublishedEvents(t *testing.T) {
	t.Parallel()
	rdb := newTestRedis(t)
	notifier := NewNotifier(rdb)
	hub := NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, hub.StartWiring(ctx, notifier))

	client := hub.Register(5, nil)

	// The pattern subscription takes a moment to attach
	require.Eventually(t, func() bool {
		if err := notifier.PublishUser(ctx, 5, Event{Type: "new_message"}); err != nil {
			return false
		}
		return len(client.Send) > 0
	}, 2*time.Second, 20*time.Millisecond)

	raw := <-client.Send
	var event Event
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, "new_message", event.Type)
}
