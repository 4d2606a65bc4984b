package notifications

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_DeliverToRegisteredClient(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	client := hub.Register(42, nil)

	outcome := hub.Deliver(42, Event{Type: "new_message", Payload: "hi"})
	assert.Equal(t, Delivered, outcome)

	select {
	case raw := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, "new_message", event.Type)
	default:
		t.Fatal("expected a buffered event on the client channel")
	}
}

func TestHub_DeliverToOfflineUserDrops(t *testing.T) {
	t.Parallel()
	hub := NewHub()

	outcome := hub.Deliver(7, Event{Type: "new_message"})
	assert.Equal(t, Dropped, outcome)
}

func TestHub_RegisterReplacesPreviousConnection(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	first := hub.Register(1, nil)
	second := hub.Register(1, nil)

	// The stale channel is closed so its write pump exits
	_, open := <-first.Send
	assert.False(t, open)

	outcome := hub.Deliver(1, Event{Type: "new_message"})
	assert.Equal(t, Delivered, outcome)
	assert.Len(t, second.Send, 1)
}

func TestHub_UnregisterIgnoresStaleClient(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	stale := hub.Register(1, nil)
	hub.Register(1, nil)

	// Unregistering the replaced client must not evict the live one
	hub.UnregisterClient(stale)
	assert.True(t, hub.IsOnline(1))
}

func TestHub_OnlinePresence(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	client := hub.Register(1, nil)
	hub.Register(2, nil)

	assert.True(t, hub.IsOnline(1))
	assert.False(t, hub.IsOnline(3))
	assert.ElementsMatch(t, []uint{1, 2}, hub.OnlineUserIDs())

	hub.UnregisterClient(client)
	assert.False(t, hub.IsOnline(1))
	assert.ElementsMatch(t, []uint{2}, hub.OnlineUserIDs())
}

func TestHub_DeliverDropsWhenBufferFull(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	client := hub.Register(1, nil)

	// Saturate the outbound buffer with nobody draining it
	for i := 0; i < cap(client.Send); i++ {
		require.True(t, client.TrySend([]byte("x")))
	}

	outcome := hub.Deliver(1, Event{Type: "new_message"})
	assert.Equal(t, Dropped, outcome)
}

func TestHub_Shutdown(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	client := hub.Register(1, nil)

	require.NoError(t, hub.Shutdown(context.Background()))

	_, open := <-client.Send
	assert.False(t, open)
	assert.False(t, hub.IsOnline(1))

	// Shutdown twice is harmless
	require.NoError(t, hub.Shutdown(context.Background()))
}

func TestClient_TrySendAfterClose(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	client := hub.Register(1, nil)
	require.NoError(t, hub.Shutdown(context.Background()))

	// A send racing shutdown reports failure instead of panicking
	assert.False(t, client.TrySend([]byte("late")))
}
