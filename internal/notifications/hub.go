package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"lumen/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// DeliveryOutcome reports whether a live delivery reached a connection.
type DeliveryOutcome string

const (
	// Delivered means the event was handed to an open connection.
	Delivered DeliveryOutcome = "delivered"
	// Dropped means the user had no open connection and the event was
	// discarded. The receiver finds the payload on next fetch.
	Dropped DeliveryOutcome = "dropped"
)

// Hub is the live-channel registry: it maps each connected user to at
// most one websocket client. It is constructed in the server and torn
// down at shutdown; nothing else owns connection state.
type Hub struct {
	mu     sync.RWMutex
	conns  map[uint]*Client
	wsLog  *observability.WSLogger
	closed bool
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[uint]*Client),
		wsLog: observability.NewWSLogger("dm hub"),
	}
}

// Name returns a human-readable identifier for this hub.
func (h *Hub) Name() string { return "dm hub" }

// Register associates a connection with a user. A user has at most one
// live channel: registering again closes the previous connection.
func (h *Hub) Register(userID uint, conn *websocket.Conn) *Client {
	client := NewClient(h, conn, userID)

	h.mu.Lock()
	prev := h.conns[userID]
	h.conns[userID] = client
	h.mu.Unlock()

	if prev != nil {
		close(prev.Send)
	}

	observability.WebSocketConnectionsTotal.Inc()
	h.wsLog.LogConnect(context.Background(), userID)
	return client
}

// UnregisterClient removes a client from the registry. A stale client
// that was already replaced is left alone.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	removed := false
	if current, ok := h.conns[client.UserID]; ok && current == client {
		delete(h.conns, client.UserID)
		removed = true
	}
	h.mu.Unlock()

	if removed {
		observability.WebSocketConnectionsTotal.Dec()
		h.wsLog.LogDisconnect(context.Background(), client.UserID, "unregistered")
	}
}

// Deliver sends an event to the user's live channel if one is open.
// Delivery is fire-and-forget: a missing or saturated channel drops the
// event silently.
func (h *Hub) Deliver(userID uint, event Event) DeliveryOutcome {
	h.mu.RLock()
	client, ok := h.conns[userID]
	h.mu.RUnlock()

	if !ok {
		observability.LiveDeliveries.WithLabelValues(string(Dropped)).Inc()
		return Dropped
	}

	payload, err := json.Marshal(event)
	if err != nil {
		h.wsLog.LogError(context.Background(), userID, err, event.Type)
		observability.LiveDeliveries.WithLabelValues(string(Dropped)).Inc()
		return Dropped
	}

	if !client.TrySend(payload) {
		observability.LiveDeliveries.WithLabelValues(string(Dropped)).Inc()
		return Dropped
	}

	observability.LiveDeliveries.WithLabelValues(string(Delivered)).Inc()
	return Delivered
}

// IsOnline reports whether a user currently has a live channel.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[userID]
	return ok
}

// OnlineUserIDs returns the IDs of all users with a live channel.
func (h *Hub) OnlineUserIDs() []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]uint, 0, len(h.conns))
	for id := range h.conns {
		ids = append(ids, id)
	}
	return ids
}

// StartWiring subscribes the hub to the notifier's user channels so
// events published by other processes reach local connections.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartUserSubscriber(ctx, func(channel, payload string) {
		var userID uint
		if _, err := fmt.Sscanf(channel, "dm:user:%d", &userID); err != nil {
			h.wsLog.LogError(ctx, 0, err, "invalid channel")
			return
		}

		var event Event
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			h.wsLog.LogError(ctx, userID, err, "invalid payload")
			return
		}
		h.Deliver(userID, event)
	})
}

// Shutdown closes all live channels.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	for id, client := range h.conns {
		close(client.Send)
		delete(h.conns, id)
		observability.WebSocketConnectionsTotal.Dec()
	}
	return nil
}
