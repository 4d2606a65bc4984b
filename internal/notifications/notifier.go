package notifications

import (
	"context"
	"encoding/json"
	"strconv"

	"lumen/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Event is the envelope delivered over a user's live channel.
type Event struct {
	Type    string      `json:"type"` // "new_message", "connected"
	Payload interface{} `json:"payload,omitempty"`
}

// Notifier publishes live events into per-user Redis channels so that
// delivery works when the receiver is connected to another process.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier returns a Notifier backed by the given Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether a Redis backend is attached. Without one,
// publishing is a silent no-op and callers should deliver locally.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// UserChannel derives the pub/sub channel name for a user.
func UserChannel(userID uint) string {
	return "dm:user:" + strconv.FormatUint(uint64(userID), 10)
}

// PublishUser sends an event to a user's channel. A nil Redis client is
// a no-op; the local hub still handles same-process delivery.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, event Event) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := n.rdb.Publish(ctx, UserChannel(userID), payload).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("publish").Inc()
		return err
	}
	return nil
}

// StartUserSubscriber subscribes to the pattern `dm:user:*` and calls
// onMessage for each incoming message with the channel and payload.
func (n *Notifier) StartUserSubscriber(ctx context.Context, onMessage func(channel, payload string)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "dm:user:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				onMessage(msg.Channel, msg.Payload)
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}
