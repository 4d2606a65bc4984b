package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"lumen/internal/models"
	"lumen/internal/notifications"
	"lumen/internal/repository"
	"lumen/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messageFixture struct {
	messages *MessageService
	users    *UserService
}

func newMessageFixture(t *testing.T, rdb *redis.Client) messageFixture {
	t.Helper()
	db := testutil.OpenTestDB(t)
	userRepo := repository.NewUserRepository(db)
	assets := NewAssetStore(repository.NewAssetRepository(db), nil)
	return messageFixture{
		messages: NewMessageService(
			repository.NewMessageRepository(db),
			userRepo,
			assets,
			notifications.NewHub(),
			notifications.NewNotifier(rdb),
		),
		users: NewUserService(userRepo, repository.NewFollowRepository(db), assets),
	}
}

func TestMessageService_SendMessage(t *testing.T) {
	t.Parallel()
	f := newMessageFixture(t, nil)
	ctx := context.Background()

	sender := signupUser(t, f.users, "dm-sender@example.com")
	receiver := signupUser(t, f.users, "dm-receiver@example.com")

	msg, err := f.messages.SendMessage(ctx, SendMessageInput{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Text:       "hello there",
	})
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.NotZero(t, msg.ID)
	assert.Equal(t, sender.ID, msg.From.ID)
	assert.Equal(t, receiver.ID, msg.To.ID)
	assert.Equal(t, "hello there", msg.Text)
}

func TestMessageService_SendMessage_Rejections(t *testing.T) {
	t.Parallel()
	f := newMessageFixture(t, nil)
	ctx := context.Background()

	sender := signupUser(t, f.users, "dm-rej-sender@example.com")
	receiver := signupUser(t, f.users, "dm-rej-receiver@example.com")

	_, err := f.messages.SendMessage(ctx, SendMessageInput{SenderID: sender.ID, ReceiverID: sender.ID, Text: "hi"})
	require.Error(t, err)
	assertAppErrorCode(t, err, models.CodeSelfReference)

	_, err = f.messages.SendMessage(ctx, SendMessageInput{SenderID: sender.ID, ReceiverID: receiver.ID})
	require.Error(t, err)
	assertAppErrorCode(t, err, models.CodeValidation)

	_, err = f.messages.SendMessage(ctx, SendMessageInput{SenderID: sender.ID, ReceiverID: 99999, Text: "hi"})
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestMessageService_SendMessage_ImageOnly(t *testing.T) {
	t.Parallel()
	f := newMessageFixture(t, nil)
	ctx := context.Background()

	sender := signupUser(t, f.users, "dm-img-sender@example.com")
	receiver := signupUser(t, f.users, "dm-img-receiver@example.com")

	msg, err := f.messages.SendMessage(ctx, SendMessageInput{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Image:      "https://example.com/cat.jpg",
	})
	require.NoError(t, err)
	assert.Empty(t, msg.Text)
	assert.Equal(t, "https://example.com/cat.jpg", msg.ImageURL)
}

func TestMessageService_Conversation(t *testing.T) {
	t.Parallel()
	f := newMessageFixture(t, nil)
	ctx := context.Background()

	a := signupUser(t, f.users, "dm-conv-a@example.com")
	b := signupUser(t, f.users, "dm-conv-b@example.com")
	c := signupUser(t, f.users, "dm-conv-c@example.com")

	_, err := f.messages.SendMessage(ctx, SendMessageInput{SenderID: a.ID, ReceiverID: b.ID, Text: "first"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = f.messages.SendMessage(ctx, SendMessageInput{SenderID: b.ID, ReceiverID: a.ID, Text: "second"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	// Noise from an unrelated thread
	_, err = f.messages.SendMessage(ctx, SendMessageInput{SenderID: a.ID, ReceiverID: c.ID, Text: "other thread"})
	require.NoError(t, err)

	conv, err := f.messages.Conversation(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, conv, 2)
	// Oldest first, both directions included
	assert.Equal(t, "first", conv[0].Text)
	assert.Equal(t, a.ID, conv[0].From.ID)
	assert.Equal(t, "second", conv[1].Text)
	assert.Equal(t, b.ID, conv[1].From.ID)

	// The same thread seen from the other side
	mirror, err := f.messages.Conversation(ctx, b.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, mirror, 2)

	_, err = f.messages.Conversation(ctx, a.ID, 99999)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestMessageService_SendMessage_PublishesToReceiverChannel(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := newMessageFixture(t, rdb)
	ctx := context.Background()

	sender := signupUser(t, f.users, "dm-pub-sender@example.com")
	receiver := signupUser(t, f.users, "dm-pub-receiver@example.com")

	sub := rdb.Subscribe(ctx, notifications.UserChannel(receiver.ID))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	_, err = f.messages.SendMessage(ctx, SendMessageInput{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Text:       "live one",
	})
	require.NoError(t, err)

	select {
	case raw := <-sub.Channel():
		var event notifications.Event
		require.NoError(t, json.Unmarshal([]byte(raw.Payload), &event))
		assert.Equal(t, "new_message", event.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a published event on the receiver channel")
	}
}
