package service

import (
	"context"

	"lumen/internal/models"
	"lumen/internal/notifications"
	"lumen/internal/repository"
	"lumen/internal/validation"
)

// MessageService stores direct messages and pushes them to connected
// receivers.
type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	assets      *AssetStore
	hub         *notifications.Hub
	notifier    *notifications.Notifier
}

type SendMessageInput struct {
	SenderID   uint
	ReceiverID uint
	Text       string
	Image      string
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, assets *AssetStore, hub *notifications.Hub, notifier *notifications.Notifier) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		assets:      assets,
		hub:         hub,
		notifier:    notifier,
	}
}

// SendMessage persists the message, then attempts live delivery.
// Persistence is the source of truth: a message is never lost because
// the receiver was offline.
func (s *MessageService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	if in.SenderID == in.ReceiverID {
		return nil, models.NewSelfReferenceError("You cannot message yourself")
	}
	if in.Text == "" && in.Image == "" {
		return nil, models.NewValidationError("Message text or image is required")
	}
	if err := validation.ValidateMessageText(in.Text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	sender, err := s.userRepo.GetByID(ctx, in.SenderID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.userRepo.GetByID(ctx, in.ReceiverID)
	if err != nil {
		return nil, err
	}

	imageURL := in.Image
	if IsDataURL(in.Image) {
		asset, storeErr := s.assets.StoreDataURL(ctx, in.SenderID, in.Image)
		if storeErr != nil {
			return nil, storeErr
		}
		imageURL = asset.PublicURL
	}

	message := &models.Message{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Text:       in.Text,
		ImageURL:   imageURL,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	message.From = sender.Summary()
	message.To = receiver.Summary()

	s.deliver(ctx, message)

	return message, nil
}

// Conversation returns the full exchange between the viewer and the
// other user, oldest first.
func (s *MessageService) Conversation(ctx context.Context, viewerID, otherID uint) ([]*models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, otherID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.Conversation(ctx, viewerID, otherID)
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		m.From = m.Sender.Summary()
		m.To = m.Receiver.Summary()
	}
	return messages, nil
}

// deliver pushes the message to the receiver's live channel. With
// Redis present the hub's subscriber handles fan-in, so publishing is
// enough; without it delivery goes straight to the local hub. Doing
// both would hand same-process receivers the event twice.
func (s *MessageService) deliver(ctx context.Context, message *models.Message) {
	event := notifications.Event{Type: "new_message", Payload: message}

	if s.notifier.Enabled() {
		if err := s.notifier.PublishUser(ctx, message.ReceiverID, event); err == nil {
			return
		}
	}
	if s.hub != nil {
		s.hub.Deliver(message.ReceiverID, event)
	}
}
