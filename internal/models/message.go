package models

import (
	"time"
)

// Message is a direct message between two users. Messages are immutable
// once stored; the conversation between X and Y is the set of messages
// where {sender,receiver} = {X,Y}, ordered by creation time ascending.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index:idx_msg_sender_receiver" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index:idx_msg_sender_receiver" json:"receiver_id"`
	Text       string    `json:"text"`
	ImageURL   string    `json:"image_url"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`

	// From and To are not persisted; populated at projection time.
	From UserSummary `gorm:"-" json:"sender"`
	To   UserSummary `gorm:"-" json:"receiver"`
}
