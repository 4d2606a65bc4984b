package models

import (
	"time"
)

// Asset is the metadata record for a stored binary image. Bytes live on
// disk under the configured upload directory; records are addressed by
// the SHA-256 of the original payload so repeated uploads deduplicate.
type Asset struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Hash        string    `gorm:"unique;not null;index" json:"hash"`
	OwnerID     uint      `gorm:"not null" json:"owner_id"`
	ContentType string    `gorm:"not null" json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	StoragePath string    `gorm:"not null" json:"-"`
	PublicURL   string    `gorm:"not null" json:"public_url"`
	CreatedAt   time.Time `json:"created_at"`
}
