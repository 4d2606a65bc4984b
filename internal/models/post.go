package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is an image post. The author is immutable after creation; likes
// and comments are the only mutations in scope.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	ImageURL string `gorm:"not null" json:"image_url"`
	Caption  string `json:"caption"`
	Location string `json:"location"`
	// Likes holds the like rows; LikeUserIDs is the projected set.
	Likes     []Like         `gorm:"foreignKey:PostID" json:"-"`
	Comments  []Comment      `gorm:"foreignKey:PostID" json:"comments"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// LikeUserIDs is not persisted; computed from Likes at projection time.
	LikeUserIDs []uint `gorm:"-" json:"likes"`
}
