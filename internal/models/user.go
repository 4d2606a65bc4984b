// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account in the Lumen application.
// The Handle is derived from the full name at signup and is distinct
// from the numeric ID.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FullName  string         `gorm:"not null" json:"full_name"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Handle    string         `gorm:"unique;not null" json:"handle"`
	Bio       string         `json:"bio"`
	AvatarURL string         `json:"avatar_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Posts     []Post         `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`

	// FollowerCount and FollowingCount are not persisted; computed at query time.
	FollowerCount  int64 `gorm:"-" json:"follower_count"`
	FollowingCount int64 `gorm:"-" json:"following_count"`
}

// UserSummary is the public projection of a User. It is the only shape
// handed to other users; credentials and email never appear in it.
type UserSummary struct {
	ID        uint   `json:"id"`
	FullName  string `json:"full_name"`
	Handle    string `json:"handle"`
	AvatarURL string `json:"avatar_url"`
}

// Summary returns the public projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		FullName:  u.FullName,
		Handle:    u.Handle,
		AvatarURL: u.AvatarURL,
	}
}

// Summaries projects a slice of users.
func Summaries(users []User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out
}
