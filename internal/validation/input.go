// Package validation holds input validation rules shared by the
// service layer and handlers.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	passwordMinLength = 6
	passwordMaxLength = 127

	fullNameMaxLength = 100
	captionMaxLength  = 2200
	commentMaxLength  = 500
	messageMaxLength  = 2000
	bioMaxLength      = 300

	emailMaxLength = 254
)

// ValidatePassword enforces length bounds. Composition rules are left
// to the client.
func ValidatePassword(password string) error {
	length := utf8.RuneCountInString(password)
	if length < passwordMinLength {
		return fmt.Errorf("password must be at least %d characters", passwordMinLength)
	}
	if length > passwordMaxLength {
		return fmt.Errorf("password must be at most %d characters", passwordMaxLength)
	}
	return nil
}

// ValidateEmail checks RFC 5322 shape and length.
func ValidateEmail(email string) error {
	if len(email) > emailMaxLength {
		return fmt.Errorf("email must be at most %d characters", emailMaxLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address")
	}
	if strings.HasSuffix(email, ".") {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidateFullName requires a non-blank display name.
func ValidateFullName(fullName string) error {
	trimmed := strings.TrimSpace(fullName)
	if trimmed == "" {
		return fmt.Errorf("full name is required")
	}
	if utf8.RuneCountInString(trimmed) > fullNameMaxLength {
		return fmt.Errorf("full name must be at most %d characters", fullNameMaxLength)
	}
	return nil
}

// ValidateCaption bounds post caption length. Empty captions are fine.
func ValidateCaption(caption string) error {
	if utf8.RuneCountInString(caption) > captionMaxLength {
		return fmt.Errorf("caption must be at most %d characters", captionMaxLength)
	}
	return nil
}

// ValidateCommentText requires non-blank comment text within bounds.
func ValidateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("comment text is required")
	}
	if utf8.RuneCountInString(text) > commentMaxLength {
		return fmt.Errorf("comment must be at most %d characters", commentMaxLength)
	}
	return nil
}

// ValidateMessageText bounds direct message length. Blank text is
// allowed when the message carries an image instead.
func ValidateMessageText(text string) error {
	if utf8.RuneCountInString(text) > messageMaxLength {
		return fmt.Errorf("message must be at most %d characters", messageMaxLength)
	}
	return nil
}

// ValidateBio bounds profile bio length.
func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > bioMaxLength {
		return fmt.Errorf("bio must be at most %d characters", bioMaxLength)
	}
	return nil
}
