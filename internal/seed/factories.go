// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"lumen/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seedVal := time.Now().UnixNano()
	gofakeit.Seed(seedVal)
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(seedVal))}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	fullName := gofakeit.Name()
	user := &models.User{
		FullName:  fullName,
		Email:     gofakeit.Email(),
		Handle:    deriveHandle(fullName, f.rng),
		Bio:       gofakeit.Sentence(10),
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateFollow persists a follow edge. Duplicate edges are skipped.
func (f *Factory) CreateFollow(followerID, followeeID uint) error {
	if followerID == followeeID {
		return nil
	}
	err := f.db.Create(&models.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// CreatePost constructs and persists a post for the given author with
// a realistic created_at spread.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		AuthorID: author.ID,
		ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		Caption:  gofakeit.Sentence(8),
		Location: gofakeit.City(),
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateLike persists a like; duplicates are silently skipped.
func (f *Factory) CreateLike(userID, postID uint) error {
	err := f.db.Create(&models.Like{UserID: userID, PostID: postID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// CreateComment persists a comment on a post.
func (f *Factory) CreateComment(userID, postID uint) (*models.Comment, error) {
	comment := &models.Comment{
		PostID: postID,
		UserID: userID,
		Text:   gofakeit.Sentence(f.rng.Intn(12) + 3),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateMessage persists a direct message between two users.
func (f *Factory) CreateMessage(senderID, receiverID uint, at time.Time) (*models.Message, error) {
	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       gofakeit.Sentence(f.rng.Intn(10) + 2),
		CreatedAt:  at,
	}
	if err := f.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// deriveHandle mirrors the signup handle shape: lowercased name with a
// numeric suffix.
func deriveHandle(fullName string, rng *rand.Rand) string {
	var b strings.Builder
	for _, r := range strings.ToLower(fullName) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return fmt.Sprintf("%s%d", b.String(), 1000+rng.Intn(9000))
}

func logStep(format string, args ...interface{}) {
	log.Printf(format, args...)
}
