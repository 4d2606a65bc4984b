package seed

import (
	"fmt"
	"time"

	"lumen/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	SkipBcrypt  bool
	MaxDays     int
}

// Seeder orchestrates demo-data generation.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder builds a Seeder with default options.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// ClearAll removes all seeded data. Order respects foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{
		&models.Message{},
		&models.Like{},
		&models.Comment{},
		&models.Post{},
		&models.Follow{},
		&models.Asset{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(table).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", table, err)
		}
	}
	return nil
}

// SeedSocialMesh creates users and a follow graph where everyone
// follows a random subset of others.
func (s *Seeder) SeedSocialMesh(numUsers int) ([]*models.User, error) {
	logStep("Creating %d users...", numUsers)

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("creating user %d: %w", i, err)
		}
		users = append(users, user)
	}

	logStep("Weaving follow graph...")
	for _, follower := range users {
		// Each user follows roughly a third of the network
		for _, followee := range users {
			if follower.ID == followee.ID {
				continue
			}
			if s.factory.rng.Intn(3) == 0 {
				if err := s.factory.CreateFollow(follower.ID, followee.ID); err != nil {
					return nil, fmt.Errorf("creating follow: %w", err)
				}
			}
		}
	}

	return users, nil
}

// SeedEngagement creates posts and sprinkles likes and comments over
// them.
func (s *Seeder) SeedEngagement(users []*models.User, numPosts int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to attribute posts to")
	}

	logStep("Creating %d posts...", numPosts)
	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		post, err := s.factory.CreatePost(author)
		if err != nil {
			return nil, fmt.Errorf("creating post %d: %w", i, err)
		}
		posts = append(posts, post)
	}

	logStep("Adding likes and comments...")
	for _, post := range posts {
		numLikes := s.factory.rng.Intn(len(users)/2 + 1)
		for i := 0; i < numLikes; i++ {
			liker := users[s.factory.rng.Intn(len(users))]
			if err := s.factory.CreateLike(liker.ID, post.ID); err != nil {
				return nil, fmt.Errorf("creating like: %w", err)
			}
		}
		numComments := s.factory.rng.Intn(6)
		for i := 0; i < numComments; i++ {
			commenter := users[s.factory.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(commenter.ID, post.ID); err != nil {
				return nil, fmt.Errorf("creating comment: %w", err)
			}
		}
	}

	return posts, nil
}

// SeedConversations creates DM threads between random user pairs.
func (s *Seeder) SeedConversations(users []*models.User, numThreads int) error {
	if len(users) < 2 {
		return nil
	}

	logStep("Creating %d DM threads...", numThreads)
	for i := 0; i < numThreads; i++ {
		a := users[s.factory.rng.Intn(len(users))]
		b := users[s.factory.rng.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}

		length := s.factory.rng.Intn(15) + 2
		at := time.Now().Add(-time.Duration(s.factory.rng.Intn(72)) * time.Hour)
		for j := 0; j < length; j++ {
			sender, receiver := a, b
			if j%2 == 1 {
				sender, receiver = b, a
			}
			if _, err := s.factory.CreateMessage(sender.ID, receiver.ID, at); err != nil {
				return fmt.Errorf("creating message: %w", err)
			}
			at = at.Add(time.Duration(s.factory.rng.Intn(600)+30) * time.Second)
		}
	}
	return nil
}
