package service

import (
	"context"

	"lumen/internal/models"
	"lumen/internal/observability"
	"lumen/internal/repository"
)

// GraphService manages the follow graph.
type GraphService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	users      *UserService
}

func NewGraphService(followRepo repository.FollowRepository, userRepo repository.UserRepository, users *UserService) *GraphService {
	return &GraphService{followRepo: followRepo, userRepo: userRepo, users: users}
}

// Follow creates a follow edge from follower to followee. Following
// yourself is rejected, and following twice is a conflict.
func (s *GraphService) Follow(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return models.NewSelfReferenceError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return err
	}

	if err := s.followRepo.Create(ctx, &models.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
	}); err != nil {
		return err
	}

	observability.FollowMutations.WithLabelValues("follow").Inc()
	s.users.InvalidateSuggestions(ctx, followerID)
	return nil
}

// Unfollow removes the edge. Unfollowing someone you do not follow is
// a no-op, matching the idempotent delete underneath.
func (s *GraphService) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return models.NewSelfReferenceError("You cannot unfollow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return err
	}

	if err := s.followRepo.Delete(ctx, followerID, followeeID); err != nil {
		return err
	}

	observability.FollowMutations.WithLabelValues("unfollow").Inc()
	s.users.InvalidateSuggestions(ctx, followerID)
	return nil
}

// IsFollowing reports whether the edge exists.
func (s *GraphService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followeeID)
}

// Followers lists the accounts following userID.
func (s *GraphService) Followers(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.followRepo.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return models.Summaries(users), nil
}

// Following lists the accounts userID follows.
func (s *GraphService) Following(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.followRepo.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return models.Summaries(users), nil
}
