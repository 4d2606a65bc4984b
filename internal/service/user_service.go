// Package service implements business logic on top of the repository
// layer.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"lumen/internal/cache"
	"lumen/internal/models"
	"lumen/internal/repository"
	"lumen/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const (
	// SuggestionLimit caps the follow-suggestion list.
	SuggestionLimit = 100
	// SearchLimit caps user search results.
	SearchLimit = 10

	handleRetryDraws = 8

	suggestionCacheTTL = 2 * time.Minute
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	assets     *AssetStore
}

type SignupInput struct {
	FullName string
	Email    string
	Password string
}

type UpdateProfileInput struct {
	UserID   uint
	FullName string
	Bio      string
	Avatar   string
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository, assets *AssetStore) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo, assets: assets}
}

// Signup registers a new account. The handle is derived from the full
// name with a numeric suffix and retried on collision.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Full name, email, and password are required")
	}
	if err := validation.ValidateFullName(in.FullName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if existing != nil {
		return nil, models.NewAlreadyExistsError("An account with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	handle, err := s.uniqueHandle(ctx, in.FullName)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		FullName: strings.TrimSpace(in.FullName),
		Email:    in.Email,
		Password: string(hashedPassword),
		Handle:   handle,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}

	return user, nil
}

// Login verifies credentials and returns the account. Callers issue
// the token; unknown email and wrong password are indistinguishable.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

// GetUser returns a profile decorated with follower and following
// counts.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.decorateCounts(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByHandle resolves a profile by its handle.
func (s *UserService) GetUserByHandle(ctx context.Context, handle string) (*models.User, error) {
	user, err := s.userRepo.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", handle)
	}
	if err := s.decorateCounts(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies partial profile updates. An avatar given as a
// data URL is stored through the asset store first.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.FullName != "" {
		if err := validation.ValidateFullName(in.FullName); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.FullName = strings.TrimSpace(in.FullName)
	}
	if in.Bio != "" {
		if err := validation.ValidateBio(in.Bio); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Bio = in.Bio
	}
	if in.Avatar != "" {
		avatarURL := in.Avatar
		if IsDataURL(in.Avatar) {
			asset, storeErr := s.assets.StoreDataURL(ctx, in.UserID, in.Avatar)
			if storeErr != nil {
				return nil, storeErr
			}
			avatarURL = asset.PublicURL
		}
		user.AvatarURL = avatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}

	return user, nil
}

// Suggestions lists accounts the viewer might follow. The viewer and
// anyone they already follow are excluded. Results are cached briefly
// per viewer.
func (s *UserService) Suggestions(ctx context.Context, viewerID uint) ([]models.UserSummary, error) {
	cacheKey := fmt.Sprintf("suggestions:%d", viewerID)

	var suggestions []models.UserSummary
	err := cache.CacheAside(ctx, cacheKey, &suggestions, suggestionCacheTTL, func() error {
		followingIDs, err := s.followRepo.ListFollowingIDs(ctx, viewerID)
		if err != nil {
			return err
		}
		excluded := make(map[uint]struct{}, len(followingIDs)+1)
		excluded[viewerID] = struct{}{}
		for _, id := range followingIDs {
			excluded[id] = struct{}{}
		}

		users, err := s.userRepo.List(ctx, viewerID, SuggestionLimit+len(followingIDs))
		if err != nil {
			return err
		}

		suggestions = make([]models.UserSummary, 0, SuggestionLimit)
		for _, u := range users {
			if _, skip := excluded[u.ID]; skip {
				continue
			}
			suggestions = append(suggestions, u.Summary())
			if len(suggestions) == SuggestionLimit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return suggestions, nil
}

// InvalidateSuggestions drops the cached suggestion list for a viewer.
// Called after follow graph mutations.
func (s *UserService) InvalidateSuggestions(ctx context.Context, viewerID uint) {
	cache.Invalidate(ctx, fmt.Sprintf("suggestions:%d", viewerID))
}

// Search matches users by full name or handle, case-insensitive
// substring, capped at SearchLimit.
func (s *UserService) Search(ctx context.Context, query string) ([]models.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}

	users, err := s.userRepo.Search(ctx, query, SearchLimit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return models.Summaries(users), nil
}

// Sidebar lists every other account for the messaging sidebar.
func (s *UserService) Sidebar(ctx context.Context, viewerID uint) ([]models.UserSummary, error) {
	users, err := s.userRepo.List(ctx, viewerID, 0)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return models.Summaries(users), nil
}

func (s *UserService) decorateCounts(ctx context.Context, user *models.User) error {
	followers, err := s.followRepo.CountFollowers(ctx, user.ID)
	if err != nil {
		return models.NewInternalError(err)
	}
	following, err := s.followRepo.CountFollowing(ctx, user.ID)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.FollowerCount = followers
	user.FollowingCount = following
	return nil
}

// uniqueHandle derives a handle from the display name and appends a
// random numeric suffix, widening the suffix after repeated
// collisions. The final fallback is clock-derived and unique in
// practice.
func (s *UserService) uniqueHandle(ctx context.Context, fullName string) (string, error) {
	base := handleBase(fullName)

	for attempt := 0; attempt < handleRetryDraws; attempt++ {
		suffix := 1000 + rand.Intn(9000)
		if attempt >= handleRetryDraws/2 {
			suffix = 100000 + rand.Intn(900000)
		}
		candidate := fmt.Sprintf("%s%d", base, suffix)

		existing, err := s.userRepo.GetByHandle(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing != nil {
			continue
		}
		return candidate, nil
	}

	return fmt.Sprintf("%s%d", base, time.Now().UnixNano()%1_000_000_000), nil
}

// handleBase lowercases the display name and strips everything that
// is not a letter or digit.
func handleBase(fullName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(fullName) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
