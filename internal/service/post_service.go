package service

import (
	"context"

	"lumen/internal/models"
	"lumen/internal/repository"
	"lumen/internal/validation"
)

// PostService covers posts, likes, comments, and feeds.
type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	assets      *AssetStore
}

type CreatePostInput struct {
	AuthorID uint
	Image    string
	Caption  string
	Location string
}

func NewPostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, userRepo repository.UserRepository, assets *AssetStore) *PostService {
	return &PostService{postRepo: postRepo, commentRepo: commentRepo, userRepo: userRepo, assets: assets}
}

// CreatePost stores a new post. The image may arrive as an inline data
// URL, in which case it goes through the asset store first.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Image == "" {
		return nil, models.NewValidationError("An image is required")
	}
	if err := validation.ValidateCaption(in.Caption); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	imageURL := in.Image
	if IsDataURL(in.Image) {
		asset, err := s.assets.StoreDataURL(ctx, in.AuthorID, in.Image)
		if err != nil {
			return nil, err
		}
		imageURL = asset.PublicURL
	}

	post := &models.Post{
		AuthorID: in.AuthorID,
		ImageURL: imageURL,
		Caption:  in.Caption,
		Location: in.Location,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.GetPost(ctx, post.ID)
}

// GetPost loads a post decorated for the API: author and commenters
// projected, like rows collapsed into user IDs.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	decoratePost(post)
	return post, nil
}

// GlobalFeed returns every post, newest first.
func (s *PostService) GlobalFeed(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.postRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	decoratePosts(posts)
	return posts, nil
}

// ProfileFeed returns one author's posts, newest first.
func (s *PostService) ProfileFeed(ctx context.Context, authorID uint) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	decoratePosts(posts)
	return posts, nil
}

// Like records that a user likes a post. Liking twice changes nothing.
func (s *PostService) Like(ctx context.Context, userID, postID uint) error {
	if err := s.requirePost(ctx, postID); err != nil {
		return err
	}
	return s.postRepo.Like(ctx, userID, postID)
}

// Unlike removes a like. Unliking a post never liked changes nothing.
func (s *PostService) Unlike(ctx context.Context, userID, postID uint) error {
	if err := s.requirePost(ctx, postID); err != nil {
		return err
	}
	return s.postRepo.Unlike(ctx, userID, postID)
}

// AddComment appends a comment and returns the post's full comment
// sequence in insertion order.
func (s *PostService) AddComment(ctx context.Context, userID, postID uint, text string) ([]*models.Comment, error) {
	if err := validation.ValidateCommentText(text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID: postID,
		UserID: userID,
		Text:   text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		c.Commenter = c.User.Summary()
	}
	return comments, nil
}

func (s *PostService) requirePost(ctx context.Context, postID uint) error {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}

func decoratePost(post *models.Post) {
	post.LikeUserIDs = make([]uint, 0, len(post.Likes))
	for _, like := range post.Likes {
		post.LikeUserIDs = append(post.LikeUserIDs, like.UserID)
	}
	for i := range post.Comments {
		post.Comments[i].Commenter = post.Comments[i].User.Summary()
	}
}

func decoratePosts(posts []*models.Post) {
	for _, p := range posts {
		decoratePost(p)
	}
}
