package service

import (
	"context"
	"testing"
	"time"

	"lumen/internal/models"
	"lumen/internal/repository"
	"lumen/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postFixture struct {
	posts *PostService
	users *UserService
}

func newPostFixture(t *testing.T) postFixture {
	t.Helper()
	db := testutil.OpenTestDB(t)
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	assets := NewAssetStore(assetRepo, nil)
	return postFixture{
		posts: NewPostService(repository.NewPostRepository(db), repository.NewCommentRepository(db), userRepo, assets),
		users: NewUserService(userRepo, followRepo, assets),
	}
}

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()
	f := newPostFixture(t)
	ctx := context.Background()

	author := signupUser(t, f.users, "post-author@example.com")

	post, err := f.posts.CreatePost(ctx, CreatePostInput{
		AuthorID: author.ID,
		Image:    "https://example.com/photo.jpg",
		Caption:  "First light",
		Location: "Reykjavik",
	})
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.NotZero(t, post.ID)
	assert.Equal(t, "https://example.com/photo.jpg", post.ImageURL)
	assert.Equal(t, "First light", post.Caption)
	assert.Equal(t, author.ID, post.Author.ID)
	assert.Empty(t, post.LikeUserIDs)
}

func TestPostService_CreatePost_ImageRequired(t *testing.T) {
	t.Parallel()
	f := newPostFixture(t)
	ctx := context.Background()

	author := signupUser(t, f.users, "post-noimg@example.com")

	_, err := f.posts.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Caption: "text only"})
	require.Error(t, err)
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestPostService_CreatePost_InlineImage(t *testing.T) {
	t.Parallel()
	db := testutil.OpenTestDB(t)
	userRepo := repository.NewUserRepository(db)
	assets := newTestAssetStore(t, repository.NewAssetRepository(db))
	posts := NewPostService(repository.NewPostRepository(db), repository.NewCommentRepository(db), userRepo, assets)
	users := NewUserService(userRepo, repository.NewFollowRepository(db), assets)
	ctx := context.Background()

	author := signupUser(t, users, "post-inline@example.com")

	post, err := posts.CreatePost(ctx, CreatePostInput{
		AuthorID: author.ID,
		Image:    testutil.TinyPNGDataURL(t, 8, 8),
		Caption:  "inline",
	})
	require.NoError(t, err)
	assert.Contains(t, post.ImageURL, "/api/assets/")
	assert.Contains(t, post.ImageURL, ".webp")
}

func TestPostService_LikeAndUnlike(t *testing.T) {
	t.Parallel()
	f := newPostFixture(t)
	ctx := context.Background()

	author := signupUser(t, f.users, "like-author@example.com")
	fan := signupUser(t, f.users, "like-fan@example.com")

	post, err := f.posts.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Image: "https://example.com/p.jpg"})
	require.NoError(t, err)

	require.NoError(t, f.posts.Like(ctx, fan.ID, post.ID))
	// A second like is absorbed, not duplicated
	require.NoError(t, f.posts.Like(ctx, fan.ID, post.ID))

	got, err := f.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{fan.ID}, got.LikeUserIDs)

	require.NoError(t, f.posts.Unlike(ctx, fan.ID, post.ID))
	require.NoError(t, f.posts.Unlike(ctx, fan.ID, post.ID))

	got, err = f.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, got.LikeUserIDs)
}

func TestPostService_Like_UnknownPost(t *testing.T) {
	t.Parallel()
	f := newPostFixture(t)
	ctx := context.Background()

	fan := signupUser(t, f.users, "like-nopost@example.com")

	err := f.posts.Like(ctx, fan.ID, 99999)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestPostService_AddComment(t *testing.T) {
	t.Parallel()
	f := newPostFixture(t)
	ctx := context.Background()

	author := signupUser(t, f.users, "comment-author@example.com")
	commenter := signupUser(t, f.users, "comment-user@example.com")

	post, err := f.posts.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Image: "https://example.com/p.jpg"})
	require.NoError(t, err)

	comments, err := f.posts.AddComment(ctx, commenter.ID, post.ID, "nice shot")
	require.NoError(t, err)
	require.Len(t, comments, 1)

	comments, err = f.posts.AddComment(ctx, author.ID, post.ID, "thanks")
	require.NoError(t, err)
	require.Len(t, comments, 2)

	// Insertion order, with the commenter projected on each entry
	assert.Equal(t, "nice shot", comments[0].Text)
	assert.Equal(t, commenter.ID, comments[0].Commenter.ID)
	assert.Equal(t, "thanks", comments[1].Text)
	assert.Equal(t, author.ID, comments[1].Commenter.ID)

	_, err = f.posts.AddComment(ctx, commenter.ID, post.ID, "   ")
	require.Error(t, err)
	assertAppErrorCode(t, err, models.CodeValidation)

	_, err = f.posts.AddComment(ctx, commenter.ID, 99999, "hello")
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestPostService_Feeds(t *testing.T) {
	t.Parallel()
	f := newPostFixture(t)
	ctx := context.Background()

	a := signupUser(t, f.users, "feed-a@example.com")
	b := signupUser(t, f.users, "feed-b@example.com")

	first, err := f.posts.CreatePost(ctx, CreatePostInput{AuthorID: a.ID, Image: "https://example.com/1.jpg"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := f.posts.CreatePost(ctx, CreatePostInput{AuthorID: b.ID, Image: "https://example.com/2.jpg"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	third, err := f.posts.CreatePost(ctx, CreatePostInput{AuthorID: a.ID, Image: "https://example.com/3.jpg"})
	require.NoError(t, err)

	feed, err := f.posts.GlobalFeed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, third.ID, feed[0].ID)
	assert.Equal(t, second.ID, feed[1].ID)
	assert.Equal(t, first.ID, feed[2].ID)

	profile, err := f.posts.ProfileFeed(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, profile, 2)
	assert.Equal(t, third.ID, profile[0].ID)
	assert.Equal(t, first.ID, profile[1].ID)

	_, err = f.posts.ProfileFeed(ctx, 99999)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}
