package repository

import (
	"context"
	"errors"
	"testing"

	"lumen/internal/models"
	"lumen/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUsers(t *testing.T, db *gorm.DB, n int) []models.User {
	t.Helper()
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		u := models.User{
			FullName: "User",
			Email:    string(rune('a'+i)) + "@example.com",
			Password: "hash",
			Handle:   "user" + string(rune('a'+i)),
		}
		require.NoError(t, db.Create(&u).Error)
		users = append(users, u)
	}
	return users
}

func TestFollowRepository_DuplicateEdgeConflicts(t *testing.T) {
	t.Parallel()
	db := testutil.OpenTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	users := seedUsers(t, db, 2)

	err := repo.Create(ctx, &models.Follow{FollowerID: users[0].ID, FolloweeID: users[1].ID})
	require.NoError(t, err)

	err = repo.Create(ctx, &models.Follow{FollowerID: users[0].ID, FolloweeID: users[1].ID})
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeAlreadyExists, appErr.Code)
}

func TestFollowRepository_EdgeIsDirectional(t *testing.T) {
	t.Parallel()
	db := testutil.OpenTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	users := seedUsers(t, db, 2)

	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: users[0].ID, FolloweeID: users[1].ID}))

	forward, err := repo.Exists(ctx, users[0].ID, users[1].ID)
	require.NoError(t, err)
	assert.True(t, forward)

	reverse, err := repo.Exists(ctx, users[1].ID, users[0].ID)
	require.NoError(t, err)
	assert.False(t, reverse)

	// The reverse edge is independent and may coexist
	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: users[1].ID, FolloweeID: users[0].ID}))
}

func TestFollowRepository_DeleteIsIdempotent(t *testing.T) {
	t.Parallel()
	db := testutil.OpenTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	users := seedUsers(t, db, 2)

	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: users[0].ID, FolloweeID: users[1].ID}))
	require.NoError(t, repo.Delete(ctx, users[0].ID, users[1].ID))
	// Second delete hits no rows and still succeeds
	require.NoError(t, repo.Delete(ctx, users[0].ID, users[1].ID))

	exists, err := repo.Exists(ctx, users[0].ID, users[1].ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFollowRepository_ListsAndCounts(t *testing.T) {
	t.Parallel()
	db := testutil.OpenTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	users := seedUsers(t, db, 3)

	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: users[1].ID, FolloweeID: users[0].ID}))
	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: users[2].ID, FolloweeID: users[0].ID}))
	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: users[0].ID, FolloweeID: users[1].ID}))

	followers, err := repo.ListFollowers(ctx, users[0].ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	// Edge insertion order is preserved
	assert.Equal(t, users[1].ID, followers[0].ID)
	assert.Equal(t, users[2].ID, followers[1].ID)

	following, err := repo.ListFollowing(ctx, users[0].ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, users[1].ID, following[0].ID)

	followerCount, err := repo.CountFollowers(ctx, users[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, followerCount)

	followingCount, err := repo.CountFollowing(ctx, users[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, followingCount)

	ids, err := repo.ListFollowingIDs(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{users[1].ID}, ids)
}
