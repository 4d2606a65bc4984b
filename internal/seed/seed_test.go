package seed

import (
	"os"
	"path/filepath"
	"testing"

	"lumen/internal/models"
	"lumen/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_SeedSocialMesh(t *testing.T) {
	t.Parallel()
	db := testutil.OpenTestDB(t)
	seeder := NewSeeder(db, Options{SkipBcrypt: true})

	users, err := seeder.SeedSocialMesh(6)
	require.NoError(t, err)
	require.Len(t, users, 6)

	for _, u := range users {
		assert.NotEmpty(t, u.Handle)
		assert.NotEmpty(t, u.Email)
	}

	// No self edges in the woven graph
	var selfEdges int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = followee_id").Count(&selfEdges).Error)
	assert.Zero(t, selfEdges)
}

func TestSeeder_SeedEngagement(t *testing.T) {
	t.Parallel()
	db := testutil.OpenTestDB(t)
	seeder := NewSeeder(db, Options{SkipBcrypt: true, MaxDays: 7})

	users, err := seeder.SeedSocialMesh(4)
	require.NoError(t, err)

	posts, err := seeder.SeedEngagement(users, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 10)

	var postCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.EqualValues(t, 10, postCount)
}

func TestSeeder_SeedConversations(t *testing.T) {
	t.Parallel()
	db := testutil.OpenTestDB(t)
	seeder := NewSeeder(db, Options{SkipBcrypt: true})

	users, err := seeder.SeedSocialMesh(4)
	require.NoError(t, err)
	require.NoError(t, seeder.SeedConversations(users, 3))

	var messageCount int64
	require.NoError(t, db.Model(&models.Message{}).Count(&messageCount).Error)
	assert.NotZero(t, messageCount)
}

func TestSeeder_ClearAll(t *testing.T) {
	t.Parallel()
	db := testutil.OpenTestDB(t)
	seeder := NewSeeder(db, Options{SkipBcrypt: true})

	users, err := seeder.SeedSocialMesh(3)
	require.NoError(t, err)
	_, err = seeder.SeedEngagement(users, 5)
	require.NoError(t, err)

	require.NoError(t, seeder.ClearAll())

	var userCount int64
	require.NoError(t, db.Unscoped().Model(&models.User{}).Count(&userCount).Error)
	assert.Zero(t, userCount)
}

func TestLoadPresets_BuiltinFallback(t *testing.T) {
	t.Parallel()
	presets, err := LoadPresets("")
	require.NoError(t, err)
	require.NotEmpty(t, presets)

	demo, err := FindPreset(presets, "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", demo.Name)
	assert.Positive(t, demo.Users)

	_, err = FindPreset(presets, "does-not-exist")
	assert.Error(t, err)
}

func TestLoadPresets_FromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "presets.yml")
	content := `presets:
  - name: tiny
    users: 2
    posts: 3
    dm_threads: 1
    skip_bcrypt: true
    max_days: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	presets, err := LoadPresets(path)
	require.NoError(t, err)
	require.Len(t, presets, 1)
	assert.Equal(t, "tiny", presets[0].Name)
	assert.Equal(t, 2, presets[0].Users)
	assert.True(t, presets[0].SkipBcrypt)

	_, err = LoadPresets(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
