package seed

import (
	"testing"

	"murmur/internal/database"
	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeeder_Run(t *testing.T) {
	t.Parallel()

	db := setupSeedTestDB(t)
	seeder := NewSeeder(db)

	require.NoError(t, seeder.Run(Options{NumUsers: 5, NumPosts: 10, ShouldClean: true}))

	var users []models.User
	require.NoError(t, db.Order("id").Find(&users).Error)
	require.Len(t, users, 5)

	// The first seeded account is the admin; the rest are regular users.
	assert.Equal(t, models.RoleAdmin, users[0].Role)
	for _, u := range users[1:] {
		assert.Equal(t, models.RoleUser, u.Role)
	}

	var postCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Equal(t, int64(10), postCount)

	// Every reply shares its parent's post.
	var replies []models.Comment
	require.NoError(t, db.Where("parent_id IS NOT NULL").Find(&replies).Error)
	for _, reply := range replies {
		var parent models.Comment
		require.NoError(t, db.First(&parent, *reply.ParentID).Error)
		assert.Equal(t, parent.PostID, reply.PostID)
	}

	// At most one like and one rating per (user, post) pair.
	type pairCount struct {
		UserID uint
		PostID uint
		N      int64
	}
	var likePairs []pairCount
	require.NoError(t, db.Model(&models.Like{}).
		Select("user_id, post_id, COUNT(*) as n").
		Group("user_id, post_id").
		Scan(&likePairs).Error)
	for _, p := range likePairs {
		assert.LessOrEqual(t, p.N, int64(1))
	}

	var ratings []models.Rating
	require.NoError(t, db.Find(&ratings).Error)
	for _, r := range ratings {
		assert.GreaterOrEqual(t, r.Value, models.RatingMin)
		assert.LessOrEqual(t, r.Value, models.RatingMax)
	}
}

func TestSeeder_RunTwiceWithClean(t *testing.T) {
	t.Parallel()

	db := setupSeedTestDB(t)
	seeder := NewSeeder(db)

	require.NoError(t, seeder.Run(Options{NumUsers: 3, NumPosts: 4, ShouldClean: true}))
	require.NoError(t, seeder.Run(Options{NumUsers: 3, NumPosts: 4, ShouldClean: true}))

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.Equal(t, int64(3), userCount)

	var postCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Equal(t, int64(4), postCount)
}

func TestSeeder_ClearAll(t *testing.T) {
	t.Parallel()

	db := setupSeedTestDB(t)
	seeder := NewSeeder(db)

	require.NoError(t, seeder.Run(Options{NumUsers: 2, NumPosts: 3}))
	require.NoError(t, seeder.ClearAll())

	for _, model := range []any{
		&models.User{}, &models.Post{}, &models.Comment{}, &models.Like{}, &models.Rating{},
	} {
		var count int64
		require.NoError(t, db.Unscoped().Model(model).Count(&count).Error)
		assert.Equal(t, int64(0), count, "%T should be empty", model)
	}
}
