package repository

import (
	"context"
	"regexp"
	"testing"

	"murmur/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &models.Post{Title: "Hello", Content: "World", UserID: 1}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, post)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	t.Run("Anonymous viewer gets computed counters", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "title", "user_id", "comments_count", "likes_count", "liked"}).
			AddRow(1, "Hello", 101, 3, 7, false)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT posts.*,`)).
			WillReturnRows(rows)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(101, "author"))

		post, err := repo.GetByID(ctx, 1, 0)
		assert.NoError(t, err)
		if assert.NotNil(t, post) {
			assert.Equal(t, 3, post.CommentsCount)
			assert.Equal(t, 7, post.LikesCount)
			assert.False(t, post.Liked)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT posts.*,`)).
			WillReturnError(gorm.ErrRecordNotFound)

		post, err := repo.GetByID(ctx, 99, 0)
		assert.Nil(t, post)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_GetLikedPostIDs(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "post_id" FROM "likes" WHERE (user_id = $1 AND post_id IN ($2,$3,$4)) AND "likes"."deleted_at" IS NULL`)).
		WithArgs(9, 1, 2, 3).
		WillReturnRows(sqlmock.NewRows([]string{"post_id"}).AddRow(2))

	ids, err := repo.GetLikedPostIDs(ctx, 9, []uint{1, 2, 3})
	assert.NoError(t, err)
	assert.Equal(t, []uint{2}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "deleted_at"`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(ctx, 1)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already gone", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "deleted_at"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.Delete(ctx, 99)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
