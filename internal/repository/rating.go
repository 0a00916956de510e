package repository

import (
	"context"
	"errors"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// RatingRepository defines persistence operations for ratings, including the
// per-post average aggregate.
type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	Update(ctx context.Context, rating *models.Rating) error
	GetByUserAndPost(ctx context.Context, userID, postID uint) (*models.Rating, error)
	Average(ctx context.Context, postID uint) (*float64, int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository returns a new RatingRepository implementation.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *ratingRepository) Update(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Save(rating).Error
}

// GetByUserAndPost returns (nil, nil) when the pair has no rating.
func (r *ratingRepository) GetByUserAndPost(ctx context.Context, userID, postID uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

// Average returns the arithmetic mean of all stored values for the post and
// the number of ratings. The average is nil, not zero, when no ratings exist.
func (r *ratingRepository) Average(ctx context.Context, postID uint) (*float64, int64, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("AVG(value) as average, COUNT(*) as count").
		Where("post_id = ?", postID).
		Scan(&row).Error
	if err != nil {
		return nil, 0, err
	}
	return row.Average, row.Count, nil
}
