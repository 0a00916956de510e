package service

import (
	"context"
	"errors"
	"fmt"

	"murmur/internal/cache"
	"murmur/internal/models"
	"murmur/internal/repository"

	"gorm.io/gorm"
)

type RatingService struct {
	ratingRepo repository.RatingRepository
	postRepo   repository.PostRepository
}

// PostRating is the aggregate returned for a post. Average is nil when the
// post has no ratings.
type PostRating struct {
	Average *float64 `json:"average"`
	Count   int64    `json:"count"`
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	postRepo repository.PostRepository,
) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		postRepo:   postRepo,
	}
}

// RatePost records the caller's rating of a post. Unlike likes, a repeat
// submission overwrites the stored value rather than being ignored.
func (s *RatingService) RatePost(ctx context.Context, userID, postID uint, value int) (*models.Rating, error) {
	if value < models.RatingMin || value > models.RatingMax {
		return nil, models.NewBadInputError(
			fmt.Sprintf("Rating value must be between %d and %d", models.RatingMin, models.RatingMax), "")
	}

	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	existing, err := s.ratingRepo.GetByUserAndPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	var rating *models.Rating
	if existing != nil {
		existing.Value = value
		if err := s.ratingRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		rating = existing
	} else {
		rating = &models.Rating{UserID: userID, PostID: postID, Value: value}
		if err := s.ratingRepo.Create(ctx, rating); err != nil {
			return nil, err
		}
	}

	cache.InvalidateRatingAvg(ctx, postID)
	return rating, nil
}

// AverageRating returns the post's mean rating and rating count, cache-aside.
func (s *RatingService) AverageRating(ctx context.Context, postID uint) (*PostRating, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	var result PostRating
	err := cache.Aside(ctx, cache.RatingAvgKey(postID), &result, cache.RatingAvgTTL, func() error {
		avg, count, fetchErr := s.ratingRepo.Average(ctx, postID)
		if fetchErr != nil {
			return fetchErr
		}
		result = PostRating{Average: avg, Count: count}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
