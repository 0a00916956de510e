package service

import (
	"context"
	"errors"

	"murmur/internal/models"
	"murmur/internal/repository"

	"gorm.io/gorm"
)

type LikeService struct {
	likeRepo repository.LikeRepository
	postRepo repository.PostRepository
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
) *LikeService {
	return &LikeService{
		likeRepo: likeRepo,
		postRepo: postRepo,
	}
}

// LikePost is idempotent: a second like for the same (user, post) pair
// returns the existing record unchanged. A concurrent duplicate insert is
// resolved the same way when the storage uniqueness constraint fires.
func (s *LikeService) LikePost(ctx context.Context, userID, postID uint) (*models.Like, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	existing, err := s.likeRepo.GetByUserAndPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	like := &models.Like{UserID: userID, PostID: postID}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		if models.Classify(err).Kind == models.KindConflict {
			// Lost a race against an identical request; the stored row wins.
			stored, lookupErr := s.likeRepo.GetByUserAndPost(ctx, userID, postID)
			if lookupErr != nil {
				return nil, lookupErr
			}
			if stored == nil {
				// The constraint fired but no live row is visible. Surface
				// the conflict instead of reporting a like that was never
				// persisted.
				return nil, err
			}
			return stored, nil
		}
		return nil, err
	}
	return like, nil
}

// UnlikePost removes the caller's like; there is nothing idempotent about
// removal, a missing like is NotFound.
func (s *LikeService) UnlikePost(ctx context.Context, userID, postID uint) error {
	err := s.likeRepo.Delete(ctx, userID, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Like for post", postID)
		}
		return err
	}
	return nil
}
