// Package service implements the domain operations and the integrity rules
// enforced before any write is delegated to storage.
package service

import (
	"context"
	"errors"

	"murmur/internal/auth"
	"murmur/internal/models"
	"murmur/internal/repository"

	"gorm.io/gorm"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	Caller   auth.Caller
	PostID   uint
	Content  string
	ParentID *uint
}

type UpdateCommentInput struct {
	Caller    auth.Caller
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	Caller    auth.Caller
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

const maxCommentLen = 10000

// CreateComment validates the target post and, for replies, the parent
// comment before delegating the write. A parent on a different post is a
// caller mistake, not a missing resource.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, err
	}

	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Parent comment", *in.ParentID)
			}
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewBadInputError("Parent comment belongs to a different post", "")
		}
	}

	comment := &models.Comment{
		Content:  in.Content,
		UserID:   in.Caller.ID,
		PostID:   in.PostID,
		ParentID: in.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if err := auth.Authorize(in.Caller.ID, comment.UserID, in.Caller.Role); err != nil {
		return nil, err
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment soft-orphans replies instead of cascading: replies keep
// their content and become top-level once the back-reference is cleared.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if err := auth.Authorize(in.Caller.ID, comment.UserID, in.Caller.Role); err != nil {
		return nil, err
	}

	if err := s.commentRepo.OrphanReplies(ctx, in.CommentID); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return nil, err
	}

	return comment, nil
}
