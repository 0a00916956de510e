package service

import (
	"context"

	"murmur/internal/auth"
	"murmur/internal/cache"
	"murmur/internal/models"
	"murmur/internal/observability"
	"murmur/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	Caller  auth.Caller
	Title   string
	Content string
}

type ListPostsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
}

type UpdatePostInput struct {
	Caller  auth.Caller
	PostID  uint
	Title   string
	Content string
}

type DeletePostInput struct {
	Caller auth.Caller
	PostID uint
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

const (
	maxTitleLen   = 300
	maxContentLen = 50000
)

func validatePostFields(title, content string) error {
	if title == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 300 characters)")
	}
	if content == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 50000 characters)")
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Content); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:   in.Title,
		Content: in.Content,
		UserID:  in.Caller.ID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.PostsListKey())

	return s.postRepo.GetByID(ctx, post.ID, in.Caller.ID)
}

// ListPosts serves the first anonymous page cache-aside; a logged-in viewer
// gets their liked flags re-applied on top of the cached rows so the cache
// stays viewer independent.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	var posts []*models.Post

	if in.Offset == 0 && in.Limit <= 20 {
		err := cache.Aside(ctx, cache.PostsListKey(), &posts, cache.ListTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.List(ctx, in.Limit, in.Offset, 0)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}

		if in.CurrentUserID != 0 && len(posts) > 0 {
			postIDs := make([]uint, len(posts))
			for i, p := range posts {
				postIDs[i] = p.ID
			}
			likedIDs, err := s.postRepo.GetLikedPostIDs(ctx, in.CurrentUserID, postIDs)
			if err != nil {
				// The list still goes out; only the liked flags degrade.
				observability.Logger.WarnContext(ctx, "failed to resolve liked flags",
					"user_id", in.CurrentUserID, "error", err.Error())
			} else {
				likedMap := make(map[uint]bool, len(likedIDs))
				for _, id := range likedIDs {
					likedMap[id] = true
				}
				for _, p := range posts {
					p.Liked = likedMap[p.ID]
				}
			}
		}
		return posts, nil
	}

	return s.postRepo.List(ctx, in.Limit, in.Offset, in.CurrentUserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.Caller.ID)
	if err != nil {
		return nil, err
	}

	if err := auth.Authorize(in.Caller.ID, post.UserID, in.Caller.Role); err != nil {
		return nil, err
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if err := validatePostFields(post.Title, post.Content); err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, post.ID)

	return s.postRepo.GetByID(ctx, post.ID, in.Caller.ID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.Caller.ID)
	if err != nil {
		return err
	}

	if err := auth.Authorize(in.Caller.ID, post.UserID, in.Caller.Role); err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, in.PostID)
	return nil
}
