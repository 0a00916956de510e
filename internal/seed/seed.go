// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"murmur/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder builds domain entities and persists them to the database.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run populates the database with test data.
func (s *Seeder) Run(opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}

	users, err := s.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	posts, err := s.CreatePosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	comments, err := s.CreateComments(users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("created %d comments", comments)

	likes, ratings, err := s.CreateEngagement(users, posts)
	if err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Printf("created %d likes, %d ratings", likes, ratings)

	return nil
}

// ClearAll removes seeded data. Order respects foreign keys.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{
		&models.Rating{}, &models.Like{}, &models.Comment{}, &models.Post{}, &models.User{},
	} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateUsers persists n fake users, including one admin. All seeded accounts
// share the password "password123".
func (s *Seeder) CreateUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		role := models.RoleUser
		if i == 0 {
			role = models.RoleAdmin
		}
		users = append(users, &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Email:    gofakeit.Email(),
			Password: string(hashed),
			Role:     role,
			Bio:      gofakeit.Sentence(10),
		})
	}
	if err := s.db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CreatePosts persists n fake posts spread across users with a realistic
// created_at spread.
func (s *Seeder) CreatePosts(users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to attach posts to")
	}

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		user := users[s.rng.Intn(len(users))]
		post := &models.Post{
			Title:   gofakeit.Sentence(5),
			Content: gofakeit.Paragraph(1, 3, 5, "\n"),
			UserID:  user.ID,
		}
		daysBack := s.rng.Intn(90)
		hoursBack := s.rng.Intn(24)
		post.CreatedAt = time.Now().
			Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
		posts = append(posts, post)
	}
	if err := s.db.Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// CreateComments attaches top-level comments to posts, then replies to a
// subset of them. Replies always share the parent's post.
func (s *Seeder) CreateComments(users []*models.User, posts []*models.Post) (int, error) {
	created := 0
	for _, post := range posts {
		numComments := s.rng.Intn(5)
		var parents []*models.Comment
		for i := 0; i < numComments; i++ {
			comment := &models.Comment{
				Content: gofakeit.Sentence(12),
				UserID:  users[s.rng.Intn(len(users))].ID,
				PostID:  post.ID,
			}
			if err := s.db.Create(comment).Error; err != nil {
				return created, err
			}
			created++
			parents = append(parents, comment)
		}

		for _, parent := range parents {
			if s.rng.Intn(3) != 0 {
				continue
			}
			reply := &models.Comment{
				Content:  gofakeit.Sentence(8),
				UserID:   users[s.rng.Intn(len(users))].ID,
				PostID:   parent.PostID,
				ParentID: &parent.ID,
			}
			if err := s.db.Create(reply).Error; err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

// CreateEngagement sprinkles likes and ratings across posts. Each (user, post)
// pair gets at most one of each, matching the storage uniqueness constraints.
func (s *Seeder) CreateEngagement(users []*models.User, posts []*models.Post) (int, int, error) {
	likes, ratings := 0, 0
	for _, post := range posts {
		for _, user := range users {
			if s.rng.Intn(4) == 0 {
				like := &models.Like{UserID: user.ID, PostID: post.ID}
				if err := s.db.Create(like).Error; err != nil {
					return likes, ratings, err
				}
				likes++
			}
			if s.rng.Intn(6) == 0 {
				rating := &models.Rating{
					UserID: user.ID,
					PostID: post.ID,
					Value:  s.rng.Intn(models.RatingMax-models.RatingMin+1) + models.RatingMin,
				}
				if err := s.db.Create(rating).Error; err != nil {
					return likes, ratings, err
				}
				ratings++
			}
		}
	}
	return likes, ratings, nil
}
