package models

import (
	"time"

	"gorm.io/gorm"
)

// Rating bounds enforced before any write is delegated to storage.
const (
	RatingMin = 1
	RatingMax = 5
)

// Rating represents a user's 1-5 rating of a post.
// The combination of UserID and PostID must be unique; a repeat submission
// updates the stored value instead of creating a duplicate.
type Rating struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_rating_user_post" json:"user_id"`
	PostID    uint           `gorm:"not null;uniqueIndex:idx_rating_user_post" json:"post_id"`
	Value     int            `gorm:"not null" json:"value"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user"`
	Post Post `gorm:"foreignKey:PostID" json:"post"`
}
