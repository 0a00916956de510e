package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	PostKeyPrefix      = "post:%d"
	PostsListKeyPrefix = "posts:list"
	RatingAvgKeyPrefix = "post:%d:rating_avg"
)

const (
	UserTTL      = 5 * time.Minute
	PostTTL      = 30 * time.Minute
	ListTTL      = 30 * time.Second
	RatingAvgTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func PostsListKey() string {
	return PostsListKeyPrefix
}

func RatingAvgKey(postID uint) string {
	return fmt.Sprintf(RatingAvgKeyPrefix, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, PostsListKey())
}

func InvalidateRatingAvg(ctx context.Context, postID uint) {
	Invalidate(ctx, RatingAvgKey(postID))
}
