package domain

import "time"

// FeedPost is a short community update shared on the public feed.
type FeedPost struct {
	ID          string
	UserID      string
	AuthorName  string
	Content     string
	Attachments []string
	CreatedAt   time.Time
}
