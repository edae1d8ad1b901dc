package domain

import "time"

// ReactionType enumerates the supported testimonial reactions.
type ReactionType string

const (
	ReactionLike ReactionType = "like"
	ReactionLove ReactionType = "love"
	ReactionPray ReactionType = "pray"
	ReactionAmen ReactionType = "amen"
)

// ValidReaction reports whether the value is a known reaction type.
func ValidReaction(r ReactionType) bool {
	switch r {
	case ReactionLike, ReactionLove, ReactionPray, ReactionAmen:
		return true
	}
	return false
}

// TestimonialReaction is a single member reaction on a testimonial.
type TestimonialReaction struct {
	ID            string
	TestimonialID string
	UserID        string
	Type          ReactionType
	CreatedAt     time.Time
}

// TestimonialComment is a member comment on a testimonial.
type TestimonialComment struct {
	ID            string
	TestimonialID string
	UserID        string
	Content       string
	CreatedAt     time.Time
}

// Testimonial is a member's shared account of faith.
type Testimonial struct {
	ID         string
	UserID     string
	AuthorName string
	Content    string
	Reactions  []TestimonialReaction
	Comments   []TestimonialComment
	CreatedAt  time.Time
}
