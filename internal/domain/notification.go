package domain

import "time"

// Notification is a private message surfaced to one member.
type Notification struct {
	ID        string
	UserID    string
	Content   string
	Read      bool
	CreatedAt time.Time
}
