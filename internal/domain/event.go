package domain

import "time"

// Event is a scheduled church gathering, optionally illustrated with an
// uploaded image.
type Event struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	Location    string
	ImageURL    string
	CreatedBy   string
	CreatorName string
	CreatedAt   time.Time
}
