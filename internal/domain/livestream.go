package domain

import "time"

// Livestream is a scheduled service broadcast provisioned on the external
// video platform. BroadcastID is the platform handle used to end the
// broadcast when the record is removed.
type Livestream struct {
	ID          string
	Title       string
	Description string
	StreamURL   string
	StartTime   time.Time
	EndTime     time.Time
	BroadcastID string
	CreatedBy   string
	CreatorName string
	CreatedAt   time.Time
}
