package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPhoneNumber(ctx context.Context, phone string) (*User, error)
}

// DonationRepository persists donation attempts and reconciles provider
// callbacks against them.
type DonationRepository interface {
	// CreatePending records an accepted push request before the provider
	// callback arrives.
	CreatePending(ctx context.Context, donation *Donation) (*Donation, error)
	// Complete transitions the pending donation matched by checkout request
	// ID to completed. ErrNotFound when no pending row matches.
	Complete(ctx context.Context, checkoutRequestID, receiptNumber string, amount int64) (*Donation, error)
	// Fail marks the pending donation matched by checkout request ID failed.
	Fail(ctx context.Context, checkoutRequestID string) (*Donation, error)
	// InsertCompleted stores a completed donation that has no matching
	// pending row. The unique receipt constraint makes replays a no-op;
	// inserted is false when the receipt was already recorded.
	InsertCompleted(ctx context.Context, donation *Donation) (inserted bool, err error)
	ListByUser(ctx context.Context, userID string) ([]Donation, error)
}

// AppointmentRepository persists booking requests.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]Appointment, error)
	UpdateStatus(ctx context.Context, id string, status AppointmentStatus) (*Appointment, error)
	Delete(ctx context.Context, id string) error
}

// FeedRepository persists community feed posts.
type FeedRepository interface {
	Create(ctx context.Context, post *FeedPost) (*FeedPost, error)
	GetByID(ctx context.Context, id string) (*FeedPost, error)
	List(ctx context.Context) ([]FeedPost, error)
	Update(ctx context.Context, post *FeedPost) (*FeedPost, error)
	Delete(ctx context.Context, id string) error
}

// TestimonialRepository persists testimonials and their sub-resources.
type TestimonialRepository interface {
	Create(ctx context.Context, t *Testimonial) (*Testimonial, error)
	GetByID(ctx context.Context, id string) (*Testimonial, error)
	List(ctx context.Context) ([]Testimonial, error)
	AddReaction(ctx context.Context, reaction *TestimonialReaction) ([]TestimonialReaction, error)
	AddComment(ctx context.Context, comment *TestimonialComment) ([]TestimonialComment, error)
}

// EventRepository persists church events.
type EventRepository interface {
	Create(ctx context.Context, event *Event) (*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	Update(ctx context.Context, event *Event) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// LivestreamRepository persists scheduled broadcasts.
type LivestreamRepository interface {
	Create(ctx context.Context, stream *Livestream) (*Livestream, error)
	GetByID(ctx context.Context, id string) (*Livestream, error)
	List(ctx context.Context) ([]Livestream, error)
	Update(ctx context.Context, stream *Livestream) (*Livestream, error)
	Delete(ctx context.Context, id string) error
}

// NotificationRepository persists per-member notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	GetByID(ctx context.Context, id string) (*Notification, error)
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, id string) (*Notification, error)
	Delete(ctx context.Context, id string) error
}
