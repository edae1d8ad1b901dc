package handlers

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/daraja"
	"server/internal/providers/imagehost"
	"server/internal/providers/youtube"
)

// newTestApp wires an App onto in-memory fakes.
func newTestApp() (*App, *fakeStore) {
	store := &fakeStore{
		usersByID: map[string]*domain.User{},
	}
	discard := zerolog.New(io.Discard)
	logger := infra.Logger(discard)
	cfg := &infra.Config{
		JWTSecret:         "test-secret",
		ImageUploadFolder: "event-images",
		StorageBaseURL:    "http://localhost:8080/static",
		GatewayTimeout:    5 * time.Second,
	}
	app := &App{
		Logger:        &logger,
		Cfg:           cfg,
		Users:         &fakeUserRepo{store: store},
		Donations:     &fakeDonationRepo{store: store},
		Appointments:  &fakeAppointmentRepo{store: store},
		Feed:          &fakeFeedRepo{store: store},
		Testimonials:  &fakeTestimonialRepo{store: store},
		Events:        &fakeEventRepo{store: store},
		Livestreams:   &fakeLivestreamRepo{store: store},
		Notifications: &fakeNotificationRepo{store: store},
		Payments:      &fakePaymentGateway{checkoutRequestID: "ws_CO_0001"},
		Images:        &fakeImageUploader{},
		Broadcast:     &fakeBroadcastPlatform{},
	}
	return app, store
}

// fakeStore holds all records so tests can assert on persisted state.
type fakeStore struct {
	seq int

	usersByID     map[string]*domain.User
	donations     []*domain.Donation
	appointments  []*domain.Appointment
	feedPosts     []*domain.FeedPost
	testimonials  []*domain.Testimonial
	events        []*domain.Event
	livestreams   []*domain.Livestream
	notifications []*domain.Notification
}

func (s *fakeStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.store.usersByID {
		if existing.Email == user.Email || existing.PhoneNumber == user.PhoneNumber {
			return nil, domain.ErrConflict
		}
	}
	u := *user
	u.ID = r.store.nextID("user")
	u.CreatedAt = time.Now()
	r.store.usersByID[u.ID] = &u
	return &u, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.store.usersByID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.store.usersByID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByPhoneNumber(_ context.Context, phone string) (*domain.User, error) {
	for _, u := range r.store.usersByID {
		if u.PhoneNumber == phone {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeDonationRepo struct{ store *fakeStore }

func (r *fakeDonationRepo) CreatePending(_ context.Context, donation *domain.Donation) (*domain.Donation, error) {
	for _, d := range r.store.donations {
		if d.CheckoutRequestID == donation.CheckoutRequestID {
			return nil, domain.ErrConflict
		}
	}
	d := *donation
	d.ID = r.store.nextID("donation")
	d.Status = domain.DonationPending
	d.CreatedAt = time.Now()
	r.store.donations = append(r.store.donations, &d)
	return &d, nil
}

func (r *fakeDonationRepo) Complete(_ context.Context, checkoutRequestID, receiptNumber string, amount int64) (*domain.Donation, error) {
	for _, d := range r.store.donations {
		if d.CheckoutRequestID == checkoutRequestID && d.Status == domain.DonationPending {
			d.Status = domain.DonationCompleted
			d.ReceiptNumber = &receiptNumber
			d.AmountInt = amount
			d.UpdatedAt = time.Now()
			copied := *d
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeDonationRepo) Fail(_ context.Context, checkoutRequestID string) (*domain.Donation, error) {
	for _, d := range r.store.donations {
		if d.CheckoutRequestID == checkoutRequestID && d.Status == domain.DonationPending {
			d.Status = domain.DonationFailed
			d.UpdatedAt = time.Now()
			copied := *d
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeDonationRepo) InsertCompleted(_ context.Context, donation *domain.Donation) (bool, error) {
	for _, d := range r.store.donations {
		if d.ReceiptNumber != nil && donation.ReceiptNumber != nil && *d.ReceiptNumber == *donation.ReceiptNumber {
			return false, nil
		}
	}
	d := *donation
	d.ID = r.store.nextID("donation")
	d.Status = domain.DonationCompleted
	d.CreatedAt = time.Now()
	r.store.donations = append(r.store.donations, &d)
	return true, nil
}

func (r *fakeDonationRepo) ListByUser(_ context.Context, userID string) ([]domain.Donation, error) {
	var out []domain.Donation
	for _, d := range r.store.donations {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

type fakeAppointmentRepo struct{ store *fakeStore }

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	a := *appt
	a.ID = r.store.nextID("appt")
	a.CreatedAt = time.Now()
	r.store.appointments = append(r.store.appointments, &a)
	copied := a
	return &copied, nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	for _, a := range r.store.appointments {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeAppointmentRepo) ListByUser(_ context.Context, userID string) ([]domain.Appointment, error) {
	var out []domain.Appointment
	for _, a := range r.store.appointments {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	for _, a := range r.store.appointments {
		if a.ID == id {
			a.Status = status
			copied := *a
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id string) error {
	for i, a := range r.store.appointments {
		if a.ID == id {
			r.store.appointments = append(r.store.appointments[:i], r.store.appointments[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeFeedRepo struct{ store *fakeStore }

func (r *fakeFeedRepo) Create(_ context.Context, post *domain.FeedPost) (*domain.FeedPost, error) {
	p := *post
	p.ID = r.store.nextID("post")
	p.CreatedAt = time.Now()
	r.store.feedPosts = append(r.store.feedPosts, &p)
	copied := p
	return &copied, nil
}

func (r *fakeFeedRepo) GetByID(_ context.Context, id string) (*domain.FeedPost, error) {
	for _, p := range r.store.feedPosts {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeFeedRepo) List(_ context.Context) ([]domain.FeedPost, error) {
	var out []domain.FeedPost
	for _, p := range r.store.feedPosts {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeFeedRepo) Update(_ context.Context, post *domain.FeedPost) (*domain.FeedPost, error) {
	for _, p := range r.store.feedPosts {
		if p.ID == post.ID {
			*p = *post
			copied := *p
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeFeedRepo) Delete(_ context.Context, id string) error {
	for i, p := range r.store.feedPosts {
		if p.ID == id {
			r.store.feedPosts = append(r.store.feedPosts[:i], r.store.feedPosts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeTestimonialRepo struct{ store *fakeStore }

func (r *fakeTestimonialRepo) Create(_ context.Context, t *domain.Testimonial) (*domain.Testimonial, error) {
	item := *t
	item.ID = r.store.nextID("testimonial")
	item.CreatedAt = time.Now()
	r.store.testimonials = append(r.store.testimonials, &item)
	copied := item
	return &copied, nil
}

func (r *fakeTestimonialRepo) GetByID(_ context.Context, id string) (*domain.Testimonial, error) {
	for _, t := range r.store.testimonials {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeTestimonialRepo) List(_ context.Context) ([]domain.Testimonial, error) {
	var out []domain.Testimonial
	for _, t := range r.store.testimonials {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTestimonialRepo) AddReaction(_ context.Context, reaction *domain.TestimonialReaction) ([]domain.TestimonialReaction, error) {
	for _, t := range r.store.testimonials {
		if t.ID == reaction.TestimonialID {
			re := *reaction
			re.ID = r.store.nextID("reaction")
			re.CreatedAt = time.Now()
			t.Reactions = append(t.Reactions, re)
			return append([]domain.TestimonialReaction(nil), t.Reactions...), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeTestimonialRepo) AddComment(_ context.Context, comment *domain.TestimonialComment) ([]domain.TestimonialComment, error) {
	for _, t := range r.store.testimonials {
		if t.ID == comment.TestimonialID {
			c := *comment
			c.ID = r.store.nextID("comment")
			c.CreatedAt = time.Now()
			t.Comments = append(t.Comments, c)
			return append([]domain.TestimonialComment(nil), t.Comments...), nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeEventRepo struct{ store *fakeStore }

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) (*domain.Event, error) {
	e := *event
	e.ID = r.store.nextID("event")
	e.CreatedAt = time.Now()
	r.store.events = append(r.store.events, &e)
	copied := e
	return &copied, nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	for _, e := range r.store.events {
		if e.ID == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeEventRepo) List(_ context.Context) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range r.store.events {
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event) (*domain.Event, error) {
	for _, e := range r.store.events {
		if e.ID == event.ID {
			*e = *event
			copied := *e
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error {
	for i, e := range r.store.events {
		if e.ID == id {
			r.store.events = append(r.store.events[:i], r.store.events[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeLivestreamRepo struct{ store *fakeStore }

func (r *fakeLivestreamRepo) Create(_ context.Context, stream *domain.Livestream) (*domain.Livestream, error) {
	s := *stream
	s.ID = r.store.nextID("stream")
	s.CreatedAt = time.Now()
	r.store.livestreams = append(r.store.livestreams, &s)
	copied := s
	return &copied, nil
}

func (r *fakeLivestreamRepo) GetByID(_ context.Context, id string) (*domain.Livestream, error) {
	for _, s := range r.store.livestreams {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeLivestreamRepo) List(_ context.Context) ([]domain.Livestream, error) {
	var out []domain.Livestream
	for _, s := range r.store.livestreams {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeLivestreamRepo) Update(_ context.Context, stream *domain.Livestream) (*domain.Livestream, error) {
	for _, s := range r.store.livestreams {
		if s.ID == stream.ID {
			*s = *stream
			copied := *s
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeLivestreamRepo) Delete(_ context.Context, id string) error {
	for i, s := range r.store.livestreams {
		if s.ID == id {
			r.store.livestreams = append(r.store.livestreams[:i], r.store.livestreams[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeNotificationRepo struct{ store *fakeStore }

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	item := *n
	item.ID = r.store.nextID("notification")
	item.CreatedAt = time.Now()
	r.store.notifications = append(r.store.notifications, &item)
	copied := item
	return &copied, nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	for _, n := range r.store.notifications {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.store.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id string) (*domain.Notification, error) {
	for _, n := range r.store.notifications {
		if n.ID == id {
			n.Read = true
			copied := *n
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id string) error {
	for i, n := range r.store.notifications {
		if n.ID == id {
			r.store.notifications = append(r.store.notifications[:i], r.store.notifications[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakePaymentGateway struct {
	checkoutRequestID string
	pushErr           error
	lastPush          daraja.PushRequest
	pushes            int
}

func (g *fakePaymentGateway) HasCredentials() bool { return true }

func (g *fakePaymentGateway) InitiateSTKPush(_ context.Context, push daraja.PushRequest) (*daraja.PushResponse, error) {
	g.pushes++
	g.lastPush = push
	if g.pushErr != nil {
		return nil, g.pushErr
	}
	return &daraja.PushResponse{
		CheckoutRequestID: g.checkoutRequestID,
		ResponseCode:      "0",
		CustomerMessage:   "Success. Request accepted for processing",
	}, nil
}

type fakeImageUploader struct {
	uploadErr error
	uploads   int
}

func (u *fakeImageUploader) HasCredentials() bool { return true }

func (u *fakeImageUploader) Upload(_ context.Context, filename string, _ []byte) (*imagehost.UploadResult, error) {
	u.uploads++
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	return &imagehost.UploadResult{
		SecureURL: "https://img.example.com/event-images/" + filename,
		PublicID:  "event-images/" + filename,
	}, nil
}

type fakeBroadcastPlatform struct {
	createErr error
	ended     []string
}

func (b *fakeBroadcastPlatform) HasCredentials() bool { return true }

func (b *fakeBroadcastPlatform) CreateLiveBroadcast(_ context.Context, _, _ string, _, _ time.Time) (*youtube.Broadcast, error) {
	if b.createErr != nil {
		return nil, b.createErr
	}
	return &youtube.Broadcast{
		BroadcastID: "bc-123",
		StreamID:    "st-456",
		WatchURL:    "https://www.youtube.com/watch?v=bc-123",
	}, nil
}

func (b *fakeBroadcastPlatform) EndLiveBroadcast(_ context.Context, broadcastID string) error {
	b.ended = append(b.ended, broadcastID)
	return nil
}
