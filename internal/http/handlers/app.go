package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
	"server/internal/providers/daraja"
	"server/internal/providers/imagehost"
	"server/internal/providers/youtube"
	"server/internal/storage"
)

// PaymentGateway issues push-payment requests to the mobile money provider.
type PaymentGateway interface {
	HasCredentials() bool
	InitiateSTKPush(ctx context.Context, push daraja.PushRequest) (*daraja.PushResponse, error)
}

// ImageUploader stores event images on the external image host.
type ImageUploader interface {
	HasCredentials() bool
	Upload(ctx context.Context, filename string, data []byte) (*imagehost.UploadResult, error)
}

// BroadcastPlatform provisions and ends live broadcasts on the video platform.
type BroadcastPlatform interface {
	HasCredentials() bool
	CreateLiveBroadcast(ctx context.Context, title, description string, start, end time.Time) (*youtube.Broadcast, error)
	EndLiveBroadcast(ctx context.Context, broadcastID string) error
}

// App bundles the dependencies handlers need. Repositories and providers are
// interfaces so tests can swap in fakes.
type App struct {
	Logger *infra.Logger
	Cfg    *infra.Config

	Users         domain.UserRepository
	Donations     domain.DonationRepository
	Appointments  domain.AppointmentRepository
	Feed          domain.FeedRepository
	Testimonials  domain.TestimonialRepository
	Events        domain.EventRepository
	Livestreams   domain.LivestreamRepository
	Notifications domain.NotificationRepository

	Payments  PaymentGateway
	Images    ImageUploader
	Broadcast BroadcastPlatform

	// Files is the local fallback store for uploads when the image host is
	// not configured.
	Files *storage.FileStore
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, msg string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": kind, "message": msg},
	})
}

// domainError translates domain sentinel errors into the HTTP error contract.
func (a *App) domainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "not allowed")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, "conflict", "resource already exists")
	case errors.Is(err, domain.ErrGatewayUnavailable):
		a.error(w, http.StatusBadGateway, "gateway_unavailable", "payment gateway unavailable")
	case errors.Is(err, domain.ErrGatewayRejected):
		a.error(w, http.StatusBadGateway, "gateway_rejected", "payment gateway rejected the request")
	default:
		a.Logger.Error().Err(err).Msg(fallback)
		a.error(w, http.StatusInternalServerError, "internal", fallback)
	}
}

// identity returns the authenticated caller injected by the auth middleware.
// The bool is false only when a handler is reachable without the middleware,
// which is a routing mistake.
func (a *App) identity(r *http.Request) (middleware.Identity, bool) {
	return middleware.IdentityFromContext(r.Context())
}

// canModerate reports whether the caller may act on another member's resource.
func canModerate(id middleware.Identity) bool {
	return id.Role == domain.RoleAdmin
}

// ClergyRoles are the roles allowed to decide appointment requests and
// schedule broadcasts.
func ClergyRoles() []domain.Role {
	return []domain.Role{domain.RoleAdmin, domain.RoleReverend, domain.RoleEvangelist}
}

func contextWithTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 30 * time.Second
	}
	return context.WithTimeout(r.Context(), d)
}
