package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// Options carries the cross-cutting router configuration.
type Options struct {
	JWTSecret       string
	CORSOrigins     []string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
	StaticDir       string
}

// NewRouter mounts every API route. Public reads sit outside the auth group;
// everything that mutates state requires a bearer token, and clergy-only
// decisions additionally require the matching role.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(*app.Logger),
		middleware.CORS(opts.CORSOrigins),
		middleware.Locale(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/healthz", app.Health)

	if opts.StaticDir != "" {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir)))
		r.Get("/static/*", fileServer.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.Register)
			r.Post("/login", app.Login)
			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthJWT(opts.JWTSecret))
				r.Get("/user", app.CurrentUser)
			})
		})

		// The payment provider posts settlement reports here; it cannot
		// carry a bearer token.
		r.Post("/donations/callback", app.DonationsCallback)

		r.Get("/feed", app.FeedList)
		r.Get("/testimonials", app.TestimonialsList)
		r.Get("/testimonials/{id}", app.TestimonialsGet)
		r.Get("/events", app.EventsList)
		r.Get("/events/{id}", app.EventsGet)
		r.Get("/livestreams", app.LivestreamsList)
		r.Get("/livestreams/{id}", app.LivestreamsGet)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(opts.JWTSecret))

			r.Route("/donations", func(r chi.Router) {
				r.Get("/", app.DonationsList)
				r.With(middleware.RateLimit(opts.RateLimitPerMin, time.Minute)).
					Post("/initiate", app.DonationsInitiate)
			})

			r.Post("/feed", app.FeedCreate)
			r.Put("/feed/{id}", app.FeedUpdate)
			r.Delete("/feed/{id}", app.FeedDelete)

			r.Post("/testimonials", app.TestimonialsCreate)
			r.Post("/testimonials/{id}/reactions", app.TestimonialsReact)
			r.Post("/testimonials/{id}/comments", app.TestimonialsComment)

			r.Route("/appointments", func(r chi.Router) {
				r.Post("/", app.AppointmentsCreate)
				r.Get("/", app.AppointmentsList)
				r.With(middleware.RequireRoles(handlers.ClergyRoles()...)).
					Put("/{id}/status", app.AppointmentsUpdateStatus)
				r.Delete("/{id}", app.AppointmentsDelete)
			})

			r.Post("/events", app.EventsCreate)
			r.Put("/events/{id}", app.EventsUpdate)
			r.Delete("/events/{id}", app.EventsDelete)

			r.With(middleware.RequireRoles(handlers.ClergyRoles()...)).
				Post("/livestreams", app.LivestreamsCreate)
			r.Put("/livestreams/{id}", app.LivestreamsUpdate)
			r.Delete("/livestreams/{id}", app.LivestreamsDelete)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", app.NotificationsList)
				r.Put("/{id}/read", app.NotificationsMarkRead)
				r.Delete("/{id}", app.NotificationsDelete)
			})
		})
	})

	return r
}
