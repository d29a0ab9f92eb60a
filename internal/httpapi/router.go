package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"rental/internal/api"
	"rental/internal/booking"
	"rental/internal/insurance"
	"rental/internal/property"
	"rental/pkg/config"
)

type Dependencies struct {
	Cfg        config.Config
	Log        *logrus.Entry
	Bookings   booking.Store
	Properties property.Lookup
	Plans      insurance.Source
	// Now defaults to time.Now. Tests pin it to make date rules deterministic.
	Now func() time.Time
}

func NewRouter(deps Dependencies) http.Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logrus.NewEntry(logrus.StandardLogger())
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(api.AccessLog(deps.Log))
	r.Use(api.CORSMiddleware(api.CORSOptions{
		AllowedOrigins: deps.Cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAgeSeconds:  600,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	manager := &booking.Manager{
		Store:      deps.Bookings,
		Properties: deps.Properties,
		Plans:      deps.Plans,
		MaxGuests:  deps.Cfg.MaxGuests,
		Log:        deps.Log.WithField("component", "booking"),
	}
	bookingHandlers := booking.Handlers{
		Bookings: manager,
		Now:      deps.Now,
		Log:      deps.Log,
		AppEnv:   deps.Cfg.AppEnv,
	}
	planHandlers := insurance.Handlers{Plans: deps.Plans, Log: deps.Log}
	limiter := api.NewRateLimiter(api.RateLimitOptions{
		RPS:   deps.Cfg.RateLimitRPS,
		Burst: deps.Cfg.RateLimitBurst,
	})

	// v1
	r.Route("/v1", func(r chi.Router) {
		// Production: bearer JWT. Dev: falls back to X-User-Id.
		r.Use(api.Authenticate(deps.Cfg, deps.Now))

		// Public catalog and pricing
		r.Get("/insurance-plans", planHandlers.List)
		r.Get("/quote", bookingHandlers.Quote)

		// Guest trips
		r.Group(func(r chi.Router) {
			r.Use(api.RequireRequester)

			r.Get("/bookings", bookingHandlers.List)
			r.Get("/bookings/{id}", bookingHandlers.Get)
			r.Get("/bookings/{id}/events", bookingHandlers.Events)

			r.Group(func(r chi.Router) {
				r.Use(limiter.Middleware)
				r.Post("/bookings", bookingHandlers.Create)
				r.Patch("/bookings/{id}", bookingHandlers.Patch)
				r.Post("/bookings/{id}/cancel", bookingHandlers.Cancel)
				r.Post("/bookings/{id}/insurance", bookingHandlers.AddInsurance)
			})
		})

		// Hosting
		r.Route("/hosting", func(r chi.Router) {
			r.Use(api.RequireRequester)

			r.Get("/properties/{id}/bookings", bookingHandlers.PropertyBookings)
			r.With(limiter.Middleware).Post("/bookings/{id}/cancel", bookingHandlers.HostCancel)
		})
	})

	return r
}
