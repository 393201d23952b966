package httpapi

import (
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"uigenie/internal/http/handlers"
	"uigenie/internal/middleware"
)

// Options carries the router settings that do not live on App.
type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	DefaultLocale  string
	CountryLookup  middleware.CountryLookup
	UploadsPerMin  int
	Sentry         bool
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	// Middleware dasar
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(app.Logger),
		chimw.Recoverer,
	)
	if opts.Sentry {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	r.Use(
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	auth := middleware.Authenticate(opts.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		r.Get("/upload/debug", app.UploadDebug)
		r.With(auth, middleware.RateLimit(opts.UploadsPerMin, time.Minute)).Post("/upload", app.Upload)

		r.Route("/generations", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", app.ListGenerations)
			r.Get("/{id}", app.GetGeneration)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth, middleware.RequireAdmin)
			r.Get("/dashboard", app.AdminDashboard)
			r.Delete("/owners/{ownerId}/generations", app.AdminDeleteOwnerGenerations)
		})
	})

	return r
}
