package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"interiorai/internal/http/handlers"
	"interiorai/internal/middleware"
)

// Options carries the cross-cutting middleware configuration.
type Options struct {
	CORSOrigins   []string
	Verifiers     []middleware.TokenVerifier
	DefaultLocale string
	CountryLookup middleware.CountryLookup
	Limiter       middleware.Limiter

	// TrustedProxies whose X-Forwarded-For is honoured. Empty trusts none.
	TrustedProxies middleware.TrustedProxies
}

func NewRouter(app *handlers.App, opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP(opts.TrustedProxies),
		chimw.Recoverer,
		middleware.Logger(app.Logger, app.Metrics),
		middleware.CORS(opts.CORSOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/metrics", app.ServeMetrics)

	r.Route("/v1/designs", func(r chi.Router) {
		r.Use(middleware.Identity(opts.Verifiers...))
		r.Get("/", app.ListDesigns)
		r.Group(func(r chi.Router) {
			if opts.Limiter != nil {
				r.Use(middleware.RateLimit(opts.Limiter, app.Logger))
			}
			r.Post("/", app.CreateDesign)
			r.Post("/video", app.CreateVideo)
		})
	})

	return r
}
