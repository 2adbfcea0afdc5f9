package httpapi

import (
	"encoding/base64"
	"net/http"

	"github.com/dmitrijs2005/triptales/internal/logging"
	"github.com/dmitrijs2005/triptales/internal/server/metrics"
	"github.com/dmitrijs2005/triptales/internal/server/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterDeps collects what NewRouter needs.
type RouterDeps struct {
	Users       IdentityService
	Itineraries ItineraryService
	Reviews     ReviewService
	Photos      storage.PhotoStore

	Metrics      metrics.MetricsCollector
	Gatherer     prometheus.Gatherer
	LoginLimiter *LoginLimiter
	Logger       logging.Logger

	GoogleMapsAPIKey string
	// MaxImageBytes bounds the decoded proof photo; the itinerary upload body
	// limit is derived from it.
	MaxImageBytes int64
}

// NewRouter wires every route. Middleware order, outermost first:
//
//	Recoverer → CORS → access log/metrics → (per route) login limiter, bearer auth
//
// Bearer tokens are only examined on routes that use the caller identity.
func NewRouter(d *RouterDeps) http.Handler {
	log := d.Logger.With("module", "httpapi")
	h := &Handler{
		users:            d.Users,
		itineraries:      d.Itineraries,
		reviews:          d.Reviews,
		photos:           d.Photos,
		log:              log,
		mapsAPIKey:       d.GoogleMapsAPIKey,
		maxUploadBodyLen: int64(base64.StdEncoding.EncodedLen(int(d.MaxImageBytes))) + smallBodyBytes,
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(cors)
	r.Use(accessLog(log, d.Metrics))

	r.Get("/healthz", h.Healthz)
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Gatherer))
	}
	r.Get(storage.PublicPrefix+"{name}", h.ServePhoto)

	r.Route("/api", func(r chi.Router) {
		r.Get("/public-config", h.PublicConfig)
		r.Post("/chat", h.Chat)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Signup)
			if d.LoginLimiter != nil {
				r.With(d.LoginLimiter.Middleware).Post("/login", h.Login)
			} else {
				r.Post("/login", h.Login)
			}
			r.With(optionalAuth(d.Users), requireAuth).Get("/me", h.Me)
		})

		r.Route("/itineraries", func(r chi.Router) {
			r.Get("/", h.ListItineraries)
			r.With(optionalAuth(d.Users)).Post("/", h.CreateItinerary)
			r.Get("/{id}", h.GetItinerary)
			r.With(optionalAuth(d.Users)).Patch("/{id}/status", h.UpdateItineraryStatus)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", h.ListReviews)
			r.Post("/", h.CreateReview)
		})
	})

	return r
}
