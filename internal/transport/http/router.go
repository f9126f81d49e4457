package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	followapp "github.com/playroom-api/internal/application/follow"
	playlistapp "github.com/playroom-api/internal/application/playlist"
	subscriptionapp "github.com/playroom-api/internal/application/subscription"
	"github.com/playroom-api/internal/config"
	"github.com/playroom-api/internal/transport/http/handler"
	appmiddleware "github.com/playroom-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Last-Event-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTVerifier != nil {
		authMw = appmiddleware.Auth(deps.JWTVerifier)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 subscriptions/second per IP, burst of 10 — a reconnect storm must not
	// exhaust the registry.
	subscribeRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	followSvc := followapp.NewService(deps.FollowRepo, deps.Bus)
	subscriptionSvc := subscriptionapp.NewService(deps.SubscriptionRepo, deps.PlaylistRepo, deps.Bus)
	playlistSvc := playlistapp.NewService(deps.PlaylistRepo, deps.Bus)

	healthH := handler.NewHealthHandler()
	notifH := handler.NewNotificationHandler(deps.NotificationSvc)
	followH := handler.NewFollowHandler(followSvc)
	subscriptionH := handler.NewSubscriptionHandler(subscriptionSvc)
	playlistH := handler.NewPlaylistHandler(playlistSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.With(subscribeRL.Limit).Get("/notifications/subscribe/{userId}", notifH.Subscribe)
			r.Get("/notifications/{userId}", notifH.List)

			r.Post("/follows", followH.Create)
			r.Delete("/follows", followH.Delete)

			r.Post("/subscriptions", subscriptionH.Create)
			r.Delete("/subscriptions", subscriptionH.Delete)

			r.Post("/playlists", playlistH.Create)
			r.Get("/playlists/{id}", playlistH.Get)
			r.Put("/playlists/{id}", playlistH.Rename)
		})
	})

	return r
}
