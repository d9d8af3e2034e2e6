package httpapi

import (
	"net/http"

	"github.com/bazarly/backend/internal/adapter/httpapi/middleware"
	"github.com/bazarly/backend/internal/platform/logger"
	"github.com/bazarly/backend/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles the HTTP handlers the router exposes.
type Handlers struct {
	Listings  *ListingHandler
	Discovery *DiscoveryHandler
	Users     *UserHandler
	Chat      *ChatHandler
	Reviews   *ReviewHandler
}

// NewRouter builds the chi router for the public API. Routes that mutate
// state require a valid JWT, while discovery and listing reads accept an
// optional identity so anonymous visitors still get results.
func NewRouter(h Handlers, jwtSecret string, tokens middleware.TokenChecker, m *metrics.Manager, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics(m))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Users.HandleRegister)
		r.Post("/auth/login", h.Users.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalJWTAuth(jwtSecret, tokens))

			r.Get("/listings/discover", h.Discovery.HandleDiscover)
			r.Get("/listings", h.Listings.HandleSearchListings)
			r.Get("/listings/{id}", h.Listings.HandleGetListing)
			r.Get("/listings/{id}/photos", h.Listings.HandleGetPhotos)
			r.Get("/sellers/{id}/reviews", h.Reviews.HandleSellerReviews)
			r.Get("/sellers/{id}/rating", h.Reviews.HandleSellerRating)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret, tokens))

			r.Post("/listings", h.Listings.HandleCreateListing)
			r.Put("/listings/{id}", h.Listings.HandleUpdateListing)
			r.Delete("/listings/{id}", h.Listings.HandleDeleteListing)
			r.Patch("/listings/{id}/status", h.Listings.HandleUpdateStatus)
			r.Post("/listings/{id}/like", h.Listings.HandleToggleLike)
			r.Post("/listings/{id}/share", h.Listings.HandleShare)
			r.Post("/listings/{id}/photos", h.Listings.HandleUploadPhoto)

			r.Post("/auth/logout", h.Users.HandleLogout)
			r.Get("/profile", h.Users.HandleGetProfile)
			r.Put("/profile", h.Users.HandleUpdateProfile)
			r.Put("/profile/password", h.Users.HandleChangePassword)
			r.Delete("/profile", h.Users.HandleDeactivate)

			r.Post("/chats", h.Chat.HandleOpenRoom)
			r.Get("/chats", h.Chat.HandleMyRooms)
			r.Post("/chats/{id}/messages", h.Chat.HandleSendMessage)
			r.Get("/chats/{id}/messages", h.Chat.HandleMessages)

			r.Post("/reviews", h.Reviews.HandleCreateReview)
		})
	})

	return r
}
