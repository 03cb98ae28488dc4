package wire

import (
	"net/http"

	"tempest-reviews/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	reviewHandler *adaptor.ReviewHandler,
	authn func(http.Handler) http.Handler,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Route("/me", func(r chi.Router) {
		r.Use(authn)

		r.Get("/", userHandler.GetProfile)             // GET /me
		r.Get("/reviews", reviewHandler.ListMyReviews) // GET /me/reviews
	})
}
