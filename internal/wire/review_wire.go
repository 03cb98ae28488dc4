package wire

import (
	"net/http"

	"tempest-reviews/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	authn func(http.Handler) http.Handler,
) {
	// ==================== PROTECTED ROUTES ====================
	// ownership is checked by the review service once the review is loaded
	r.Route("/reviews", func(r chi.Router) {
		r.Use(authn)

		r.Post("/", reviewHandler.CreateReview)       // POST /reviews
		r.Put("/{id}", reviewHandler.UpdateReview)    // PUT /reviews/{id}
		r.Delete("/{id}", reviewHandler.DeleteReview) // DELETE /reviews/{id}
	})
}
