package wire

import (
	"net/http"

	"tempest-reviews/internal/adaptor"
	"tempest-reviews/internal/authz"
	"tempest-reviews/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMovie(
	r chi.Router,
	movieHandler *adaptor.MovieHandler,
	reviewHandler *adaptor.ReviewHandler,
	authn func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	r.Route("/movies", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/", movieHandler.ListMovies)                    // GET /movies
		r.Get("/{id}", movieHandler.GetMovie)                  // GET /movies/{id}
		r.Get("/{id}/reviews", reviewHandler.ListMovieReviews) // GET /movies/{id}/reviews

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(authn) // Must be authenticated

			r.With(middleware.Require(authz.ActionCreateMovie, log)).Post("/", movieHandler.CreateMovie)
			r.With(middleware.Require(authz.ActionUpdateMovie, log)).Put("/{id}", movieHandler.UpdateMovie)
			r.With(middleware.Require(authz.ActionDeleteMovie, log)).Delete("/{id}", movieHandler.DeleteMovie)
		})
	})
}
