package wire

import (
	"tempest-reviews/internal/adaptor"
	"tempest-reviews/pkg/middleware"
	"tempest-reviews/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	config *utils.Config,
) {
	// ==================== PUBLIC ROUTES ====================
	// credential endpoints are rate limited per client IP
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(config.HTTP.AuthRateLimit))

		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
	})
}
