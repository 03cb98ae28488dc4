package wire

import (
	"fmt"
	"net/http"

	"tempest-reviews/internal/adaptor"
	"tempest-reviews/internal/data/repository"
	"tempest-reviews/internal/usecase"
	"tempest-reviews/pkg/middleware"
	"tempest-reviews/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the assembled HTTP application.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes on top of repo.
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) (*App, error) {
	service, err := usecase.NewService(repo, config, logger)
	if err != nil {
		return nil, fmt.Errorf("init services: %w", err)
	}
	handler := adaptor.NewHandler(service, repo, logger)

	router := setupRouter(handler, service, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	if config.HTTP.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.HTTP.AllowedOrigins))
	r.Use(middleware.SecureHeaders(config.IsProduction()))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseJSON(w, http.StatusMethodNotAllowed, false, "Method not allowed", nil, nil)
	})

	authn := middleware.Authenticate(service.Auth, logger)

	// Apply routes
	wireAuth(r, handler.Auth, config)
	wireUser(r, handler.User, handler.Review, authn)
	wireMovie(r, handler.Movie, handler.Review, authn, logger)
	wireReview(r, handler.Review, authn)

	r.Get("/health", handler.Health.Check)

	return r
}
