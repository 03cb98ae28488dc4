package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"tempest-reviews/internal/data/repository"
	"tempest-reviews/internal/usecase"
	"tempest-reviews/pkg/utils"

	"go.uber.org/zap"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

type Handler struct {
	Auth   *AuthHandler
	User   *UserHandler
	Movie  *MovieHandler
	Review *ReviewHandler
	Health *HealthHandler
}

func NewHandler(service *usecase.Service, pinger repository.Pinger, log *zap.Logger) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(service.Auth, log),
		User:   NewUserHandler(service.User, log),
		Movie:  NewMovieHandler(service.Movie, log),
		Review: NewReviewHandler(service.Review, log),
		Health: NewHealthHandler(pinger, log),
	}
}

// decodeJSON writes a 400 and returns false when the body is not a single JSON object.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			utils.ResponseBadRequest(w, "Request body is required", nil)
			return false
		}
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	if decoder.More() {
		utils.ResponseBadRequest(w, "Request body must contain a single JSON object", nil)
		return false
	}
	return true
}

// handleServiceError maps the error taxonomy onto HTTP responses. Unknown errors are
// logged in full and reported as a generic 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var validationErr *utils.ValidationError

	switch {
	case errors.As(err, &validationErr):
		log.Debug(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, utils.ErrValidation):
		utils.ResponseBadRequest(w, "Validation failed", nil)

	case errors.Is(err, utils.ErrDuplicateEmail):
		log.Debug(operation+" failed - duplicate email")
		utils.ResponseBadRequest(w, "Email is already registered", nil)

	case errors.Is(err, utils.ErrInvalidCredentials):
		utils.ResponseUnauthorized(w, "Invalid email or password")

	case errors.Is(err, utils.ErrInvalidToken):
		utils.ResponseUnauthorized(w, "Invalid or expired token")

	case errors.Is(err, utils.ErrForbidden):
		log.Warn(operation+" forbidden", zap.Error(err))
		utils.ResponseForbidden(w, "You are not allowed to perform this action")

	case errors.Is(err, utils.ErrNotFound):
		log.Debug(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Resource not found")

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
