package adaptor

import (
	"net/http"

	"tempest-reviews/internal/authz"
	"tempest-reviews/internal/dto/request"
	"tempest-reviews/internal/usecase"
	"tempest-reviews/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req request.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	identity, _ := authz.IdentityFromContext(r.Context())
	review, err := h.service.CreateReview(r.Context(), identity, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review created successfully", review)
}

// UpdateReview handles PUT /reviews/{id} (owner or admin)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	identity, _ := authz.IdentityFromContext(r.Context())
	review, err := h.service.UpdateReview(r.Context(), identity, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated successfully", review)
}

// DeleteReview handles DELETE /reviews/{id} (owner or admin)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	identity, _ := authz.IdentityFromContext(r.Context())
	if err := h.service.DeleteReview(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseNoContent(w)
}

// ListMovieReviews handles GET /movies/{id}/reviews
func (h *ReviewHandler) ListMovieReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListMovieReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "list movie reviews")
		return
	}

	utils.ResponseSuccess(w, "Reviews retrieved successfully", reviews)
}

// ListMyReviews handles GET /me/reviews
func (h *ReviewHandler) ListMyReviews(w http.ResponseWriter, r *http.Request) {
	identity, _ := authz.IdentityFromContext(r.Context())
	reviews, err := h.service.ListUserReviews(r.Context(), identity)
	if err != nil {
		handleServiceError(w, h.log, err, "list user reviews")
		return
	}

	utils.ResponseSuccess(w, "Reviews retrieved successfully", reviews)
}
