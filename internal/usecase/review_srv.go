package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tempest-reviews/internal/authz"
	"tempest-reviews/internal/data/entity"
	"tempest-reviews/internal/data/repository"
	"tempest-reviews/internal/dto/request"
	"tempest-reviews/internal/dto/response"
	"tempest-reviews/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultScore is used for quality or fun when a review omits it.
const DefaultScore = 3

type ReviewService interface {
	CreateReview(ctx context.Context, identity *authz.Identity, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, identity *authz.Identity, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, identity *authz.Identity, reviewID string) error
	ListMovieReviews(ctx context.Context, movieID string) ([]response.ReviewResponse, error)
	ListUserReviews(ctx context.Context, identity *authz.Identity) ([]response.ReviewResponse, error)
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, identity *authz.Identity, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if err := authz.Authorize(identity, authz.ActionCreateReview, nil); err != nil {
		return nil, err
	}

	req.Content = strings.TrimSpace(req.Content)
	if err := utils.Validate(req); err != nil {
		s.log.Warn("Create review validation failed", zap.Error(err))
		return nil, err
	}

	movieID, err := parseID("movie", req.MovieID)
	if err != nil {
		return nil, err
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie %s: %w", req.MovieID, utils.ErrNotFound)
	}

	now := time.Now()
	review := &entity.Review{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:  identity.UserID,
		MovieID: movie.ID,
		Content: req.Content,
		Quality: scoreOrDefault(req.Quality),
		Fun:     scoreOrDefault(req.Fun),
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("movie_id", movie.ID.String()),
		zap.String("user_id", identity.UserID.String()),
	)

	return s.detail(ctx, review.ID)
}

func (s *reviewService) UpdateReview(ctx context.Context, identity *authz.Identity, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if identity == nil {
		return nil, utils.ErrInvalidToken
	}

	if req.Content != nil {
		trimmed := strings.TrimSpace(*req.Content)
		req.Content = &trimmed
	}
	if err := utils.Validate(req); err != nil {
		s.log.Warn("Update review validation failed", zap.Error(err))
		return nil, err
	}

	// existence first, then permission
	current, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(identity, authz.ActionUpdateReview, &current.UserID); err != nil {
		s.log.Warn("Review update denied",
			zap.String("review_id", reviewID),
			zap.String("user_id", identity.UserID.String()),
		)
		return nil, err
	}

	review := current.Review
	if req.Content != nil {
		review.Content = *req.Content
	}
	if req.Quality != nil {
		review.Quality = *req.Quality
	}
	if req.Fun != nil {
		review.Fun = *req.Fun
	}
	review.UpdatedAt = time.Now()

	if err := s.repo.Review.Update(ctx, &review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.log.Info("Review updated",
		zap.String("review_id", reviewID),
		zap.String("by", identity.UserID.String()),
	)

	return s.detail(ctx, review.ID)
}

func (s *reviewService) DeleteReview(ctx context.Context, identity *authz.Identity, reviewID string) error {
	if identity == nil {
		return utils.ErrInvalidToken
	}

	current, err := s.findReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(identity, authz.ActionDeleteReview, &current.UserID); err != nil {
		s.log.Warn("Review delete denied",
			zap.String("review_id", reviewID),
			zap.String("user_id", identity.UserID.String()),
		)
		return err
	}

	deleted, err := s.repo.Review.Delete(ctx, current.ID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("review %s: %w", reviewID, utils.ErrNotFound)
	}

	s.log.Info("Review deleted",
		zap.String("review_id", reviewID),
		zap.String("by", identity.UserID.String()),
	)
	return nil
}

func (s *reviewService) ListMovieReviews(ctx context.Context, movieID string) ([]response.ReviewResponse, error) {
	id, err := parseID("movie", movieID)
	if err != nil {
		return nil, err
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie %s: %w", movieID, utils.ErrNotFound)
	}

	reviews, err := s.repo.Review.FindByMovieID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list movie reviews: %w", err)
	}
	return response.ReviewsToResponse(reviews), nil
}

func (s *reviewService) ListUserReviews(ctx context.Context, identity *authz.Identity) ([]response.ReviewResponse, error) {
	if identity == nil {
		return nil, utils.ErrInvalidToken
	}

	reviews, err := s.repo.Review.FindByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}
	return response.ReviewsToResponse(reviews), nil
}

func (s *reviewService) findReview(ctx context.Context, reviewID string) (*entity.ReviewDetail, error) {
	id, err := parseID("review", reviewID)
	if err != nil {
		return nil, err
	}

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return nil, fmt.Errorf("review %s: %w", reviewID, utils.ErrNotFound)
	}
	return review, nil
}

func (s *reviewService) detail(ctx context.Context, id uuid.UUID) (*response.ReviewResponse, error) {
	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload review: %w", err)
	}
	if review == nil {
		return nil, fmt.Errorf("review %s: %w", id, utils.ErrNotFound)
	}
	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func scoreOrDefault(score *int) int {
	if score == nil {
		return DefaultScore
	}
	return *score
}
