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

type MovieService interface {
	ListMovies(ctx context.Context) ([]response.MovieResponse, error)
	GetMovie(ctx context.Context, movieID string) (*response.MovieResponse, error)
	CreateMovie(ctx context.Context, identity *authz.Identity, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, identity *authz.Identity, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, identity *authz.Identity, movieID string) error
}

type movieService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo: repo,
		log:  log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) ListMovies(ctx context.Context) ([]response.MovieResponse, error) {
	movies, err := s.repo.Movie.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	ids := make([]uuid.UUID, len(movies))
	for i, movie := range movies {
		ids[i] = movie.ID
	}

	// one query for all reviews instead of one per movie
	reviews, err := s.repo.Review.FindByMovieIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list movie reviews: %w", err)
	}

	movieResponses := make([]response.MovieResponse, len(movies))
	for i, movie := range movies {
		movieResponses[i] = response.MovieToResponse(movie, reviews[movie.ID])
	}

	s.log.Debug("Movies retrieved", zap.Int("count", len(movies)))
	return movieResponses, nil
}

func (s *movieService) GetMovie(ctx context.Context, movieID string) (*response.MovieResponse, error) {
	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByMovieID(ctx, movie.ID)
	if err != nil {
		return nil, fmt.Errorf("get movie reviews: %w", err)
	}

	resp := response.MovieToResponse(movie, reviews)
	return &resp, nil
}

func (s *movieService) CreateMovie(ctx context.Context, identity *authz.Identity, req *request.MovieRequest) (*response.MovieResponse, error) {
	if err := authz.Authorize(identity, authz.ActionCreateMovie, nil); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := utils.Validate(req); err != nil {
		s.log.Warn("Create movie validation failed", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	movie := &entity.Movie{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:    req.Title,
		Synopsis: strings.TrimSpace(req.Synopsis),
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("title", movie.Title),
		zap.String("by", identity.UserID.String()),
	)

	resp := response.MovieToResponse(movie, nil)
	return &resp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, identity *authz.Identity, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error) {
	if err := authz.Authorize(identity, authz.ActionUpdateMovie, nil); err != nil {
		return nil, err
	}

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}
	if err := utils.Validate(req); err != nil {
		s.log.Warn("Update movie validation failed", zap.Error(err))
		return nil, err
	}

	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	// Apply partial updates only for provided fields
	updated := false

	if req.Title != nil && *req.Title != movie.Title {
		movie.Title = *req.Title
		updated = true
	}

	if req.Synopsis != nil {
		if synopsis := strings.TrimSpace(*req.Synopsis); synopsis != movie.Synopsis {
			movie.Synopsis = synopsis
			updated = true
		}
	}

	if updated {
		movie.UpdatedAt = time.Now()
		if err := s.repo.Movie.Update(ctx, movie); err != nil {
			return nil, fmt.Errorf("update movie: %w", err)
		}
		s.log.Info("Movie updated", zap.String("movie_id", movie.ID.String()))
	}

	reviews, err := s.repo.Review.FindByMovieID(ctx, movie.ID)
	if err != nil {
		return nil, fmt.Errorf("get movie reviews: %w", err)
	}

	resp := response.MovieToResponse(movie, reviews)
	return &resp, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, identity *authz.Identity, movieID string) error {
	if err := authz.Authorize(identity, authz.ActionDeleteMovie, nil); err != nil {
		return err
	}

	id, err := parseID("movie", movieID)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Movie.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("movie %s: %w", movieID, utils.ErrNotFound)
	}

	s.log.Info("Movie deleted",
		zap.String("movie_id", movieID),
		zap.String("by", identity.UserID.String()),
	)
	return nil
}

func (s *movieService) findMovie(ctx context.Context, movieID string) (*entity.Movie, error) {
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
	return movie, nil
}
